package store

import "github.com/deangi/MyAccountTracker/internal/domain"

// Reduce returns the next state for an action. It never mutates the
// input: changed collections are rebuilt, untouched ones are shared.
// Unrecognized actions return the state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetAuth:
		state.Authenticated = a.Authenticated

	case SetLoading:
		state.Loading = a.Loading

	case SetError:
		state.Err = a.Message

	case SetDocument:
		state.DocumentID = a.ID
		state.DocumentTitle = a.Title

	case LoadData:
		snap := a.Snapshot
		state.Meta = snap.Meta
		if state.Meta.Version == "" {
			state.Meta.Version = domain.SchemaVersion
		}
		state.Accounts = snap.Accounts
		state.Transactions = snap.Transactions
		state.Payees = snap.Payees
		state.Categories = snap.Categories
		state.Reconciliations = snap.Reconciliations
		state.Loading = false

	case ClearData:
		state.Meta = domain.Meta{Version: domain.SchemaVersion}
		state.Accounts = nil
		state.Transactions = nil
		state.Payees = nil
		state.Categories = nil
		state.Reconciliations = nil
		state.SelectedAccountID = ""
		state.DocumentID = ""
		state.DocumentTitle = ""

	case SelectAccount:
		state.SelectedAccountID = a.AccountID

	case SetSaveStatus:
		state.SaveStatus = a.Status

	case SetMeta:
		if a.Patch.Title != nil {
			state.Meta.Title = *a.Patch.Title
		}
		if a.Patch.Owner != nil {
			state.Meta.Owner = *a.Patch.Owner
		}
		if a.Patch.LastSaved != nil {
			state.Meta.LastSaved = *a.Patch.LastSaved
		}
		if a.Patch.Version != nil {
			state.Meta.Version = *a.Patch.Version
		}

	case AddAccount:
		state.Accounts = cloneAppend(state.Accounts, a.Account)

	case UpdateAccount:
		state.Accounts = replaceBy(state.Accounts, a.Account, func(x domain.Account) string { return x.ID })

	case DeleteAccount:
		state.Accounts = removeBy(state.Accounts, func(x domain.Account) bool { return x.ID == a.AccountID })
		state.Transactions = removeBy(state.Transactions, func(t domain.Transaction) bool { return t.AccountID == a.AccountID })
		if state.SelectedAccountID == a.AccountID {
			state.SelectedAccountID = ""
		}

	case AddTransaction:
		state.Transactions = cloneAppend(state.Transactions, a.Transaction)
		state.LastEntryDate = a.Transaction.Date

	case UpdateTransaction:
		state.Transactions = replaceBy(state.Transactions, a.Transaction, func(t domain.Transaction) string { return t.ID })
		state.LastEntryDate = a.Transaction.Date

	case DeleteTransaction:
		state.Transactions = removeBy(state.Transactions, func(t domain.Transaction) bool { return t.ID == a.TransactionID })

	case ImportTransactions:
		merged := make([]domain.Transaction, 0, len(state.Transactions)+len(a.Transactions))
		merged = append(merged, state.Transactions...)
		merged = append(merged, a.Transactions...)
		state.Transactions = merged

	case AddPayee:
		state.Payees = cloneAppend(state.Payees, a.Payee)

	case UpdatePayee:
		state.Payees = replaceBy(state.Payees, a.Payee, func(p domain.Payee) string { return p.ID })

	case DeletePayee:
		state.Payees = removeBy(state.Payees, func(p domain.Payee) bool { return p.ID == a.PayeeID })

	case AddCategory:
		state.Categories = cloneAppend(state.Categories, a.Category)

	case UpdateCategory:
		state.Categories = replaceBy(state.Categories, a.Category, func(c domain.Category) string { return c.ID })

	case DeleteCategory:
		state.Categories = removeBy(state.Categories, func(c domain.Category) bool { return c.ID == a.CategoryID })

	case AddReconciliation:
		state.Reconciliations = cloneAppend(state.Reconciliations, a.Record)

	case UpdateTransactionsBatch:
		patches := make(map[string]domain.TransactionPatch, len(a.Patches))
		for _, p := range a.Patches {
			patches[p.ID] = p
		}
		next := make([]domain.Transaction, len(state.Transactions))
		for i, t := range state.Transactions {
			if p, ok := patches[t.ID]; ok {
				next[i] = p.Apply(t)
			} else {
				next[i] = t
			}
		}
		state.Transactions = next
	}

	return state
}

func cloneAppend[T any](xs []T, x T) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, x)
}

func replaceBy[T any](xs []T, replacement T, id func(T) string) []T {
	out := make([]T, len(xs))
	key := id(replacement)
	for i, x := range xs {
		if id(x) == key {
			out[i] = replacement
		} else {
			out[i] = x
		}
	}
	return out
}

func removeBy[T any](xs []T, drop func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if !drop(x) {
			out = append(out, x)
		}
	}
	return out
}
