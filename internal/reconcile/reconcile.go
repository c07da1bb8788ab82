// Package reconcile matches a selectable subset of an account's
// uncleared transactions against a bank statement's declared balances.
package reconcile

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

// ErrNotBalanced rejects a commit whose selection does not reconcile to
// the statement closing balance. Nothing is mutated in that case.
var ErrNotBalanced = errors.New("statement does not balance")

// tolerance absorbs rounding noise: half a cent.
var tolerance = decimal.New(5, -3)

// Summary is the computed statement position for a selection.
type Summary struct {
	SelectedTotal   decimal.Decimal
	ExpectedBalance decimal.Decimal
	Difference      decimal.Decimal
	Balanced        bool
}

// Uncleared returns the account's not-yet-cleared transactions in
// statement order (date ascending, insertion-order ties).
func Uncleared(txns []domain.Transaction, accountID string) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txns {
		if t.AccountID == accountID && !t.Cleared {
			out = append(out, t)
		}
	}
	return domain.SortByDate(out)
}

// Summarize computes expected balance and difference for the selected
// subset: expected = opening + sum(deposit - payment); difference =
// closing - expected; balanced iff |difference| < 0.005.
func Summarize(openingBalance, closingBalance string, selected []domain.Transaction) Summary {
	total := decimal.Zero
	for _, t := range selected {
		total = total.Add(t.SignedAmount())
	}

	expected := domain.MoneyAmount(openingBalance).Add(total)
	difference := domain.MoneyAmount(closingBalance).Sub(expected)

	return Summary{
		SelectedTotal:   total,
		ExpectedBalance: expected,
		Difference:      difference,
		Balanced:        difference.Abs().LessThan(tolerance),
	}
}

// Result is one committed reconciliation: the immutable record plus the
// batch update locking the selected transactions to it.
type Result struct {
	Record  domain.Reconciliation
	Patches []domain.TransactionPatch
}

// Commit emits the reconciliation record and the cleared-flag patches for
// the selection. It re-checks the balance and refuses when the selection
// does not reconcile; a reconciliation is never editable or revocable
// once created.
func Commit(accountID, statementDate, openingBalance, closingBalance string, selected []domain.Transaction) (Result, error) {
	if !Summarize(openingBalance, closingBalance, selected).Balanced {
		return Result{}, ErrNotBalanced
	}

	recordID := uuid.NewString()
	ids := make([]string, len(selected))
	patches := make([]domain.TransactionPatch, len(selected))
	cleared := true
	for i, t := range selected {
		ids[i] = t.ID
		patches[i] = domain.TransactionPatch{
			ID:               t.ID,
			Cleared:          &cleared,
			ReconciliationID: &recordID,
		}
	}

	return Result{
		Record: domain.Reconciliation{
			ID:                      recordID,
			AccountID:               accountID,
			Date:                    statementDate,
			StatementOpeningBalance: domain.NormalizeMoney(openingBalance),
			StatementClosingBalance: domain.NormalizeMoney(closingBalance),
			TransactionIDs:          strings.Join(ids, ","),
		},
		Patches: patches,
	}, nil
}
