// Package store is the single source of truth for the normalized entity
// collections and session state. All mutation goes through a pure
// reducer; orchestration operations (load, save, create-new, save-as)
// call the reducer and the remote store client.
package store

import (
	"github.com/shopspring/decimal"

	"github.com/deangi/MyAccountTracker/internal/autosave"
	"github.com/deangi/MyAccountTracker/internal/domain"
)

// State holds the entity collections plus session state. Reduce treats
// it as immutable: collections are copied before modification.
type State struct {
	Authenticated bool
	DocumentID    string
	DocumentTitle string

	Meta            domain.Meta
	Accounts        []domain.Account
	Transactions    []domain.Transaction
	Payees          []domain.Payee
	Categories      []domain.Category
	Reconciliations []domain.Reconciliation

	SelectedAccountID string
	// LastEntryDate remembers the most recently entered transaction date
	// so entry forms can offer it as the default for the next entry.
	LastEntryDate string

	Loading    bool
	Err        string
	SaveStatus autosave.Status
}

// NewState returns the initial session state.
func NewState() State {
	return State{
		Meta: domain.Meta{Version: domain.SchemaVersion},
	}
}

// Snapshot extracts the persistable document contents.
func (s State) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Meta:            s.Meta,
		Accounts:        s.Accounts,
		Transactions:    s.Transactions,
		Payees:          s.Payees,
		Categories:      s.Categories,
		Reconciliations: s.Reconciliations,
	}
}

// SelectedAccount resolves the current selection.
func (s State) SelectedAccount() (domain.Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == s.SelectedAccountID {
			return a, true
		}
	}
	return domain.Account{}, false
}

// AccountBalance derives one account's balance from its transactions.
func (s State) AccountBalance(accountID string) decimal.Decimal {
	return domain.AccountBalance(s.Transactions, accountID)
}
