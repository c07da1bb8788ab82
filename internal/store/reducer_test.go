package store

import (
	"testing"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

func TestReduceDeleteAccountCascades(t *testing.T) {
	state := NewState()
	state.Accounts = []domain.Account{
		{ID: "acct1", Name: "Chase"},
		{ID: "acct2", Name: "Savings"},
	}
	state.Transactions = []domain.Transaction{
		{ID: "t1", AccountID: "acct1"},
		{ID: "t2", AccountID: "acct2"},
		{ID: "t3", AccountID: "acct1"},
	}
	state.SelectedAccountID = "acct1"

	next := Reduce(state, DeleteAccount{AccountID: "acct1"})

	if len(next.Accounts) != 1 || next.Accounts[0].ID != "acct2" {
		t.Errorf("accounts after delete = %+v", next.Accounts)
	}
	if len(next.Transactions) != 1 || next.Transactions[0].ID != "t2" {
		t.Errorf("transactions after delete = %+v, want only t2", next.Transactions)
	}
	if next.SelectedAccountID != "" {
		t.Errorf("selection = %q, want cleared", next.SelectedAccountID)
	}

	// The input state is untouched.
	if len(state.Transactions) != 3 || state.SelectedAccountID != "acct1" {
		t.Error("Reduce mutated its input state")
	}
}

func TestReduceDeleteAccountKeepsOtherSelection(t *testing.T) {
	state := NewState()
	state.Accounts = []domain.Account{{ID: "acct1"}, {ID: "acct2"}}
	state.SelectedAccountID = "acct2"

	next := Reduce(state, DeleteAccount{AccountID: "acct1"})
	if next.SelectedAccountID != "acct2" {
		t.Errorf("selection = %q, want acct2", next.SelectedAccountID)
	}
}

func TestReduceUpdateTransactionsBatch(t *testing.T) {
	state := NewState()
	state.Transactions = []domain.Transaction{
		{ID: "t1", Cleared: false},
		{ID: "t2", Cleared: false},
		{ID: "t3", Cleared: false},
	}

	cleared := true
	recID := "r1"
	next := Reduce(state, UpdateTransactionsBatch{Patches: []domain.TransactionPatch{
		{ID: "t1", Cleared: &cleared, ReconciliationID: &recID},
		{ID: "t3", Cleared: &cleared, ReconciliationID: &recID},
	}})

	if !next.Transactions[0].Cleared || next.Transactions[0].ReconciliationID != "r1" {
		t.Errorf("t1 = %+v, want cleared by r1", next.Transactions[0])
	}
	if next.Transactions[1].Cleared {
		t.Error("t2 was patched but not targeted")
	}
	if !next.Transactions[2].Cleared {
		t.Error("t3 not patched")
	}
	if state.Transactions[0].Cleared {
		t.Error("Reduce mutated its input state")
	}
}

func TestReduceLoadAndClear(t *testing.T) {
	state := NewState()
	snap := domain.Snapshot{
		Meta:     domain.Meta{Title: "Book", Version: "1"},
		Accounts: []domain.Account{{ID: "a1", Name: "Chase"}},
		Payees:   []domain.Payee{{ID: "p1", Name: "Grocer"}},
	}
	state.Loading = true

	loaded := Reduce(state, LoadData{Snapshot: snap})
	if loaded.Meta.Title != "Book" || len(loaded.Accounts) != 1 {
		t.Errorf("loaded state = %+v", loaded)
	}
	if loaded.Loading {
		t.Error("loading flag not cleared by load")
	}

	loaded.DocumentID = "doc1"
	loaded.SelectedAccountID = "a1"
	cleared := Reduce(loaded, ClearData{})
	if cleared.DocumentID != "" || cleared.SelectedAccountID != "" {
		t.Errorf("cleared state keeps session pointers: %+v", cleared)
	}
	if len(cleared.Accounts) != 0 || len(cleared.Payees) != 0 {
		t.Error("cleared state keeps collections")
	}
	if cleared.Meta.Version != domain.SchemaVersion {
		t.Errorf("cleared meta version = %q", cleared.Meta.Version)
	}
}

func TestReduceSetMetaMergesPatch(t *testing.T) {
	state := NewState()
	state.Meta = domain.Meta{Title: "Old", Owner: "dean", Version: "1"}

	title := "New"
	next := Reduce(state, SetMeta{Patch: MetaPatch{Title: &title}})
	if next.Meta.Title != "New" {
		t.Errorf("title = %q, want New", next.Meta.Title)
	}
	if next.Meta.Owner != "dean" || next.Meta.Version != "1" {
		t.Errorf("unpatched fields changed: %+v", next.Meta)
	}
}

func TestReduceTransactionEntryRemembersDate(t *testing.T) {
	state := NewState()
	next := Reduce(state, AddTransaction{Transaction: domain.Transaction{ID: "t1", Date: "2024-07-04"}})
	if next.LastEntryDate != "2024-07-04" {
		t.Errorf("LastEntryDate = %q, want 2024-07-04", next.LastEntryDate)
	}
}
