package sheetmap

import (
	"context"
	"reflect"
	"testing"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Meta: domain.Meta{Title: "My Finances", Owner: "dean", LastSaved: "2024-06-01T12:00:00Z", Version: "1"},
		Accounts: []domain.Account{
			{ID: "aaaa1111", Name: "Chase", Nickname: "Main", Type: domain.AccountChecking, CreatedAt: "2024-01-01T00:00:00Z"},
			{ID: "bbbb2222", Name: "Chase", Type: domain.AccountSavings, CreatedAt: "2024-01-02T00:00:00Z"},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", AccountID: "aaaa1111", Date: "2024-05-01", CheckNum: "101", Payee: "Grocer", Payment: "45.10", Category: "Food"},
			{ID: "t2", AccountID: "bbbb2222", Date: "2024-05-02", Deposit: "500.00", Description: "transfer in"},
			{ID: "t3", AccountID: "aaaa1111", Date: "2024-05-03", Deposit: "60.00", Cleared: true, ReconciliationID: "r1"},
		},
		Payees:     []domain.Payee{{ID: "p1", Name: "Grocer"}},
		Categories: []domain.Category{{ID: "c1", Name: "Food"}},
		Reconciliations: []domain.Reconciliation{
			{ID: "r1", AccountID: "aaaa1111", Date: "2024-05-31", StatementOpeningBalance: "100.00", StatementClosingBalance: "160.00", TransactionIDs: "t3"},
		},
	}
}

func TestMarshalPartitionsTransactionsByAccount(t *testing.T) {
	data := Marshal(sampleSnapshot())

	chase := data["txn_Chase (aaaa)"]
	if len(chase) != 3 { // header + t1 + t3
		t.Fatalf("txn_Chase (aaaa) has %d rows, want 3", len(chase))
	}
	savings := data["txn_Chase (bbbb)"]
	if len(savings) != 2 { // header + t2
		t.Fatalf("txn_Chase (bbbb) has %d rows, want 2", len(savings))
	}
	if got := chase[1][0]; got != "t1" {
		t.Errorf("first data row id = %q, want t1", got)
	}
	if got := chase[2][9]; got != "TRUE" {
		t.Errorf("cleared column = %q, want TRUE", got)
	}
}

func TestMarshalWritesHeaderContracts(t *testing.T) {
	data := Marshal(domain.Snapshot{Meta: domain.Meta{Version: "1"}})

	for tab, header := range FixedHeaders {
		rows, ok := data[tab]
		if !ok || len(rows) == 0 {
			t.Fatalf("tab %q missing or empty", tab)
		}
		if !reflect.DeepEqual(rows[0], header) {
			t.Errorf("tab %q header = %v, want %v", tab, rows[0], header)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleSnapshot()
	got, err := Unmarshal(Marshal(want))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// Transaction ordering across per-account tabs is not part of the
	// contract; compare membership keyed by id.
	gotTxns := make(map[string]domain.Transaction)
	for _, tx := range got.Transactions {
		gotTxns[tx.ID] = tx
	}
	for _, tx := range want.Transactions {
		if !reflect.DeepEqual(gotTxns[tx.ID], tx) {
			t.Errorf("transaction %s = %+v, want %+v", tx.ID, gotTxns[tx.ID], tx)
		}
	}
	if len(gotTxns) != len(want.Transactions) {
		t.Errorf("got %d transactions, want %d", len(gotTxns), len(want.Transactions))
	}

	got.Transactions, want.Transactions = nil, nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-tripped snapshot = %+v, want %+v", got, want)
	}
}

func TestUnmarshalEmptyTabs(t *testing.T) {
	data := TabData{
		TabMeta:            {MetaHeader},
		TabAccounts:        {AccountHeader},
		TabPayees:          {},
		TabCategories:      nil,
		TabReconciliations: {ReconciliationHeader},
	}

	snap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(snap.Accounts) != 0 || len(snap.Payees) != 0 || len(snap.Transactions) != 0 {
		t.Errorf("expected empty collections, got %+v", snap)
	}
}

// fakeRemote records the sequence of batched calls the mapper issues.
type fakeRemote struct {
	tabs    []string
	data    TabData
	calls   []string
	removed []string
	created []string
	written TabData
	failOn  string
}

func (f *fakeRemote) ListTabs(ctx context.Context, id string) ([]string, error) {
	f.calls = append(f.calls, "list")
	if f.failOn == "list" {
		return nil, errFake
	}
	return f.tabs, nil
}

func (f *fakeRemote) RebuildTransactionTabs(ctx context.Context, id string, remove, create []string) error {
	f.calls = append(f.calls, "rebuild")
	if f.failOn == "rebuild" {
		return errFake
	}
	f.removed, f.created = remove, create
	return nil
}

func (f *fakeRemote) ClearTabs(ctx context.Context, id string, tabs []string) error {
	f.calls = append(f.calls, "clear")
	if f.failOn == "clear" {
		return errFake
	}
	return nil
}

func (f *fakeRemote) WriteTabs(ctx context.Context, id string, data TabData) error {
	f.calls = append(f.calls, "write")
	if f.failOn == "write" {
		return errFake
	}
	f.written = data
	return nil
}

func (f *fakeRemote) ReadTabs(ctx context.Context, id string, tabs []string) (TabData, error) {
	f.calls = append(f.calls, "read")
	if f.failOn == "read" {
		return nil, errFake
	}
	return f.data, nil
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "remote unavailable" }

func TestWriteAllProtocol(t *testing.T) {
	remote := &fakeRemote{
		tabs: []string{"_meta", "accounts", "payees", "categories", "reconciliations", "txn_Old Account"},
	}

	if err := WriteAll(context.Background(), remote, "doc1", sampleSnapshot()); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	wantCalls := []string{"list", "rebuild", "clear", "write"}
	if !reflect.DeepEqual(remote.calls, wantCalls) {
		t.Errorf("call sequence = %v, want %v", remote.calls, wantCalls)
	}
	if !reflect.DeepEqual(remote.removed, []string{"txn_Old Account"}) {
		t.Errorf("removed = %v, want the stale transaction tab only", remote.removed)
	}
	if !reflect.DeepEqual(remote.created, []string{"txn_Chase (aaaa)", "txn_Chase (bbbb)"}) {
		t.Errorf("created = %v", remote.created)
	}
	if remote.written == nil {
		t.Error("no tab data written")
	}
}

func TestWriteAllAbortsOnFailure(t *testing.T) {
	for _, step := range []string{"list", "rebuild", "clear", "write"} {
		remote := &fakeRemote{tabs: []string{"_meta"}, failOn: step}
		if err := WriteAll(context.Background(), remote, "doc1", sampleSnapshot()); err == nil {
			t.Errorf("WriteAll with %s failure: expected error", step)
		}
	}
}

func TestReadAllMergesTransactionTabs(t *testing.T) {
	snap := sampleSnapshot()
	data := Marshal(snap)
	var tabs []string
	for tab := range data {
		tabs = append(tabs, tab)
	}
	remote := &fakeRemote{tabs: tabs, data: data}

	got, err := ReadAll(context.Background(), remote, "doc1")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got.Transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(got.Transactions))
	}
	if len(got.Accounts) != 2 {
		t.Errorf("got %d accounts, want 2", len(got.Accounts))
	}
}
