// Package sheetmap translates between the normalized entity collections
// and the named, header-first tabular layout of the persisted document.
package sheetmap

import (
	"context"
	"fmt"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

// TabData maps a tab name to its rows. The first row of each tab is the
// header row.
type TabData map[string][][]string

// Remote is the subset of the remote store client the mapper drives.
// Each method is one batched backend call (see internal/sheets).
type Remote interface {
	ListTabs(ctx context.Context, documentID string) ([]string, error)
	RebuildTransactionTabs(ctx context.Context, documentID string, remove, create []string) error
	ClearTabs(ctx context.Context, documentID string, tabs []string) error
	WriteTabs(ctx context.Context, documentID string, data TabData) error
	ReadTabs(ctx context.Context, documentID string, tabs []string) (TabData, error)
}

// Marshal serializes a snapshot into tab rows: the five fixed tabs plus
// one transaction tab per account. Money fields are normalized to two
// decimal places on the way out.
func Marshal(snap domain.Snapshot) TabData {
	data := TabData{
		TabMeta: {
			MetaHeader,
			{snap.Meta.Title, snap.Meta.Owner, snap.Meta.LastSaved, snap.Meta.Version},
		},
	}

	accounts := [][]string{AccountHeader}
	for _, a := range snap.Accounts {
		accounts = append(accounts, []string{a.ID, a.Name, a.Nickname, a.Address, a.Phone, a.WebAddress, string(a.Type), a.CreatedAt})
	}
	data[TabAccounts] = accounts

	payees := [][]string{PayeeHeader}
	for _, p := range snap.Payees {
		payees = append(payees, []string{p.ID, p.Name})
	}
	data[TabPayees] = payees

	categories := [][]string{CategoryHeader}
	for _, c := range snap.Categories {
		categories = append(categories, []string{c.ID, c.Name})
	}
	data[TabCategories] = categories

	reconciliations := [][]string{ReconciliationHeader}
	for _, r := range snap.Reconciliations {
		reconciliations = append(reconciliations, []string{
			r.ID, r.AccountID, r.Date,
			domain.NormalizeMoney(r.StatementOpeningBalance),
			domain.NormalizeMoney(r.StatementClosingBalance),
			r.TransactionIDs,
		})
	}
	data[TabReconciliations] = reconciliations

	// One tab per account; partition by accountId, preserving insertion order.
	tabNames := AssignTabNames(snap.Accounts)
	for _, a := range snap.Accounts {
		data[tabNames[a.ID]] = [][]string{TransactionHeader}
	}
	for _, t := range snap.Transactions {
		tab, ok := tabNames[t.AccountID]
		if !ok {
			continue // orphan; account deletion cascades should prevent this
		}
		data[tab] = append(data[tab], transactionRow(t))
	}

	return data
}

func transactionRow(t domain.Transaction) []string {
	cleared := "FALSE"
	if t.Cleared {
		cleared = "TRUE"
	}
	return []string{
		t.ID, t.AccountID, t.Date, t.CheckNum, t.Payee, t.Description,
		domain.NormalizeMoney(t.Payment), domain.NormalizeMoney(t.Deposit),
		t.Category, cleared, t.ReconciliationID,
	}
}

// Unmarshal parses tab rows back into a snapshot. Fixed tabs are decoded
// by their header row, so column reordering in the stored file is
// tolerated. Every transaction-prefixed tab is merged into one flat list;
// account affiliation comes solely from the embedded accountId column.
// A tab with zero data rows yields an empty collection, not an error.
func Unmarshal(data TabData) (domain.Snapshot, error) {
	var snap domain.Snapshot
	snap.Meta.Version = domain.SchemaVersion

	for _, row := range records(data[TabMeta], MetaHeader) {
		snap.Meta = domain.Meta{
			Title:     row["title"],
			Owner:     row["owner"],
			LastSaved: row["lastSaved"],
			Version:   row["version"],
		}
	}

	for _, row := range records(data[TabAccounts], AccountHeader) {
		snap.Accounts = append(snap.Accounts, domain.Account{
			ID:         row["id"],
			Name:       row["name"],
			Nickname:   row["nickname"],
			Address:    row["address"],
			Phone:      row["phone"],
			WebAddress: row["webAddress"],
			Type:       domain.AccountType(row["type"]),
			CreatedAt:  row["createdAt"],
		})
	}

	for _, row := range records(data[TabPayees], PayeeHeader) {
		snap.Payees = append(snap.Payees, domain.Payee{ID: row["id"], Name: row["name"]})
	}

	for _, row := range records(data[TabCategories], CategoryHeader) {
		snap.Categories = append(snap.Categories, domain.Category{ID: row["id"], Name: row["name"]})
	}

	for _, row := range records(data[TabReconciliations], ReconciliationHeader) {
		snap.Reconciliations = append(snap.Reconciliations, domain.Reconciliation{
			ID:                      row["id"],
			AccountID:               row["accountId"],
			Date:                    row["date"],
			StatementOpeningBalance: row["statementOpeningBalance"],
			StatementClosingBalance: row["statementClosingBalance"],
			TransactionIDs:          row["transactionIds"],
		})
	}

	for tab, rows := range data {
		if !IsTransactionTab(tab) {
			continue
		}
		for _, row := range records(rows, TransactionHeader) {
			snap.Transactions = append(snap.Transactions, domain.Transaction{
				ID:               row["id"],
				AccountID:        row["accountId"],
				Date:             row["date"],
				CheckNum:         row["checkNum"],
				Payee:            row["payee"],
				Description:      row["description"],
				Payment:          row["payment"],
				Deposit:          row["deposit"],
				Category:         row["category"],
				Cleared:          row["cleared"] == "TRUE",
				ReconciliationID: row["reconciliationId"],
			})
		}
	}

	return snap, nil
}

// records decodes header-first rows into name-keyed maps. The stored
// header row wins; fallback covers tabs persisted with no rows at all.
func records(rows [][]string, fallback []string) []map[string]string {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]
	if len(header) == 0 {
		header = fallback
	}
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// WriteAll persists a snapshot: (1) discover existing transaction tabs,
// (2) delete them and create the freshly named set in one atomic batch,
// (3) clear the fixed tabs, (4) write all tab contents in one batch.
// Any step failing aborts the save; the in-memory model stays dirty and
// the next attempt rebuilds the full shape.
func WriteAll(ctx context.Context, remote Remote, documentID string, snap domain.Snapshot) error {
	existing, err := remote.ListTabs(ctx, documentID)
	if err != nil {
		return fmt.Errorf("WriteAll: list tabs: %w", err)
	}

	var stale []string
	for _, tab := range existing {
		if IsTransactionTab(tab) {
			stale = append(stale, tab)
		}
	}

	fresh := OrderedTabNames(snap.Accounts)
	if err := remote.RebuildTransactionTabs(ctx, documentID, stale, fresh); err != nil {
		return fmt.Errorf("WriteAll: rebuild transaction tabs: %w", err)
	}

	if err := remote.ClearTabs(ctx, documentID, FixedTabs); err != nil {
		return fmt.Errorf("WriteAll: clear fixed tabs: %w", err)
	}

	if err := remote.WriteTabs(ctx, documentID, Marshal(snap)); err != nil {
		return fmt.Errorf("WriteAll: write tabs: %w", err)
	}

	return nil
}

// ReadAll fetches every tab in one batched read and decodes the snapshot.
func ReadAll(ctx context.Context, remote Remote, documentID string) (domain.Snapshot, error) {
	tabs, err := remote.ListTabs(ctx, documentID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("ReadAll: list tabs: %w", err)
	}

	data, err := remote.ReadTabs(ctx, documentID, tabs)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("ReadAll: read tabs: %w", err)
	}

	snap, err := Unmarshal(data)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("ReadAll: %w", err)
	}
	return snap, nil
}
