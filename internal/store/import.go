package store

import (
	"fmt"
	"strings"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

// ImportRow is one mapped row of an import file: the caller has already
// mapped source columns onto these fields.
type ImportRow struct {
	AccountName string
	Date        string
	CheckNum    string
	Payee       string
	Description string
	Payment     string
	Deposit     string
	Category    string
}

// ImportError reports a rejected bulk import: the distinct account names
// that resolved to no account. Nothing was added.
type ImportError struct {
	UnresolvedAccounts []string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import aborted: unknown accounts: %s", strings.Join(e.UnresolvedAccounts, ", "))
}

// ImportTransactions bulk-imports rows with all-or-nothing semantics.
// The whole batch is validated first: every account name must resolve
// (ignoring case) and every row must carry a valid date and money
// amounts. Any failure rejects the batch before a single transaction is
// constructed. On success the batch lands as one import action.
func (s *Store) ImportTransactions(rows []ImportRow) ([]domain.Transaction, error) {
	s.mu.Lock()
	accounts := s.state.Accounts
	s.mu.Unlock()

	byName := make(map[string]string, len(accounts))
	for _, a := range accounts {
		byName[strings.ToLower(a.Name)] = a.ID
	}

	var unresolved []string
	seen := make(map[string]bool)
	for i, row := range rows {
		if _, ok := byName[strings.ToLower(row.AccountName)]; !ok {
			key := strings.ToLower(row.AccountName)
			if !seen[key] {
				seen[key] = true
				unresolved = append(unresolved, row.AccountName)
			}
			continue
		}
		if err := domain.ValidateDate(domain.ToISODate(row.Date)); err != nil {
			return nil, fmt.Errorf("ImportTransactions: row %d: %w", i+1, err)
		}
		if err := domain.ValidateMoney("payment", row.Payment); err != nil {
			return nil, fmt.Errorf("ImportTransactions: row %d: %w", i+1, err)
		}
		if err := domain.ValidateMoney("deposit", row.Deposit); err != nil {
			return nil, fmt.Errorf("ImportTransactions: row %d: %w", i+1, err)
		}
	}
	if len(unresolved) > 0 {
		return nil, &ImportError{UnresolvedAccounts: unresolved}
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txn := domain.Transaction{
			ID:          s.newID(),
			AccountID:   byName[strings.ToLower(row.AccountName)],
			Date:        domain.ToISODate(row.Date),
			CheckNum:    row.CheckNum,
			Payee:       row.Payee,
			Description: row.Description,
			Payment:     domain.NormalizeMoney(row.Payment),
			Deposit:     domain.NormalizeMoney(row.Deposit),
			Category:    row.Category,
		}
		s.ensureNames(txn)
		txns = append(txns, txn)
	}

	s.Dispatch(ImportTransactions{Transactions: txns})

	s.log.Info().Int("imported", len(txns)).Msg("transactions imported")
	return txns, nil
}
