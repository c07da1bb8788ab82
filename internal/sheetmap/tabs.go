package sheetmap

import (
	"strings"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

// Fixed tab names. The persisted document always carries these five tabs
// plus one transaction tab per account.
const (
	TabMeta            = "_meta"
	TabAccounts        = "accounts"
	TabPayees          = "payees"
	TabCategories      = "categories"
	TabReconciliations = "reconciliations"

	// TxnTabPrefix marks per-account transaction tabs.
	TxnTabPrefix = "txn_"

	// maxTabNameLen is the spreadsheet backend's tab name limit.
	maxTabNameLen = 100
)

// FixedTabs lists the fixed tabs in their creation order.
var FixedTabs = []string{TabMeta, TabAccounts, TabPayees, TabCategories, TabReconciliations}

// Header rows are a stable contract: persisted files always carry exactly
// these columns in exactly this order.
var (
	MetaHeader           = []string{"title", "owner", "lastSaved", "version"}
	AccountHeader        = []string{"id", "name", "nickname", "address", "phone", "webAddress", "type", "createdAt"}
	PayeeHeader          = []string{"id", "name"}
	CategoryHeader       = []string{"id", "name"}
	ReconciliationHeader = []string{"id", "accountId", "date", "statementOpeningBalance", "statementClosingBalance", "transactionIds"}
	TransactionHeader    = []string{"id", "accountId", "date", "checkNum", "payee", "description", "payment", "deposit", "category", "cleared", "reconciliationId"}
)

// FixedHeaders maps each fixed tab to its header row.
var FixedHeaders = map[string][]string{
	TabMeta:            MetaHeader,
	TabAccounts:        AccountHeader,
	TabPayees:          PayeeHeader,
	TabCategories:      CategoryHeader,
	TabReconciliations: ReconciliationHeader,
}

// SanitizeTabName strips characters the backend rejects in tab names and
// truncates so the result plus the transaction prefix fits the name limit.
func SanitizeTabName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '*', '?', '[', ']':
			return -1
		}
		return r
	}, name)
	max := maxTabNameLen - len(TxnTabPrefix)
	if len(clean) > max {
		clean = clean[:max]
	}
	return clean
}

// AssignTabNames computes the transaction tab name for every account.
// The result is a pure function of the ordered account list: a save cycle
// deletes all prior transaction tabs and recreates them, so re-running the
// assignment must reproduce the same names. When two accounts sanitize to
// the same base name, every occurrence is disambiguated with the first
// four characters of its account id; unique names are never suffixed.
func AssignTabNames(accounts []domain.Account) map[string]string {
	bases := make([]string, len(accounts))
	counts := make(map[string]int)
	for i, a := range accounts {
		bases[i] = TxnTabPrefix + SanitizeTabName(a.Name)
		counts[bases[i]]++
	}

	names := make(map[string]string, len(accounts))
	for i, a := range accounts {
		name := bases[i]
		if counts[bases[i]] > 1 {
			name = bases[i] + " (" + shortID(a.ID) + ")"
		}
		names[a.ID] = name
	}
	return names
}

// OrderedTabNames returns the assigned names in account order.
func OrderedTabNames(accounts []domain.Account) []string {
	names := AssignTabNames(accounts)
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = names[a.ID]
	}
	return out
}

// IsTransactionTab reports whether a tab holds per-account transactions.
func IsTransactionTab(name string) bool {
	return strings.HasPrefix(name, TxnTabPrefix)
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
