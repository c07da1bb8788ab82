package domain

// AccountType enumerates the supported kinds of bank accounts.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// SchemaVersion is the persisted schema version tag.
const SchemaVersion = "1"

// Account is one bank account. Balances are never stored on the account;
// they are derived from its transactions.
type Account struct {
	ID         string
	Name       string
	Nickname   string
	Address    string
	Phone      string
	WebAddress string
	Type       AccountType
	CreatedAt  string // ISO date-time
}

// DisplayName returns the nickname when set, otherwise the account name.
func (a Account) DisplayName() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return a.Name
}

// Transaction is one register entry. Payment and Deposit are decimal strings
// with at most two fractional digits, or empty; at most one is meaningfully
// populated. Cleared persists as "TRUE"/"FALSE".
type Transaction struct {
	ID               string
	AccountID        string
	Date             string // YYYY-MM-DD
	CheckNum         string
	Payee            string
	Description      string
	Payment          string
	Deposit          string
	Category         string
	Cleared          bool
	ReconciliationID string
}

// Payee is a named counterparty, auto-created the first time a transaction
// references a new name.
type Payee struct {
	ID   string
	Name string
}

// Category is a named spending bucket.
type Category struct {
	ID   string
	Name string
}

// Reconciliation records one completed statement match. Immutable once
// created. TransactionIDs holds the cleared transaction ids as a
// comma-delimited list, matching the persisted column format.
type Reconciliation struct {
	ID                      string
	AccountID               string
	Date                    string // statement date, YYYY-MM-DD
	StatementOpeningBalance string
	StatementClosingBalance string
	TransactionIDs          string
}

// Meta is the single-row document metadata tab.
type Meta struct {
	Title     string
	Owner     string
	LastSaved string
	Version   string
}

// Snapshot is the full normalized document contents, the unit exchanged
// with the tabular mapper on load and save.
type Snapshot struct {
	Meta            Meta
	Accounts        []Account
	Transactions    []Transaction
	Payees          []Payee
	Categories      []Category
	Reconciliations []Reconciliation
}
