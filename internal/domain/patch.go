package domain

// TransactionPatch is a partial update keyed by transaction id. Nil
// fields are left untouched when the patch is applied.
type TransactionPatch struct {
	ID               string
	Date             *string
	CheckNum         *string
	Payee            *string
	Description      *string
	Payment          *string
	Deposit          *string
	Category         *string
	Cleared          *bool
	ReconciliationID *string
}

// Apply merges the patch into a transaction.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.CheckNum != nil {
		t.CheckNum = *p.CheckNum
	}
	if p.Payee != nil {
		t.Payee = *p.Payee
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Payment != nil {
		t.Payment = *p.Payment
	}
	if p.Deposit != nil {
		t.Deposit = *p.Deposit
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Cleared != nil {
		t.Cleared = *p.Cleared
	}
	if p.ReconciliationID != nil {
		t.ReconciliationID = *p.ReconciliationID
	}
	return t
}
