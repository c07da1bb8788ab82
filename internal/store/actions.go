package store

import (
	"github.com/deangi/MyAccountTracker/internal/autosave"
	"github.com/deangi/MyAccountTracker/internal/domain"
)

// Action is one tagged state transition handled by Reduce.
type Action interface{ isAction() }

// dataAction marks actions that mutate document data. Dispatching one is
// what flags the document dirty for the autosave tracker; session-only
// actions (auth, loading, errors, selection) do not.
type dataAction interface {
	Action
	isDataAction()
}

// Session actions.

type SetAuth struct{ Authenticated bool }

type SetLoading struct{ Loading bool }

type SetError struct{ Message string }

type SetDocument struct{ ID, Title string }

type LoadData struct{ Snapshot domain.Snapshot }

type ClearData struct{}

type SelectAccount struct{ AccountID string }

type SetSaveStatus struct{ Status autosave.Status }

// MetaPatch is a partial metadata update; nil fields are unchanged.
type MetaPatch struct {
	Title     *string
	Owner     *string
	LastSaved *string
	Version   *string
}

type SetMeta struct{ Patch MetaPatch }

// Entity CRUD actions.

type AddAccount struct{ Account domain.Account }

type UpdateAccount struct{ Account domain.Account }

// DeleteAccount cascades: it also deletes every transaction referencing
// the account and clears a matching selection.
type DeleteAccount struct{ AccountID string }

type AddTransaction struct{ Transaction domain.Transaction }

type UpdateTransaction struct{ Transaction domain.Transaction }

type DeleteTransaction struct{ TransactionID string }

type ImportTransactions struct{ Transactions []domain.Transaction }

type AddPayee struct{ Payee domain.Payee }

type UpdatePayee struct{ Payee domain.Payee }

type DeletePayee struct{ PayeeID string }

type AddCategory struct{ Category domain.Category }

type UpdateCategory struct{ Category domain.Category }

type DeleteCategory struct{ CategoryID string }

type AddReconciliation struct{ Record domain.Reconciliation }

type UpdateTransactionsBatch struct{ Patches []domain.TransactionPatch }

func (SetAuth) isAction()                 {}
func (SetLoading) isAction()              {}
func (SetError) isAction()                {}
func (SetDocument) isAction()             {}
func (LoadData) isAction()                {}
func (ClearData) isAction()               {}
func (SelectAccount) isAction()           {}
func (SetSaveStatus) isAction()           {}
func (SetMeta) isAction()                 {}
func (AddAccount) isAction()              {}
func (UpdateAccount) isAction()           {}
func (DeleteAccount) isAction()           {}
func (AddTransaction) isAction()          {}
func (UpdateTransaction) isAction()       {}
func (DeleteTransaction) isAction()       {}
func (ImportTransactions) isAction()      {}
func (AddPayee) isAction()                {}
func (UpdatePayee) isAction()             {}
func (DeletePayee) isAction()             {}
func (AddCategory) isAction()             {}
func (UpdateCategory) isAction()          {}
func (DeleteCategory) isAction()          {}
func (AddReconciliation) isAction()       {}
func (UpdateTransactionsBatch) isAction() {}

func (SetMeta) isDataAction()                 {}
func (AddAccount) isDataAction()              {}
func (UpdateAccount) isDataAction()           {}
func (DeleteAccount) isDataAction()           {}
func (AddTransaction) isDataAction()          {}
func (UpdateTransaction) isDataAction()       {}
func (DeleteTransaction) isDataAction()       {}
func (ImportTransactions) isDataAction()      {}
func (AddPayee) isDataAction()                {}
func (UpdatePayee) isDataAction()             {}
func (DeletePayee) isDataAction()             {}
func (AddCategory) isDataAction()             {}
func (UpdateCategory) isDataAction()          {}
func (DeleteCategory) isDataAction()          {}
func (AddReconciliation) isDataAction()       {}
func (UpdateTransactionsBatch) isDataAction() {}
