package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deangi/MyAccountTracker/internal/autosave"
	"github.com/deangi/MyAccountTracker/internal/domain"
	"github.com/deangi/MyAccountTracker/internal/reconcile"
	"github.com/deangi/MyAccountTracker/internal/sheetmap"
	"github.com/deangi/MyAccountTracker/internal/sheets"
)

// DefaultTitle names documents created without an explicit title.
const DefaultTitle = "MyAccountTracker"

// Remote is the remote store contract the orchestrator drives: the
// mapper's batched tab operations plus document creation and title
// lookup. internal/sheets.Client satisfies it.
type Remote interface {
	sheetmap.Remote
	CreateDocument(ctx context.Context, title string, tabs []sheets.Tab) (string, error)
	GetTitle(ctx context.Context, documentID string) (string, error)
}

// Prefs persists the last used document id across sessions.
type Prefs interface {
	LastDocumentID() string
	SetLastDocumentID(id string) error
}

// Option configures a Store.
type Option func(*Store)

// WithPrefs attaches last-document persistence.
func WithPrefs(p Prefs) Option {
	return func(s *Store) { s.prefs = p }
}

// WithLogger sets the orchestration logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithAutosaveInterval overrides the autosave debounce interval.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Store) { s.autosaveInterval = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the state, the reducer, and the autosave tracker, and
// orchestrates load/save cycles against the remote store.
type Store struct {
	remote  Remote
	prefs   Prefs
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
	tracker *autosave.Tracker

	autosaveInterval time.Duration

	mu    sync.Mutex // guards state
	state State

	saveMu sync.Mutex // serializes save cycles; last completed write wins
}

// New builds a store around a remote client. The autosave tracker is
// created here and wired to Save; Close releases it.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:           remote,
		log:              zerolog.Nop(),
		now:              time.Now,
		newID:            uuid.NewString,
		autosaveInterval: autosave.DefaultInterval,
		state:            NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.prefs != nil {
		s.state.DocumentID = s.prefs.LastDocumentID()
	}

	s.tracker = autosave.New(s.Save,
		autosave.WithInterval(s.autosaveInterval),
		autosave.WithLogger(s.log),
		autosave.WithClock(s.now))
	s.tracker.Subscribe(func(status autosave.Status) {
		s.apply(SetSaveStatus{Status: status})
	})
	s.state.SaveStatus = s.tracker.Status()

	return s
}

// Tracker exposes the autosave state machine for subscription.
func (s *Store) Tracker() *autosave.Tracker { return s.tracker }

// Close flushes unsaved changes best-effort and stops the tracker.
func (s *Store) Close(ctx context.Context) error {
	return s.tracker.Close(ctx)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action through the reducer. Data-mutating actions
// flag the document dirty as an observable side effect.
func (s *Store) Dispatch(action Action) {
	s.apply(action)
	if _, ok := action.(dataAction); ok {
		s.tracker.MarkDirty()
	}
}

// apply runs the reducer without dirty-marking; orchestration operations
// use it for bookkeeping mutations that are not user edits.
func (s *Store) apply(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.mu.Unlock()
}

// Load fetches all tabs of a document and replaces the in-memory model.
// On failure the prior state is left untouched apart from the surfaced
// error.
func (s *Store) Load(ctx context.Context, documentID string) error {
	s.apply(SetLoading{Loading: true})
	s.apply(SetError{})

	snap, err := sheetmap.ReadAll(ctx, s.remote, documentID)
	if err != nil {
		s.apply(SetError{Message: err.Error()})
		s.apply(SetLoading{Loading: false})
		return fmt.Errorf("Load: %w", err)
	}

	title := snap.Meta.Title
	if title == "" {
		if t, err := s.remote.GetTitle(ctx, documentID); err == nil {
			title = t
		}
	}

	s.apply(LoadData{Snapshot: snap})
	s.apply(SetDocument{ID: documentID, Title: title})
	s.rememberDocument(documentID)
	s.tracker.MarkClean()

	s.log.Info().
		Str("document_id", documentID).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("document loaded")
	return nil
}

// Save persists the current state. No-op when not authenticated. When no
// document exists yet, one is created from the metadata title first and
// remembered for reuse. Concurrent calls serialize; the last completed
// write wins.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	authenticated := s.state.Authenticated
	s.mu.Unlock()
	if !authenticated {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	documentID := s.state.DocumentID
	title := s.state.Meta.Title
	s.mu.Unlock()

	if documentID == "" {
		if title == "" {
			title = DefaultTitle
		}
		id, err := s.remote.CreateDocument(ctx, title, fixedTabs())
		if err != nil {
			s.apply(SetError{Message: err.Error()})
			return fmt.Errorf("Save: create document: %w", err)
		}
		documentID = id
		s.apply(SetDocument{ID: id, Title: title})
		s.apply(SetMeta{Patch: MetaPatch{Title: &title}})
		s.rememberDocument(id)
	}

	lastSaved := domain.Timestamp(s.now())
	s.mu.Lock()
	snap := s.state.Snapshot()
	s.mu.Unlock()
	snap.Meta.LastSaved = lastSaved
	if snap.Meta.Version == "" {
		snap.Meta.Version = domain.SchemaVersion
	}

	if err := sheetmap.WriteAll(ctx, s.remote, documentID, snap); err != nil {
		s.apply(SetError{Message: err.Error()})
		return fmt.Errorf("Save: %w", err)
	}

	s.apply(SetMeta{Patch: MetaPatch{LastSaved: &lastSaved}})
	s.tracker.MarkClean()

	s.log.Info().Str("document_id", documentID).Msg("document saved")
	return nil
}

// CreateNew creates an empty document, resets the collections, and
// writes the skeleton remotely.
func (s *Store) CreateNew(ctx context.Context, title, owner string) error {
	s.apply(SetLoading{Loading: true})
	s.apply(SetError{})
	defer s.apply(SetLoading{Loading: false})

	id, err := s.remote.CreateDocument(ctx, title, fixedTabs())
	if err != nil {
		s.apply(SetError{Message: err.Error()})
		return fmt.Errorf("CreateNew: %w", err)
	}

	lastSaved := domain.Timestamp(s.now())
	s.apply(ClearData{})
	s.apply(SetMeta{Patch: MetaPatch{Title: &title, Owner: &owner, LastSaved: &lastSaved}})
	s.apply(SetDocument{ID: id, Title: title})
	s.rememberDocument(id)

	s.mu.Lock()
	snap := s.state.Snapshot()
	s.mu.Unlock()
	if err := sheetmap.WriteAll(ctx, s.remote, id, snap); err != nil {
		s.apply(SetError{Message: err.Error()})
		return fmt.Errorf("CreateNew: %w", err)
	}

	s.tracker.MarkClean()
	s.log.Info().Str("document_id", id).Str("title", title).Msg("new document created")
	return nil
}

// SaveAs creates a new document, writes the current state to it, and
// switches the active document pointer. The old document is untouched.
func (s *Store) SaveAs(ctx context.Context, title string) error {
	s.apply(SetLoading{Loading: true})
	s.apply(SetError{})
	defer s.apply(SetLoading{Loading: false})

	id, err := s.remote.CreateDocument(ctx, title, fixedTabs())
	if err != nil {
		s.apply(SetError{Message: err.Error()})
		return fmt.Errorf("SaveAs: %w", err)
	}

	lastSaved := domain.Timestamp(s.now())
	s.apply(SetMeta{Patch: MetaPatch{Title: &title, LastSaved: &lastSaved}})
	s.apply(SetDocument{ID: id, Title: title})
	s.rememberDocument(id)

	s.mu.Lock()
	snap := s.state.Snapshot()
	s.mu.Unlock()
	if err := sheetmap.WriteAll(ctx, s.remote, id, snap); err != nil {
		s.apply(SetError{Message: err.Error()})
		return fmt.Errorf("SaveAs: %w", err)
	}

	s.tracker.MarkClean()
	s.log.Info().Str("document_id", id).Str("title", title).Msg("saved as new document")
	return nil
}

func (s *Store) rememberDocument(id string) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetLastDocumentID(id); err != nil {
		s.log.Warn().Err(err).Msg("could not persist last document id")
	}
}

func fixedTabs() []sheets.Tab {
	tabs := make([]sheets.Tab, 0, len(sheetmap.FixedTabs))
	for _, name := range sheetmap.FixedTabs {
		tabs = append(tabs, sheets.Tab{Name: name, Header: sheetmap.FixedHeaders[name]})
	}
	return tabs
}

// AddAccount validates and creates an account.
func (s *Store) AddAccount(account domain.Account) (domain.Account, error) {
	if strings.TrimSpace(account.Name) == "" {
		return domain.Account{}, &domain.ValidationError{Field: "name", Reason: "account name is required"}
	}
	if account.Type != domain.AccountChecking && account.Type != domain.AccountSavings {
		return domain.Account{}, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", account.Type)}
	}
	if account.ID == "" {
		account.ID = s.newID()
	}
	if account.CreatedAt == "" {
		account.CreatedAt = domain.Timestamp(s.now())
	}
	s.Dispatch(AddAccount{Account: account})
	return account, nil
}

// AddTransaction validates, normalizes, and creates a transaction,
// auto-creating its payee and category when they are new names.
func (s *Store) AddTransaction(txn domain.Transaction) (domain.Transaction, error) {
	txn, err := s.prepareTransaction(txn)
	if err != nil {
		return domain.Transaction{}, err
	}
	if txn.ID == "" {
		txn.ID = s.newID()
	}
	s.ensureNames(txn)
	s.Dispatch(AddTransaction{Transaction: txn})
	return txn, nil
}

// UpdateTransaction validates, normalizes, and replaces a transaction in
// place.
func (s *Store) UpdateTransaction(txn domain.Transaction) (domain.Transaction, error) {
	txn, err := s.prepareTransaction(txn)
	if err != nil {
		return domain.Transaction{}, err
	}
	s.ensureNames(txn)
	s.Dispatch(UpdateTransaction{Transaction: txn})
	return txn, nil
}

// prepareTransaction rejects invalid input before any state mutation.
func (s *Store) prepareTransaction(txn domain.Transaction) (domain.Transaction, error) {
	if err := domain.ValidateDate(txn.Date); err != nil {
		return domain.Transaction{}, err
	}
	if err := domain.ValidateMoney("payment", txn.Payment); err != nil {
		return domain.Transaction{}, err
	}
	if err := domain.ValidateMoney("deposit", txn.Deposit); err != nil {
		return domain.Transaction{}, err
	}
	txn.Payment = domain.NormalizeMoney(txn.Payment)
	txn.Deposit = domain.NormalizeMoney(txn.Deposit)
	return txn, nil
}

// ensureNames auto-creates payee and category records the first time a
// transaction references a new name. Comparison is case-insensitive, the
// same policy as the explicit add operations.
func (s *Store) ensureNames(txn domain.Transaction) {
	s.mu.Lock()
	havePayee := txn.Payee == "" || findPayee(s.state.Payees, txn.Payee) != nil
	haveCategory := txn.Category == "" || findCategory(s.state.Categories, txn.Category) != nil
	s.mu.Unlock()

	if !havePayee {
		s.Dispatch(AddPayee{Payee: domain.Payee{ID: s.newID(), Name: txn.Payee}})
	}
	if !haveCategory {
		s.Dispatch(AddCategory{Category: domain.Category{ID: s.newID(), Name: txn.Category}})
	}
}

// AddPayee creates a payee, rejecting names that already exist ignoring
// case.
func (s *Store) AddPayee(name string) (domain.Payee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Payee{}, &domain.ValidationError{Field: "name", Reason: "payee name is required"}
	}
	s.mu.Lock()
	exists := findPayee(s.state.Payees, name) != nil
	s.mu.Unlock()
	if exists {
		return domain.Payee{}, &domain.ValidationError{Field: "name", Reason: fmt.Sprintf("payee %q already exists", name)}
	}
	payee := domain.Payee{ID: s.newID(), Name: name}
	s.Dispatch(AddPayee{Payee: payee})
	return payee, nil
}

// AddCategory creates a category, rejecting names that already exist
// ignoring case.
func (s *Store) AddCategory(name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, &domain.ValidationError{Field: "name", Reason: "category name is required"}
	}
	s.mu.Lock()
	exists := findCategory(s.state.Categories, name) != nil
	s.mu.Unlock()
	if exists {
		return domain.Category{}, &domain.ValidationError{Field: "name", Reason: fmt.Sprintf("category %q already exists", name)}
	}
	category := domain.Category{ID: s.newID(), Name: name}
	s.Dispatch(AddCategory{Category: category})
	return category, nil
}

// Reconcile commits a balanced statement: it emits the reconciliation
// record and flips the selected transactions to cleared in one batch.
// Nothing is mutated when the selection does not balance.
func (s *Store) Reconcile(accountID, statementDate, openingBalance, closingBalance string, selectedIDs []string) (domain.Reconciliation, error) {
	s.mu.Lock()
	uncleared := reconcile.Uncleared(s.state.Transactions, accountID)
	s.mu.Unlock()

	wanted := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		wanted[id] = true
	}
	var selected []domain.Transaction
	for _, t := range uncleared {
		if wanted[t.ID] {
			selected = append(selected, t)
		}
	}

	result, err := reconcile.Commit(accountID, statementDate, openingBalance, closingBalance, selected)
	if err != nil {
		return domain.Reconciliation{}, fmt.Errorf("Reconcile: %w", err)
	}

	s.Dispatch(AddReconciliation{Record: result.Record})
	s.Dispatch(UpdateTransactionsBatch{Patches: result.Patches})

	s.log.Info().
		Str("reconciliation_id", result.Record.ID).
		Str("account_id", accountID).
		Int("cleared", len(result.Patches)).
		Msg("statement reconciled")
	return result.Record, nil
}

func findPayee(payees []domain.Payee, name string) *domain.Payee {
	for i := range payees {
		if strings.EqualFold(payees[i].Name, name) {
			return &payees[i]
		}
	}
	return nil
}

func findCategory(categories []domain.Category, name string) *domain.Category {
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i]
		}
	}
	return nil
}
