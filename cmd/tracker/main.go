package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/deangi/MyAccountTracker/internal/auth"
	"github.com/deangi/MyAccountTracker/internal/config"
	"github.com/deangi/MyAccountTracker/internal/domain"
	"github.com/deangi/MyAccountTracker/internal/logger"
	"github.com/deangi/MyAccountTracker/internal/prefs"
	"github.com/deangi/MyAccountTracker/internal/sheets"
	"github.com/deangi/MyAccountTracker/internal/store"
	"github.com/deangi/MyAccountTracker/internal/textcodec"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "new":
		runNew(log)
	case "open":
		runOpen(log)
	case "save":
		runSave(log)
	case "accounts":
		runAccounts(log)
	case "import":
		runImport(log)
	case "export":
		runExport(log)
	case "reconcile":
		runReconcile(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("MyAccountTracker")
	fmt.Println("\nUsage:")
	fmt.Println("  tracker <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  new        Create a new document")
	fmt.Println("  open       Open a document and show a summary")
	fmt.Println("  save       Rewrite a document, normalizing its tab layout")
	fmt.Println("  accounts   List accounts with derived balances")
	fmt.Println("  import     Bulk-import transactions from a CSV or register TSV file")
	fmt.Println("  export     Export an account register as TSV with totals")
	fmt.Println("  reconcile  Reconcile an account against a bank statement")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'tracker <command> -h' for more information on a command.")
}

// setup wires the credential provider, remote client, prefs, and store.
func setup(ctx context.Context, log zerolog.Logger) (*store.Store, error) {
	cfg := config.Load()

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := sheets.NewClient(ctx, provider)
	if err != nil {
		return nil, err
	}

	userPrefs, err := prefs.New()
	if err != nil {
		log.Warn().Err(err).Msg("prefs unavailable; last document will not be remembered")
	}

	opts := []store.Option{
		store.WithLogger(log),
		store.WithAutosaveInterval(cfg.AutosaveInterval),
	}
	if userPrefs != nil {
		opts = append(opts, store.WithPrefs(userPrefs))
	}

	s := store.New(client, opts...)
	s.Dispatch(store.SetAuth{Authenticated: provider.SignedIn()})
	return s, nil
}

// buildProvider prefers a pre-issued token from the environment and
// falls back to the interactive authorization-code flow.
func buildProvider(ctx context.Context, cfg config.Config) (sheets.TokenProvider, error) {
	if token := os.Getenv("TRACKER_ACCESS_TOKEN"); token != "" {
		return &auth.StaticProvider{AccessToken: token}, nil
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("set TRACKER_ACCESS_TOKEN or TRACKER_CLIENT_ID/TRACKER_CLIENT_SECRET")
	}

	provider := auth.NewOAuthProvider(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL)
	fmt.Println("Open this URL in a browser and authorize access:")
	fmt.Println(" ", provider.AuthURL())
	fmt.Print("Paste the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	if err := provider.Exchange(ctx, strings.TrimSpace(code)); err != nil {
		return nil, err
	}
	return provider, nil
}

func runNew(log zerolog.Logger) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	title := fs.String("title", config.Load().Title, "Document title")
	owner := fs.String("owner", "", "Document owner")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.CreateNew(ctx, *title, *owner); err != nil {
		log.Fatal().Err(err).Msg("create failed")
	}
	fmt.Printf("Created document %s (%q)\n", s.State().DocumentID, *title)
}

func runOpen(log zerolog.Logger) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	docID := resolveDocumentID(s, *id, log)
	if err := s.Load(ctx, docID); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	state := s.State()
	fmt.Printf("%s (last saved %s)\n", state.DocumentTitle, state.Meta.LastSaved)
	fmt.Printf("  %d accounts, %d transactions, %d payees, %d categories, %d reconciliations\n",
		len(state.Accounts), len(state.Transactions), len(state.Payees),
		len(state.Categories), len(state.Reconciliations))
}

func runSave(log zerolog.Logger) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.Load(ctx, resolveDocumentID(s, *id, log)); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}
	if err := s.Save(ctx); err != nil {
		log.Fatal().Err(err).Msg("save failed")
	}
	fmt.Printf("Saved document %s.\n", s.State().DocumentID)
}

func runAccounts(log zerolog.Logger) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.Load(ctx, resolveDocumentID(s, *id, log)); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	state := s.State()
	for _, a := range state.Accounts {
		balance := state.AccountBalance(a.ID)
		fmt.Printf("%-30s %-10s %12s\n", a.DisplayName(), a.Type, domain.FormatCurrency(balance.StringFixed(2)))
	}
}

func runImport(log zerolog.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	file := fs.String("file", "", "Path to the import file")
	format := fs.String("format", "tsv", "File format: csv or tsv")
	account := fs.String("account", "", "Account name for rows without an Account column")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.Load(ctx, resolveDocumentID(s, *id, log)); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	table, err := readTable(*file, *format)
	if err != nil {
		log.Fatal().Err(err).Msg("parse failed")
	}

	rows := make([]store.ImportRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := row["Account"]
		if name == "" {
			name = *account
		}
		rows = append(rows, store.ImportRow{
			AccountName: name,
			Date:        row["Date"],
			CheckNum:    firstOf(row, "CheckNum", "Num"),
			Payee:       row["Payee"],
			Description: firstOf(row, "Description", "Memo"),
			Payment:     domain.ParseCurrencyInput(row["Payment"]),
			Deposit:     domain.ParseCurrencyInput(row["Deposit"]),
			Category:    row["Category"],
		})
	}

	txns, err := s.ImportTransactions(rows)
	if err != nil {
		log.Fatal().Err(err).Msg("import aborted")
	}
	if err := s.Save(ctx); err != nil {
		log.Fatal().Err(err).Msg("save failed")
	}
	fmt.Printf("Imported %d transactions.\n", len(txns))
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	account := fs.String("account", "", "Account name to export")
	file := fs.String("file", "", "Output path")
	fs.Parse(os.Args[2:])

	if *account == "" || *file == "" {
		log.Fatal().Msg("Usage: tracker export -account NAME -file PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.Load(ctx, resolveDocumentID(s, *id, log)); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	state := s.State()
	acct := findAccountByName(state.Accounts, *account)
	if acct == nil {
		log.Fatal().Str("account", *account).Msg("no such account")
	}

	ordered, _ := domain.RunningBalances(state.Transactions, acct.ID)
	table := textcodec.Table{
		Columns: []string{"Date", "Num", "Payee", "Description", "Payment", "Deposit", "Category"},
	}
	for _, t := range ordered {
		table.Rows = append(table.Rows, map[string]string{
			"Date":        domain.FormatDate(t.Date),
			"Num":         t.CheckNum,
			"Payee":       t.Payee,
			"Description": t.Description,
			"Payment":     t.Payment,
			"Deposit":     t.Deposit,
			"Category":    t.Category,
		})
	}

	out := textcodec.WriteTSV(table, textcodec.TSVOptions{Title: acct.DisplayName() + " Register"})
	if err := os.WriteFile(*file, []byte(out), 0o644); err != nil {
		log.Fatal().Err(err).Msg("write failed")
	}
	fmt.Printf("Exported %d transactions to %s.\n", len(ordered), *file)
}

func runReconcile(log zerolog.Logger) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	id := fs.String("id", "", "Document id (defaults to the last used document)")
	account := fs.String("account", "", "Account name to reconcile")
	date := fs.String("date", "", "Statement date (YYYY-MM-DD)")
	opening := fs.String("opening", "", "Statement opening balance")
	closing := fs.String("closing", "", "Statement closing balance")
	selected := fs.String("select", "", "Comma-separated transaction ids that appear on the statement")
	fs.Parse(os.Args[2:])

	if *account == "" || *opening == "" || *closing == "" {
		log.Fatal().Msg("Usage: tracker reconcile -account NAME -opening N -closing N -select id,id,...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := setup(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer s.Close(ctx)

	if err := s.Load(ctx, resolveDocumentID(s, *id, log)); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	state := s.State()
	acct := findAccountByName(state.Accounts, *account)
	if acct == nil {
		log.Fatal().Str("account", *account).Msg("no such account")
	}

	rec, err := s.Reconcile(acct.ID, domain.ToISODate(*date),
		domain.ParseCurrencyInput(*opening), domain.ParseCurrencyInput(*closing),
		strings.Split(*selected, ","))
	if err != nil {
		log.Fatal().Err(err).Msg("reconcile failed")
	}
	if err := s.Save(ctx); err != nil {
		log.Fatal().Err(err).Msg("save failed")
	}
	fmt.Printf("Reconciled %s: record %s\n", acct.DisplayName(), rec.ID)
}

func resolveDocumentID(s *store.Store, flagID string, log zerolog.Logger) string {
	if flagID != "" {
		return flagID
	}
	if id := s.State().DocumentID; id != "" {
		return id
	}
	log.Fatal().Msg("no document id given and none remembered; pass -id")
	return ""
}

func readTable(path, format string) (textcodec.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return textcodec.Table{}, err
	}
	switch format {
	case "csv":
		return textcodec.ParseCSV(strings.NewReader(string(data)))
	case "tsv":
		return textcodec.ParseRegisterTSV(string(data)), nil
	default:
		return textcodec.Table{}, fmt.Errorf("unknown format %q", format)
	}
}

func firstOf(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if row[key] != "" {
			return row[key]
		}
	}
	return ""
}

func findAccountByName(accounts []domain.Account, name string) *domain.Account {
	for i := range accounts {
		if strings.EqualFold(accounts[i].Name, name) || strings.EqualFold(accounts[i].Nickname, name) {
			return &accounts[i]
		}
	}
	return nil
}
