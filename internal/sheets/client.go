// Package sheets is the remote store client: it persists the tabular
// document through the Google Sheets v4 API. Every logical operation is
// one batched call, which bounds the partial-failure windows during an
// otherwise-atomic save or load.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/deangi/MyAccountTracker/internal/sheetmap"
)

// TokenProvider supplies the OAuth bearer credential for Sheets calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	SignedIn() bool
}

// Tab names a document tab and its header row, used at creation time.
type Tab struct {
	Name   string
	Header []string
}

// Client wraps one Sheets service. Methods return ErrNotAuthenticated
// when the provider has no credential, and RemoteError for backend
// failures.
type Client struct {
	svc      *sheetsv4.Service
	provider TokenProvider
}

// NewClient builds a client that pulls its bearer token from provider on
// every call. Extra options (custom endpoint, HTTP client) are for tests.
func NewClient(ctx context.Context, provider TokenProvider, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithTokenSource(&providerSource{provider: provider})}, opts...)
	svc, err := sheetsv4.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	return &Client{svc: svc, provider: provider}, nil
}

// providerSource adapts a TokenProvider to oauth2.TokenSource.
type providerSource struct {
	provider TokenProvider
}

func (s *providerSource) Token() (*oauth2.Token, error) {
	tok, err := s.provider.Token(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: tok}, nil
}

func (c *Client) ready() error {
	if c.provider == nil || !c.provider.SignedIn() {
		return ErrNotAuthenticated
	}
	return nil
}

// CreateDocument creates a new spreadsheet with the given tabs and writes
// every header row in a single batched values call.
func (c *Client) CreateDocument(ctx context.Context, title string, tabs []Tab) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	spec := &sheetsv4.Spreadsheet{
		Properties: &sheetsv4.SpreadsheetProperties{Title: title},
	}
	for _, tab := range tabs {
		spec.Sheets = append(spec.Sheets, &sheetsv4.Sheet{
			Properties: &sheetsv4.SheetProperties{Title: tab.Name},
		})
	}

	created, err := c.svc.Spreadsheets.Create(spec).Context(ctx).Do()
	if err != nil {
		return "", wrapErr("CreateDocument", err)
	}

	var headerData []*sheetsv4.ValueRange
	for _, tab := range tabs {
		headerData = append(headerData, &sheetsv4.ValueRange{
			Range:  rangeAll(tab.Name),
			Values: [][]interface{}{toCells(tab.Header)},
		})
	}
	_, err = c.svc.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             headerData,
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapErr("CreateDocument: write headers", err)
	}

	return created.SpreadsheetId, nil
}

// GetTitle fetches the document's title.
func (c *Client) GetTitle(ctx context.Context, documentID string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	doc, err := c.svc.Spreadsheets.Get(documentID).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", wrapErr("GetTitle", err)
	}
	if doc.Properties == nil || doc.Properties.Title == "" {
		return "Untitled", nil
	}
	return doc.Properties.Title, nil
}

// ListTabs enumerates the document's tab names in sheet order.
func (c *Client) ListTabs(ctx context.Context, documentID string) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	doc, err := c.svc.Spreadsheets.Get(documentID).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return nil, wrapErr("ListTabs", err)
	}
	var names []string
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}
	return names, nil
}

// RebuildTransactionTabs deletes the removed tabs and adds the created
// ones in one spreadsheets.batchUpdate, so the backend applies the
// destructive rebuild atomically: a failure leaves the old shape intact.
func (c *Client) RebuildTransactionTabs(ctx context.Context, documentID string, remove, create []string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if len(remove) == 0 && len(create) == 0 {
		return nil
	}

	doc, err := c.svc.Spreadsheets.Get(documentID).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return wrapErr("RebuildTransactionTabs", err)
	}
	ids := make(map[string]int64)
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil {
			ids[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	var requests []*sheetsv4.Request
	for _, tab := range remove {
		id, ok := ids[tab]
		if !ok {
			continue
		}
		requests = append(requests, &sheetsv4.Request{
			DeleteSheet: &sheetsv4.DeleteSheetRequest{SheetId: id},
		})
	}
	for _, tab := range create {
		requests = append(requests, &sheetsv4.Request{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: tab},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(documentID, &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return wrapErr("RebuildTransactionTabs", err)
	}
	return nil
}

// ClearTabs empties the given tabs in one batched clear.
func (c *Client) ClearTabs(ctx context.Context, documentID string, tabs []string) error {
	if err := c.ready(); err != nil {
		return err
	}
	ranges := make([]string, len(tabs))
	for i, tab := range tabs {
		ranges[i] = rangeAll(tab)
	}
	_, err := c.svc.Spreadsheets.Values.BatchClear(documentID, &sheetsv4.BatchClearValuesRequest{
		Ranges: ranges,
	}).Context(ctx).Do()
	if err != nil {
		return wrapErr("ClearTabs", err)
	}
	return nil
}

// WriteTabs writes every tab's rows in one batched values update. Tabs
// are emitted in sorted name order so the request is deterministic.
func (c *Client) WriteTabs(ctx context.Context, documentID string, data sheetmap.TabData) error {
	if err := c.ready(); err != nil {
		return err
	}

	tabs := make([]string, 0, len(data))
	for tab := range data {
		tabs = append(tabs, tab)
	}
	sort.Strings(tabs)

	var valueData []*sheetsv4.ValueRange
	for _, tab := range tabs {
		rows := data[tab]
		if len(rows) == 0 {
			continue
		}
		values := make([][]interface{}, len(rows))
		for i, row := range rows {
			values[i] = toCells(row)
		}
		valueData = append(valueData, &sheetsv4.ValueRange{
			Range:  rangeAll(tab),
			Values: values,
		})
	}

	_, err := c.svc.Spreadsheets.Values.BatchUpdate(documentID, &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             valueData,
	}).Context(ctx).Do()
	if err != nil {
		return wrapErr("WriteTabs", err)
	}
	return nil
}

// ReadTabs fetches the given tabs in one batched read. The response
// ranges come back in request order, so rows are matched to tab names by
// index rather than by parsing range strings.
func (c *Client) ReadTabs(ctx context.Context, documentID string, tabs []string) (sheetmap.TabData, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	call := c.svc.Spreadsheets.Values.BatchGet(documentID)
	for _, tab := range tabs {
		call = call.Ranges(rangeAll(tab))
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapErr("ReadTabs", err)
	}

	data := make(sheetmap.TabData, len(tabs))
	for i, tab := range tabs {
		var rows [][]string
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			for _, row := range resp.ValueRanges[i].Values {
				cells := make([]string, len(row))
				for j, cell := range row {
					cells[j] = fmt.Sprint(cell)
				}
				rows = append(rows, cells)
			}
		}
		data[tab] = rows
	}
	return data, nil
}

// rangeAll addresses a whole tab, quoting the name for spaces and
// escaping embedded quotes.
func rangeAll(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!A:Z"
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
