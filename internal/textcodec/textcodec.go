// Package textcodec parses and serializes delimited transaction text:
// plain CSV, and the tab-separated register format bank software exports
// with title/footer lines around the data.
package textcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deangi/MyAccountTracker/internal/domain"
)

// dateColumn is the header name used to locate the register's column
// row and to filter non-data lines.
const dateColumn = "Date"

// Table is a parsed delimited file: ordered column names plus rows keyed
// by column name.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ParseCSV reads a comma-delimited file whose first record is the header
// row.
func ParseCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("ParseCSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	table := Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(table.Columns))
		for i, name := range table.Columns {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Matches M/D/YYYY, MM/DD/YYYY, or YYYY-MM-DD.
var dateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2})$`)

func looksLikeDate(s string) bool {
	return dateRe.MatchString(s)
}

// ParseRegisterTSV parses a tab-delimited register export. The column
// header row is located by hunting for a tabbed line containing "Date";
// leading title lines, blank lines, and trailing totals are skipped, as
// is any row whose date column does not hold a real date.
func ParseRegisterTSV(text string) Table {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	headerIndex := -1
	var columns []string
	for i, line := range lines {
		parts := splitTabs(line)
		if len(parts) >= 3 && contains(parts, dateColumn) {
			headerIndex = i
			columns = parts
			break
		}
	}
	// Fallback: first non-empty line is the header.
	if headerIndex == -1 {
		for i, line := range lines {
			if strings.TrimSpace(line) != "" {
				headerIndex = i
				columns = splitTabs(line)
				break
			}
		}
	}
	if headerIndex == -1 {
		return Table{}
	}

	dateIndex := indexOf(columns, dateColumn)

	table := Table{Columns: nonEmpty(columns)}
	for _, line := range lines[headerIndex+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if dateIndex >= 0 {
			var date string
			if dateIndex < len(parts) {
				date = strings.TrimSpace(parts[dateIndex])
			}
			if !looksLikeDate(date) {
				continue
			}
		}
		row := make(map[string]string, len(columns))
		for i, name := range columns {
			if name == "" {
				continue
			}
			if i < len(parts) {
				row[name] = strings.TrimSpace(parts[i])
			} else {
				row[name] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// TSVOptions adds optional non-data lines around a register export.
type TSVOptions struct {
	Title     string
	DateRange string
}

// WriteTSV serializes a table as tab-delimited text with CRLF line ends.
// When the table carries Payment or Deposit columns, a totals footer is
// appended with their sums and the net.
func WriteTSV(table Table, opts TSVOptions) string {
	if len(table.Rows) == 0 {
		return ""
	}

	var lines []string
	if opts.Title != "" {
		lines = append(lines, opts.Title, "")
	}
	if opts.DateRange != "" {
		lines = append(lines, opts.DateRange, "")
	}

	lines = append(lines, strings.Join(table.Columns, "\t"))
	for _, row := range table.Rows {
		fields := make([]string, len(table.Columns))
		for i, name := range table.Columns {
			fields[i] = row[name]
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}

	hasPayment := contains(table.Columns, "Payment")
	hasDeposit := contains(table.Columns, "Deposit")
	if hasPayment || hasDeposit {
		lines = append(lines, "")
		deposits := columnTotal(table.Rows, "Deposit")
		payments := columnTotal(table.Rows, "Payment")
		if hasDeposit {
			lines = append(lines, "Total Deposits\t"+deposits.StringFixed(2))
		}
		if hasPayment {
			lines = append(lines, "Total Payments\t"+payments.StringFixed(2))
		}
		if hasDeposit && hasPayment {
			lines = append(lines, "Net Total\t"+deposits.Sub(payments).StringFixed(2))
		}
	}

	return strings.Join(lines, "\r\n")
}

// WriteCSV serializes a table as comma-delimited text.
func WriteCSV(table Table) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(table.Columns); err != nil {
		return "", fmt.Errorf("WriteCSV: %w", err)
	}
	for _, row := range table.Rows {
		fields := make([]string, len(table.Columns))
		for i, name := range table.Columns {
			fields[i] = row[name]
		}
		if err := w.Write(fields); err != nil {
			return "", fmt.Errorf("WriteCSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("WriteCSV: %w", err)
	}
	return b.String(), nil
}

func columnTotal(rows []map[string]string, column string) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(domain.MoneyAmount(domain.ParseCurrencyInput(row[column])))
	}
	return sum
}

func splitTabs(line string) []string {
	parts := strings.Split(line, "\t")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

func indexOf(xs []string, want string) int {
	for i, x := range xs {
		if x == want {
			return i
		}
	}
	return -1
}

func nonEmpty(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}
