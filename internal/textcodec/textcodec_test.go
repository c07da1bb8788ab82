package textcodec

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseRegisterTSVSkipsHeaderAndFooterLines(t *testing.T) {
	text := strings.Join([]string{
		"Checking Register",
		"",
		"1/1/2024 through 3/31/2024",
		"",
		"Date\tNum\tPayee\tPayment\tDeposit",
		"1/5/2024\t101\tGrocer\t45.10\t",
		"1/9/2024\t\tEmployer\t\t2500.00",
		"",
		"Total Payments\t45.10",
	}, "\r\n")

	table := ParseRegisterTSV(text)

	wantColumns := []string{"Date", "Num", "Payee", "Payment", "Deposit"}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantColumns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Rows[0]["Payee"] != "Grocer" || table.Rows[0]["Payment"] != "45.10" {
		t.Errorf("row 0 = %v", table.Rows[0])
	}
	if table.Rows[1]["Deposit"] != "2500.00" {
		t.Errorf("row 1 = %v", table.Rows[1])
	}
}

func TestParseRegisterTSVFiltersNonDateRows(t *testing.T) {
	text := strings.Join([]string{
		"Date\tPayee\tPayment",
		"1/5/2024\tGrocer\t10.00",
		"subtotal\t\t10.00",
		"2024-02-01\tLandlord\t900.00",
	}, "\n")

	table := ParseRegisterTSV(text)
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (non-date row dropped)", len(table.Rows))
	}
	if table.Rows[1]["Payee"] != "Landlord" {
		t.Errorf("row 1 = %v", table.Rows[1])
	}
}

func TestParseRegisterTSVEmptyInput(t *testing.T) {
	table := ParseRegisterTSV("")
	if len(table.Rows) != 0 {
		t.Errorf("rows = %v, want none", table.Rows)
	}
}

func TestWriteTSVAppendsTotalsFooter(t *testing.T) {
	table := Table{
		Columns: []string{"Date", "Payee", "Payment", "Deposit"},
		Rows: []map[string]string{
			{"Date": "2024-01-05", "Payee": "Grocer", "Payment": "45.10", "Deposit": ""},
			{"Date": "2024-01-09", "Payee": "Employer", "Payment": "", "Deposit": "2500.00"},
		},
	}

	out := WriteTSV(table, TSVOptions{Title: "Checking Register", DateRange: "1/1/2024 - 1/31/2024"})
	lines := strings.Split(out, "\r\n")

	if lines[0] != "Checking Register" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !contains(lines, "Total Deposits\t2500.00") {
		t.Errorf("missing deposits total in %q", out)
	}
	if !contains(lines, "Total Payments\t45.10") {
		t.Errorf("missing payments total in %q", out)
	}
	if !contains(lines, "Net Total\t2454.90") {
		t.Errorf("missing net total in %q", out)
	}
}

func TestWriteTSVNoTotalsWithoutMoneyColumns(t *testing.T) {
	table := Table{
		Columns: []string{"Date", "Payee"},
		Rows:    []map[string]string{{"Date": "2024-01-05", "Payee": "Grocer"}},
	}

	out := WriteTSV(table, TSVOptions{})
	if strings.Contains(out, "Total") {
		t.Errorf("unexpected totals footer in %q", out)
	}
}

func TestWriteTSVEmptyTable(t *testing.T) {
	if out := WriteTSV(Table{Columns: []string{"Date"}}, TSVOptions{}); out != "" {
		t.Errorf("empty table serialized to %q", out)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	table := Table{
		Columns: []string{"Date", "Description", "Amount"},
		Rows: []map[string]string{
			{"Date": "2024-01-05", "Description": "one, with comma", "Amount": "10.00"},
			{"Date": "2024-01-06", "Description": `quoted "text"`, "Amount": "20.00"},
		},
	}

	text, err := WriteCSV(table)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	got, err := ParseCSV(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round trip = %+v, want %+v", got, table)
	}
}
