package domain

import "testing"

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is valid", "", false},
		{"two decimal places", "10.50", false},
		{"one decimal place", "10.5", false},
		{"no decimal places", "10", false},
		{"zero", "0", false},
		{"three decimal places", "10.505", true},
		{"negative", "-10.00", true},
		{"letters", "abc", true},
		{"currency symbol", "$10.00", true},
		{"trailing dot", "10.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMoney("payment", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMoney(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"10", "10.00"},
		{"10.5", "10.50"},
		{"10.50", "10.50"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		if got := NormalizeMoney(tt.input); got != tt.want {
			t.Errorf("NormalizeMoney(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name    string
		payment string
		deposit string
		want    string
	}{
		{"deposit only", "", "60.00", "60"},
		{"payment only", "10.00", "", "-10"},
		{"both empty", "", "", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{Payment: tt.payment, Deposit: tt.deposit}
			if got := txn.SignedAmount().String(); got != tt.want {
				t.Errorf("SignedAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseCurrencyInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$1,234.50", "1234.50"},
		{"10.00", "10.00"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		if got := ParseCurrencyInput(tt.input); got != tt.want {
			t.Errorf("ParseCurrencyInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234.5", "$1,234.50"},
		{"10", "$10.00"},
		{"-42.10", "-$42.10"},
		{"1000000", "$1,000,000.00"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.input); got != tt.want {
			t.Errorf("FormatCurrency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
