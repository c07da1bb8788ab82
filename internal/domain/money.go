package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports a rejected field value. Operations that would
// mutate state validate first and never partially apply.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var moneyRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidateMoney accepts the empty string or a non-negative decimal string
// with at most two fractional digits.
func ValidateMoney(field, value string) error {
	if value == "" {
		return nil
	}
	if !moneyRe.MatchString(value) {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a dollar amount (e.g. 10.50)", value)}
	}
	return nil
}

// NormalizeMoney rewrites a valid money string to exactly two decimal
// places ("10" -> "10.00"). Empty stays empty.
func NormalizeMoney(value string) string {
	if value == "" {
		return ""
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	return d.StringFixed(2)
}

// MoneyAmount parses a money string into a decimal, treating empty as zero.
func MoneyAmount(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SignedAmount is the transaction's contribution to a balance:
// deposit minus payment.
func (t Transaction) SignedAmount() decimal.Decimal {
	return MoneyAmount(t.Deposit).Sub(MoneyAmount(t.Payment))
}

// ParseCurrencyInput strips currency punctuation ($, commas, spaces) from
// user input, returning a bare decimal string or empty when nothing
// numeric remains.
func ParseCurrencyInput(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return -1
	}, value)
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return ""
	}
	return cleaned
}

// FormatCurrency renders an amount as a US-style dollar string with
// thousands separators, e.g. "$1,234.50". Empty input yields empty output.
func FormatCurrency(value string) string {
	if value == "" {
		return ""
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ""
	}
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("$")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(r)
	}
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}
