package domain

import (
	"fmt"
	"regexp"
	"time"
)

var isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ValidateDate requires a calendar date in YYYY-MM-DD form.
func ValidateDate(value string) error {
	if value == "" {
		return &ValidationError{Field: "date", Reason: "date is required"}
	}
	if !isoDateRe.MatchString(value) {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", value)}
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a calendar date", value)}
	}
	return nil
}

// FormatDate renders YYYY-MM-DD as MM/DD/YYYY for display. The string is
// resliced directly rather than parsed through time.Time so the date never
// shifts across timezones. Anything unrecognized passes through unchanged.
func FormatDate(value string) string {
	m := isoDateRe.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	return m[2] + "/" + m[3] + "/" + m[1]
}

// ToISODate normalizes a date string to YYYY-MM-DD. Already-ISO input is
// returned as-is; M/D/YYYY and RFC 3339 timestamps are converted; anything
// else passes through unchanged.
func ToISODate(value string) string {
	if value == "" || isoDateRe.MatchString(value) {
		return value
	}
	for _, layout := range []string{"1/2/2006", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}

// Timestamp renders a time as the ISO date-time format used for CreatedAt
// and LastSaved.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
