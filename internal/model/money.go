package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Rates and percentages travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire and form format of calendar dates.
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// ParseDate parses a calendar date. Timestamps are accepted and truncated to the date.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// DateInput returns s in the form an <input type="date"> accepts, or "" when s is not a date.
func DateInput(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

// checkWindow validates a required start/end date pair with end on or after start.
func checkWindow(errs FieldErrors, start, end string) {
	errs.Required("startDate", start, "Start date is required")
	errs.Required("endDate", end, "End date is required")
	if start == "" || end == "" {
		return
	}
	s, err := ParseDate(start)
	if err != nil {
		errs.Add("startDate", "Start date is not a valid date")
		return
	}
	e, err := ParseDate(end)
	if err != nil {
		errs.Add("endDate", "End date is not a valid date")
		return
	}
	if e.Before(s) {
		errs.Add("endDate", "End date must be on or after the start date")
	}
}

func checkNonNegative(errs FieldErrors, field string, v decimal.NullDecimal, label string) {
	if v.Valid && v.Decimal.IsNegative() {
		errs.Add(field, label+" cannot be negative")
	}
}

func checkPercent(errs FieldErrors, field string, v decimal.NullDecimal, label string) {
	if !v.Valid {
		return
	}
	if v.Decimal.IsNegative() || v.Decimal.GreaterThan(hundred) {
		errs.Add(field, label+" must be between 0 and 100")
	}
}

func checkBounds(errs FieldErrors, minField string, lo, hi decimal.NullDecimal, label string) {
	if lo.Valid && hi.Valid && lo.Decimal.GreaterThan(hi.Decimal) {
		errs.Add(minField, label+" minimum cannot exceed the maximum")
	}
}
