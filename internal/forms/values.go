package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Text returns the trimmed value of field.
func Text(v url.Values, field string) string {
	return strings.TrimSpace(v.Get(field))
}

// Bool reads a checkbox.
func Bool(v url.Values, field string) bool {
	switch strings.ToLower(v.Get(field)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Decimal reads an optional number. Unparseable input is recorded in errs.
func Decimal(errs model.FieldErrors, v url.Values, field, label string) decimal.NullDecimal {
	return parseDecimal(errs, field, Text(v, field), label)
}

func parseDecimal(errs model.FieldErrors, field, raw, label string) decimal.NullDecimal {
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, label+" must be a number")
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Int reads an optional whole number.
func Int(errs model.FieldErrors, v url.Values, field, label string) *int {
	raw := Text(v, field)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, label+" must be a whole number")
		return nil
	}
	return &n
}

// Int64 reads an optional identifier.
func Int64(errs model.FieldErrors, v url.Values, field, label string) *int64 {
	raw := Text(v, field)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.Add(field, label+" must be a whole number")
		return nil
	}
	return &n
}

// ID reads a record id; empty means 0.
func ID(errs model.FieldErrors, v url.Values, field, label string) int64 {
	if p := Int64(errs, v, field, label); p != nil {
		return *p
	}
	return 0
}

// At returns the i-th value of a repeated field, or "".
func At(v url.Values, field string, i int) string {
	vals := v[field]
	if i < len(vals) {
		return strings.TrimSpace(vals[i])
	}
	return ""
}
