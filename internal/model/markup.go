package model

import "github.com/shopspring/decimal"

// MarkupRule adds a percentage on top of a base fare within optional bounds.
// Markup rules are create-only.
type MarkupRule struct {
	ID               int64               `json:"markupId,omitempty"`
	MinMarkup        decimal.NullDecimal `json:"minMarkup"`
	MaxMarkup        decimal.NullDecimal `json:"maxMarkup"`
	MinBaseFare      decimal.NullDecimal `json:"minBaseFare"`
	MaxBaseFare      decimal.NullDecimal `json:"maxBaseFare"`
	MarkupPercentage decimal.NullDecimal `json:"markupPercentage"`
	SupplierID       *int64              `json:"supplierId"`
	SailingID        *int64              `json:"sailingId"`
	IsActive         bool                `json:"isActive"`
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate"`
}

// NewMarkupRule returns an empty rule with the form defaults.
func NewMarkupRule() MarkupRule {
	return MarkupRule{IsActive: true}
}

// MarkupQuote asks for the markup a rule yields on one base fare.
type MarkupQuote struct {
	Rule     MarkupRule      `json:"rule"`
	BaseFare decimal.Decimal `json:"baseFare"`
}

// Validate checks the markup form rules.
func (m MarkupRule) Validate() error {
	errs := FieldErrors{}
	if !m.MarkupPercentage.Valid {
		errs.Add("markupPercentage", "Markup percentage is required")
	}
	checkNonNegative(errs, "markupPercentage", m.MarkupPercentage, "Markup percentage")
	checkNonNegative(errs, "minMarkup", m.MinMarkup, "Minimum markup")
	checkNonNegative(errs, "maxMarkup", m.MaxMarkup, "Maximum markup")
	checkNonNegative(errs, "minBaseFare", m.MinBaseFare, "Minimum base fare")
	checkNonNegative(errs, "maxBaseFare", m.MaxBaseFare, "Maximum base fare")
	checkBounds(errs, "minMarkup", m.MinMarkup, m.MaxMarkup, "Markup")
	checkBounds(errs, "minBaseFare", m.MinBaseFare, m.MaxBaseFare, "Base fare")
	checkWindow(errs, m.StartDate, m.EndDate)
	return errs.Err()
}

// Calculate returns the markup for baseFare. Fares outside the base fare
// bounds get no markup; the result is clamped into the markup bounds.
func (m MarkupRule) Calculate(baseFare decimal.Decimal) decimal.Decimal {
	if m.MinBaseFare.Valid && baseFare.LessThan(m.MinBaseFare.Decimal) {
		return decimal.Zero
	}
	if m.MaxBaseFare.Valid && baseFare.GreaterThan(m.MaxBaseFare.Decimal) {
		return decimal.Zero
	}
	amount := baseFare.Mul(m.MarkupPercentage.Decimal).Div(hundred)
	if m.MinMarkup.Valid && amount.LessThan(m.MinMarkup.Decimal) {
		amount = m.MinMarkup.Decimal
	}
	if m.MaxMarkup.Valid && amount.GreaterThan(m.MaxMarkup.Decimal) {
		amount = m.MaxMarkup.Decimal
	}
	return amount.Round(2)
}
