package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	if err == nil {
		return nil
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return verr.Fields
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestDestinationValidate(t *testing.T) {
	if err := (Destination{Code: "MIA", Name: "Miami"}).Validate(); err != nil {
		t.Fatalf("valid destination rejected: %v", err)
	}

	errs := fieldErrors(t, Destination{Code: strings.Repeat("X", 11), Name: ""}.Validate())
	if errs["destinationCode"] == "" {
		t.Error("expected code length error")
	}
	if errs["destinationName"] == "" {
		t.Error("expected name required error")
	}
}

func TestShipValidateRequiresLine(t *testing.T) {
	errs := fieldErrors(t, Ship{Code: "OAS", Name: "Oasis"}.Validate())
	if errs["cruiseLineId"] == "" {
		t.Errorf("expected cruise line error, got %v", errs)
	}
	if err := (Ship{Code: "OAS", Name: "Oasis", CruiseLineID: 1}).Validate(); err != nil {
		t.Errorf("valid ship rejected: %v", err)
	}
}

func TestPortValidate(t *testing.T) {
	errs := fieldErrors(t, DeparturePort{Code: "MIA", Name: "Miami"}.Validate())
	if errs["destinationCode"] == "" {
		t.Errorf("expected destination error, got %v", errs)
	}
}

func TestInventoryValidateOptionalChains(t *testing.T) {
	tests := []struct {
		name string
		inv  Inventory
	}{
		{"sail date only", Inventory{SailDate: "2026-11-01"}},
		{"destination without line", Inventory{SailDate: "2026-11-01", DestinationID: "CAR", DeparturePortID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.inv.Validate(); err != nil {
				t.Errorf("valid sailing rejected: %v", err)
			}
		})
	}

	errs := fieldErrors(t, Inventory{SailDate: "2026-11-01", DeparturePortID: 1, ShipID: 2}.Validate())
	if errs["departurePortId"] == "" {
		t.Errorf("expected port before destination error, got %v", errs)
	}
	if errs["shipId"] == "" {
		t.Errorf("expected ship before line error, got %v", errs)
	}
}

func TestMarkupValidate(t *testing.T) {
	tests := []struct {
		name  string
		rule  MarkupRule
		field string
	}{
		{"missing percentage", MarkupRule{StartDate: "2025-01-01", EndDate: "2025-02-01"}, "markupPercentage"},
		{"negative percentage", MarkupRule{MarkupPercentage: dec("-1"), StartDate: "2025-01-01", EndDate: "2025-02-01"}, "markupPercentage"},
		{"end before start", MarkupRule{MarkupPercentage: dec("5"), StartDate: "2025-02-01", EndDate: "2025-01-01"}, "endDate"},
		{"missing start", MarkupRule{MarkupPercentage: dec("5"), EndDate: "2025-01-01"}, "startDate"},
		{"inverted bounds", MarkupRule{MarkupPercentage: dec("5"), MinMarkup: dec("50"), MaxMarkup: dec("10"), StartDate: "2025-01-01", EndDate: "2025-01-01"}, "minMarkup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := fieldErrors(t, tt.rule.Validate())
			if errs[tt.field] == "" {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}

	same := MarkupRule{MarkupPercentage: dec("0"), StartDate: "2025-01-01", EndDate: "2025-01-01"}
	if err := same.Validate(); err != nil {
		t.Errorf("same-day window rejected: %v", err)
	}
}

func TestMarkupCalculate(t *testing.T) {
	rule := MarkupRule{
		MarkupPercentage: dec("10"),
		MinMarkup:        dec("20"),
		MaxMarkup:        dec("150"),
		MinBaseFare:      dec("100"),
		MaxBaseFare:      dec("5000"),
	}
	tests := []struct {
		fare string
		want string
	}{
		{"50", "0"},     // below the fare bounds
		{"100", "20"},   // 10 clamped up to the minimum
		{"1000", "100"}, // plain percentage
		{"2000", "150"}, // 200 clamped down to the maximum
		{"6000", "0"},   // above the fare bounds
	}
	for _, tt := range tests {
		got := rule.Calculate(decimal.RequireFromString(tt.fare))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Calculate(%s) = %s, want %s", tt.fare, got, tt.want)
		}
	}
}

func TestPromotionValidate(t *testing.T) {
	typeID := int64(1)
	minAge, maxAge := 30, 18
	p := Promotion{
		PromotionTypeID: &typeID,
		Name:            "Early bird",
		Description:     "Book early",
		StartDate:       "2025-03-01",
		EndDate:         "2025-02-01",
		DiscountPer:     dec("120"),
		MinPassengerAge: &minAge,
		MaxPassengerAge: &maxAge,
	}
	errs := fieldErrors(t, p.Validate())
	for _, field := range []string{"endDate", "discountPer", "minPassengerAge"} {
		if errs[field] == "" {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}

	errs = fieldErrors(t, NewPromotion().Validate())
	for _, field := range []string{"promotionTypeId", "promotionName", "promotionDescription", "startDate", "endDate"} {
		if errs[field] == "" {
			t.Errorf("expected required error on %s", field)
		}
	}
}

func TestInventoryValidate(t *testing.T) {
	inv := NewInventory()
	inv.SailDate = "2025-06-01"
	inv.DestinationID = "MIA"
	inv.CruiseLineID = 1
	if err := inv.Validate(); err != nil {
		t.Fatalf("valid inventory rejected: %v", err)
	}

	inv.PricingType = PricingCommissionable
	inv.DoubleRate = dec("999.50")
	errs := fieldErrors(t, inv.Validate())
	if errs["commissionPercentage"] == "" {
		t.Errorf("expected commission error, got %v", errs)
	}

	orphan := NewInventory()
	orphan.SailDate = "2025-06-01"
	orphan.DeparturePortID = 4
	orphan.ShipID = 9
	errs = fieldErrors(t, orphan.Validate())
	if errs["departurePortId"] == "" || errs["shipId"] == "" {
		t.Errorf("dependent values without parents must be invalid, got %v", errs)
	}

	withCabin := NewInventory()
	withCabin.SailDate = "2025-06-01"
	withCabin.DestinationID = "MIA"
	withCabin.CruiseLineID = 1
	withCabin.Cabins = []Cabin{NewCabin()}
	errs = fieldErrors(t, withCabin.Validate())
	if errs["cabins.0.cabinNo"] == "" {
		t.Errorf("expected cabin number error, got %v", errs)
	}
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(Cabin{CabinNo: "A1", SingleRate: dec("1299.99")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"singleRate":1299.99`) {
		t.Errorf("expected a JSON number, got %s", data)
	}
	if !strings.Contains(string(data), `"doubleRate":null`) {
		t.Errorf("expected null for an unset rate, got %s", data)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 1, 5, 11)
	if p.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", p.TotalPages)
	}
	empty := NewPage[int](nil, 1, 5, 0)
	if empty.Items == nil || empty.TotalPages != 0 {
		t.Errorf("unexpected empty page %+v", empty)
	}
}
