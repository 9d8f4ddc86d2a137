package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/model"
)

func TestDestinationPersistedFlag(t *testing.T) {
	d, errs := Destination(url.Values{
		"destinationCode": {" MIA "},
		"destinationName": {"Miami"},
		"persisted":       {"true"},
	})
	assert.Empty(t, errs)
	assert.Equal(t, "MIA", d.Code)
	assert.False(t, d.IsNew())

	d, _ = Destination(url.Values{"destinationCode": {"NAS"}})
	assert.True(t, d.IsNew())
}

func TestShipBadLineID(t *testing.T) {
	_, errs := Ship(url.Values{"shipName": {"Wonder"}, "cruiseLineId": {"abc"}})
	assert.Contains(t, errs, "cruiseLineId")
}

func TestInventoryCabins(t *testing.T) {
	v := url.Values{
		"sailDate":        {"2026-03-01"},
		"nights":          {"7"},
		"pricingType":     {"Net"},
		"singleRate":      {"1200.50"},
		"cabinNo":         {"A1", "A2"},
		"cabinType":       {"GTY", "Manual"},
		"cabinStatus":     {"Available", "Occupied"},
		"cabinSingleRate": {"100", "oops"},
		"enableAgent":     {"on"},
	}
	inv, errs := Inventory(v)
	require.Len(t, inv.Cabins, 2)
	assert.Equal(t, 7, inv.Nights)
	assert.True(t, inv.EnableAgent)
	assert.False(t, inv.EnableAdmin)
	assert.Equal(t, "1200.5", inv.SingleRate.Decimal.String())
	assert.Equal(t, model.CabinManual, inv.Cabins[1].CabinType)
	assert.True(t, inv.Cabins[0].SingleRate.Valid)
	assert.False(t, inv.Cabins[1].SingleRate.Valid)
	assert.Contains(t, errs, "cabins.1.singleRate")
}

func TestInventoryNoCabins(t *testing.T) {
	inv, errs := Inventory(url.Values{"nights": {"x"}})
	assert.NotNil(t, inv.Cabins)
	assert.Empty(t, inv.Cabins)
	assert.Contains(t, errs, "nights")
}

func TestMarkupQuoteRequiresFare(t *testing.T) {
	_, errs := MarkupQuote(url.Values{"markupPercentage": {"10"}})
	assert.Contains(t, errs, "baseFare")

	q, errs := MarkupQuote(url.Values{"markupPercentage": {"10"}, "baseFare": {"250"}})
	assert.Empty(t, errs)
	assert.Equal(t, "250", q.BaseFare.String())
}

func TestPromotionOptionalInts(t *testing.T) {
	p, errs := Promotion(url.Values{
		"promotionName":   {"Spring"},
		"minPassengerAge": {"18"},
		"supplierId":      {""},
		"isActive":        {"on"},
	})
	assert.Empty(t, errs)
	require.NotNil(t, p.MinPassengerAge)
	assert.Equal(t, 18, *p.MinPassengerAge)
	assert.Nil(t, p.SupplierID)
	assert.Nil(t, p.MaxPassengerAge)
	assert.True(t, p.IsActive)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"", Action{Kind: ActionSave}},
		{"save", Action{Kind: ActionSave}},
		{"refresh", Action{Kind: ActionRefresh}},
		{"add-cabin", Action{Kind: ActionAddCabin}},
		{"remove-cabin-2", Action{Kind: ActionRemoveCabin, Index: 2}},
		{"remove-cabin-x", Action{Kind: ActionRefresh}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAction(tt.in), tt.in)
	}
}

func TestActionApply(t *testing.T) {
	inv := model.NewInventory()
	assert.True(t, ParseAction("add-cabin").Apply(&inv))
	assert.True(t, ParseAction("add-cabin").Apply(&inv))
	inv.Cabins[0].CabinNo = "first"
	inv.Cabins[1].CabinNo = "second"

	assert.True(t, ParseAction("remove-cabin-0").Apply(&inv))
	require.Len(t, inv.Cabins, 1)
	assert.Equal(t, "second", inv.Cabins[0].CabinNo)

	assert.True(t, ParseAction("remove-cabin-9").Apply(&inv))
	assert.Len(t, inv.Cabins, 1)

	assert.False(t, ParseAction("save").Apply(&inv))
}
