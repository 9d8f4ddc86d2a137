package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// PricingType selects how sailing rates are interpreted.
type PricingType string

// Pricing types. The empty value means "not priced yet".
const (
	PricingNet            PricingType = "Net"
	PricingCommissionable PricingType = "Commissionable"
)

// CabinType tells how a cabin was allocated.
type CabinType string

// Cabin types.
const (
	CabinGTY    CabinType = "GTY"
	CabinManual CabinType = "Manual"
)

// Occupancy is the booking state of a cabin.
type Occupancy string

// Occupancy states.
const (
	OccupancyAvailable Occupancy = "Available"
	OccupancyOccupied  Occupancy = "Occupied"
)

// Cabin is one bookable cabin of a sailing.
type Cabin struct {
	CabinNo    string              `json:"cabinNo"`
	CabinType  CabinType           `json:"cabinType"`
	Occupancy  Occupancy           `json:"cabinOccupancy"`
	SingleRate decimal.NullDecimal `json:"singleRate"`
	DoubleRate decimal.NullDecimal `json:"doubleRate"`
	TripleRate decimal.NullDecimal `json:"tripleRate"`
	NCCF       decimal.NullDecimal `json:"nccf"`
	Tax        decimal.NullDecimal `json:"tax"`
	Grats      decimal.NullDecimal `json:"grats"`
}

// NewCabin returns an empty cabin row with the form defaults.
func NewCabin() Cabin {
	return Cabin{CabinType: CabinGTY, Occupancy: OccupancyAvailable}
}

// Inventory is a sailing offered for sale, with its cabins.
type Inventory struct {
	ID              int64       `json:"id"`
	SailDate        string      `json:"sailDate"`
	GroupID         string      `json:"groupId"`
	Nights          int         `json:"nights"`
	PackageName     string      `json:"packageName"`
	DestinationID   string      `json:"destinationId"`
	DeparturePortID int64       `json:"departurePortId"`
	CruiseLineID    int64       `json:"cruiseLineId"`
	ShipID          int64       `json:"shipId"`
	CategoryID      string      `json:"categoryId"`
	Stateroom       string      `json:"stateroom"`
	CabinOccupancy  string      `json:"cabinOccupancy"`
	PricingType     PricingType `json:"pricingType"`

	CommissionPercentage decimal.NullDecimal `json:"commissionPercentage"`
	SingleRate           decimal.NullDecimal `json:"singleRate"`
	DoubleRate           decimal.NullDecimal `json:"doubleRate"`
	TripleRate           decimal.NullDecimal `json:"tripleRate"`
	NCCF                 decimal.NullDecimal `json:"nccf"`
	Tax                  decimal.NullDecimal `json:"tax"`
	Grats                decimal.NullDecimal `json:"grats"`
	Currency             string              `json:"currency"`

	EnableAgent bool    `json:"enableAgent"`
	EnableAdmin bool    `json:"enableAdmin"`
	Cabins      []Cabin `json:"cabins"`

	// Display snapshot filled by the backend on reads.
	DestinationName   string `json:"destinationName,omitempty"`
	DeparturePortName string `json:"departurePortName,omitempty"`
	CruiseLineCode    string `json:"cruiseLineCode,omitempty"`
	ShipName          string `json:"shipName,omitempty"`
}

// NewInventory returns an empty sailing with the form defaults.
func NewInventory() Inventory {
	return Inventory{Currency: "USD", EnableAgent: true, EnableAdmin: true, Cabins: []Cabin{}}
}

// Key returns the sailing id.
func (inv Inventory) Key() string { return strconv.FormatInt(inv.ID, 10) }

// IsNew reports whether saving inv creates a record.
func (inv Inventory) IsNew() bool { return inv.ID == 0 }

// Validate checks the inventory form rules.
func (inv Inventory) Validate() error {
	errs := FieldErrors{}

	errs.Required("sailDate", inv.SailDate, "Sail date is required")
	if inv.SailDate != "" {
		if _, err := ParseDate(inv.SailDate); err != nil {
			errs.Add("sailDate", "Sail date is not a valid date")
		}
	}
	if inv.Nights < 0 {
		errs.Add("nights", "Nights cannot be negative")
	}

	if inv.DeparturePortID != 0 && inv.DestinationID == "" {
		errs.Add("departurePortId", "Choose a destination first")
	}
	if inv.ShipID != 0 && inv.CruiseLineID == 0 {
		errs.Add("shipId", "Choose a cruise line first")
	}

	switch inv.PricingType {
	case "":
	case PricingNet, PricingCommissionable:
		if !inv.SingleRate.Valid && !inv.DoubleRate.Valid && !inv.TripleRate.Valid {
			errs.Add("doubleRate", "At least one rate is required when a pricing type is chosen")
		}
	default:
		errs.Add("pricingType", "Unknown pricing type")
	}
	if inv.PricingType == PricingCommissionable {
		if !inv.CommissionPercentage.Valid {
			errs.Add("commissionPercentage", "Commission percentage is required for commissionable pricing")
		}
		checkPercent(errs, "commissionPercentage", inv.CommissionPercentage, "Commission percentage")
	}

	checkNonNegative(errs, "singleRate", inv.SingleRate, "Single rate")
	checkNonNegative(errs, "doubleRate", inv.DoubleRate, "Double rate")
	checkNonNegative(errs, "tripleRate", inv.TripleRate, "Triple rate")
	checkNonNegative(errs, "nccf", inv.NCCF, "NCCF")
	checkNonNegative(errs, "tax", inv.Tax, "Tax")
	checkNonNegative(errs, "grats", inv.Grats, "Grats")

	for i, c := range inv.Cabins {
		prefix := fmt.Sprintf("cabins.%d.", i)
		errs.Required(prefix+"cabinNo", c.CabinNo, "Cabin number is required")
		if c.CabinType != CabinGTY && c.CabinType != CabinManual {
			errs.Add(prefix+"cabinType", "Unknown cabin type")
		}
		if c.Occupancy != OccupancyAvailable && c.Occupancy != OccupancyOccupied {
			errs.Add(prefix+"cabinOccupancy", "Unknown occupancy")
		}
		checkNonNegative(errs, prefix+"singleRate", c.SingleRate, "Single rate")
		checkNonNegative(errs, prefix+"doubleRate", c.DoubleRate, "Double rate")
		checkNonNegative(errs, prefix+"tripleRate", c.TripleRate, "Triple rate")
		checkNonNegative(errs, prefix+"nccf", c.NCCF, "NCCF")
		checkNonNegative(errs, prefix+"tax", c.Tax, "Tax")
		checkNonNegative(errs, prefix+"grats", c.Grats, "Grats")
	}

	return errs.Err()
}
