package model

import "github.com/shopspring/decimal"

// Promotion is a discount or perk attached to sailings. Promotions are create-only.
type Promotion struct {
	ID                     int64               `json:"promotionId,omitempty"`
	PromotionTypeID        *int64              `json:"promotionTypeId"`
	Name                   string              `json:"promotionName"`
	Description            string              `json:"promotionDescription"`
	DiscountPer            decimal.NullDecimal `json:"discountPer"`
	DiscountAmount         decimal.NullDecimal `json:"discountAmount"`
	PromoCode              string              `json:"promoCode"`
	LoyaltyLevel           string              `json:"loyaltyLevel"`
	IsFirstTimeCustomer    bool                `json:"isFirstTimeCustomer"`
	MinNoOfAdultRequired   *int                `json:"minNoOfAdultRequired"`
	MinNoOfChildRequired   *int                `json:"minNoOfChildRequired"`
	IsAdultTicketDiscount  bool                `json:"isAdultTicketDiscount"`
	IsChildTicketDiscount  bool                `json:"isChildTicketDiscount"`
	MinPassengerAge        *int                `json:"minPassengerAge"`
	MaxPassengerAge        *int                `json:"maxPassengerAge"`
	PassengerType          string              `json:"passengerType"`
	CabinCountRequired     *int                `json:"cabinCountRequired"`
	SailingID              *int64              `json:"sailingId"`
	SupplierID             *int64              `json:"supplierId"`
	AffiliateName          string              `json:"affiliateName"`
	IncludesAirfare        bool                `json:"includesAirfare"`
	IncludesHotel          bool                `json:"includesHotel"`
	IncludesWiFi           bool                `json:"includesWiFi"`
	IncludesShoreExcursion bool                `json:"includesShoreExcursion"`
	OnboardCreditAmount    decimal.NullDecimal `json:"onboardCreditAmount"`
	FreeNthPassenger       *int                `json:"freeNthPassenger"`
	StartDate              string              `json:"startDate"`
	EndDate                string              `json:"endDate"`
	IsStackable            bool                `json:"isStackable"`
	IsActive               bool                `json:"isActive"`
}

// NewPromotion returns an empty promotion with the form defaults.
func NewPromotion() Promotion {
	return Promotion{IsActive: true}
}

// Validate checks the promotion form rules.
func (p Promotion) Validate() error {
	errs := FieldErrors{}
	if p.PromotionTypeID == nil {
		errs.Add("promotionTypeId", "Promotion type is required")
	}
	errs.Required("promotionName", p.Name, "Promotion name is required")
	errs.Required("promotionDescription", p.Description, "Description is required")
	checkWindow(errs, p.StartDate, p.EndDate)

	checkPercent(errs, "discountPer", p.DiscountPer, "Discount percentage")
	checkNonNegative(errs, "discountAmount", p.DiscountAmount, "Discount amount")
	checkNonNegative(errs, "onboardCreditAmount", p.OnboardCreditAmount, "Onboard credit")

	counts := []struct {
		field string
		v     *int
		label string
	}{
		{"minNoOfAdultRequired", p.MinNoOfAdultRequired, "Minimum adults"},
		{"minNoOfChildRequired", p.MinNoOfChildRequired, "Minimum children"},
		{"minPassengerAge", p.MinPassengerAge, "Minimum age"},
		{"maxPassengerAge", p.MaxPassengerAge, "Maximum age"},
		{"cabinCountRequired", p.CabinCountRequired, "Cabin count"},
		{"freeNthPassenger", p.FreeNthPassenger, "Free nth passenger"},
	}
	for _, c := range counts {
		if c.v != nil && *c.v < 0 {
			errs.Add(c.field, c.label+" cannot be negative")
		}
	}
	if p.MinPassengerAge != nil && p.MaxPassengerAge != nil && *p.MinPassengerAge > *p.MaxPassengerAge {
		errs.Add("minPassengerAge", "Minimum age cannot exceed the maximum age")
	}
	return errs.Err()
}
