package forms

import (
	"fmt"
	"net/url"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Credentials decodes the login form.
func Credentials(v url.Values) model.Credentials {
	return model.Credentials{UserName: Text(v, "userName"), Password: v.Get("password")}
}

// Registration decodes the sign-up form.
func Registration(v url.Values) model.Registration {
	return model.Registration{
		FullName:    Text(v, "fullName"),
		Email:       Text(v, "email"),
		PhoneNumber: Text(v, "phoneNumber"),
		Password:    v.Get("password"),
		Role:        model.Role(Text(v, "role")),
		CompanyName: Text(v, "companyName"),
		Country:     Text(v, "country"),
		State:       Text(v, "state"),
		City:        Text(v, "city"),
	}
}

// Destination decodes the destination editor.
func Destination(v url.Values) (model.Destination, model.FieldErrors) {
	return model.Destination{
		Code:      Text(v, "destinationCode"),
		Name:      Text(v, "destinationName"),
		Persisted: Bool(v, "persisted"),
	}, model.FieldErrors{}
}

// DeparturePort decodes the departure port editor.
func DeparturePort(v url.Values) (model.DeparturePort, model.FieldErrors) {
	errs := model.FieldErrors{}
	return model.DeparturePort{
		ID:              ID(errs, v, "departurePortId", "Port id"),
		Code:            Text(v, "departurePortCode"),
		Name:            Text(v, "departurePortName"),
		DestinationCode: Text(v, "destinationCode"),
	}, errs
}

// CruiseLine decodes the cruise line editor.
func CruiseLine(v url.Values) (model.CruiseLine, model.FieldErrors) {
	errs := model.FieldErrors{}
	return model.CruiseLine{
		ID:   ID(errs, v, "cruiseLineId", "Line id"),
		Code: Text(v, "cruiseLineCode"),
		Name: Text(v, "cruiseLineName"),
	}, errs
}

// Ship decodes the ship editor. The line snapshot is filled in by the caller.
func Ship(v url.Values) (model.Ship, model.FieldErrors) {
	errs := model.FieldErrors{}
	return model.Ship{
		ID:           ID(errs, v, "cruiseShipId", "Ship id"),
		Code:         Text(v, "shipCode"),
		Name:         Text(v, "shipName"),
		CruiseLineID: ID(errs, v, "cruiseLineId", "Cruise line"),
		HasImage:     Bool(v, "hasImage"),
	}, errs
}

// Inventory decodes the sailing editor including its cabin rows.
func Inventory(v url.Values) (model.Inventory, model.FieldErrors) {
	errs := model.FieldErrors{}
	inv := model.Inventory{
		ID:              ID(errs, v, "id", "Sailing id"),
		SailDate:        Text(v, "sailDate"),
		GroupID:         Text(v, "groupId"),
		PackageName:     Text(v, "packageName"),
		DestinationID:   Text(v, "destinationId"),
		DeparturePortID: ID(errs, v, "departurePortId", "Departure port"),
		CruiseLineID:    ID(errs, v, "cruiseLineId", "Cruise line"),
		ShipID:          ID(errs, v, "shipId", "Ship"),
		CategoryID:      Text(v, "categoryId"),
		Stateroom:       Text(v, "stateroom"),
		CabinOccupancy:  Text(v, "cabinOccupancy"),
		PricingType:     model.PricingType(Text(v, "pricingType")),

		CommissionPercentage: Decimal(errs, v, "commissionPercentage", "Commission percentage"),
		SingleRate:           Decimal(errs, v, "singleRate", "Single rate"),
		DoubleRate:           Decimal(errs, v, "doubleRate", "Double rate"),
		TripleRate:           Decimal(errs, v, "tripleRate", "Triple rate"),
		NCCF:                 Decimal(errs, v, "nccf", "NCCF"),
		Tax:                  Decimal(errs, v, "tax", "Tax"),
		Grats:                Decimal(errs, v, "grats", "Grats"),
		Currency:             Text(v, "currency"),

		EnableAgent: Bool(v, "enableAgent"),
		EnableAdmin: Bool(v, "enableAdmin"),
	}
	if n := Int(errs, v, "nights", "Nights"); n != nil {
		inv.Nights = *n
	}

	inv.Cabins = []model.Cabin{}
	for i := range v["cabinNo"] {
		prefix := fmt.Sprintf("cabins.%d.", i)
		rate := func(field string) string { return At(v, "cabin"+field, i) }
		inv.Cabins = append(inv.Cabins, model.Cabin{
			CabinNo:    At(v, "cabinNo", i),
			CabinType:  model.CabinType(At(v, "cabinType", i)),
			Occupancy:  model.Occupancy(At(v, "cabinStatus", i)),
			SingleRate: parseDecimal(errs, prefix+"singleRate", rate("SingleRate"), "Single rate"),
			DoubleRate: parseDecimal(errs, prefix+"doubleRate", rate("DoubleRate"), "Double rate"),
			TripleRate: parseDecimal(errs, prefix+"tripleRate", rate("TripleRate"), "Triple rate"),
			NCCF:       parseDecimal(errs, prefix+"nccf", rate("Nccf"), "NCCF"),
			Tax:        parseDecimal(errs, prefix+"tax", rate("Tax"), "Tax"),
			Grats:      parseDecimal(errs, prefix+"grats", rate("Grats"), "Grats"),
		})
	}
	return inv, errs
}

// MarkupRule decodes the markup form.
func MarkupRule(v url.Values) (model.MarkupRule, model.FieldErrors) {
	errs := model.FieldErrors{}
	return model.MarkupRule{
		MinMarkup:        Decimal(errs, v, "minMarkup", "Minimum markup"),
		MaxMarkup:        Decimal(errs, v, "maxMarkup", "Maximum markup"),
		MinBaseFare:      Decimal(errs, v, "minBaseFare", "Minimum base fare"),
		MaxBaseFare:      Decimal(errs, v, "maxBaseFare", "Maximum base fare"),
		MarkupPercentage: Decimal(errs, v, "markupPercentage", "Markup percentage"),
		SupplierID:       Int64(errs, v, "supplierId", "Supplier id"),
		SailingID:        Int64(errs, v, "sailingId", "Sailing id"),
		IsActive:         Bool(v, "isActive"),
		StartDate:        Text(v, "startDate"),
		EndDate:          Text(v, "endDate"),
	}, errs
}

// MarkupQuote decodes the calculator: the rule fields plus a base fare.
func MarkupQuote(v url.Values) (model.MarkupQuote, model.FieldErrors) {
	rule, errs := MarkupRule(v)
	fare := Decimal(errs, v, "baseFare", "Base fare")
	if !fare.Valid {
		errs.Add("baseFare", "Base fare is required")
	}
	return model.MarkupQuote{Rule: rule, BaseFare: fare.Decimal}, errs
}

// Promotion decodes the promotion form.
func Promotion(v url.Values) (model.Promotion, model.FieldErrors) {
	errs := model.FieldErrors{}
	return model.Promotion{
		PromotionTypeID:        Int64(errs, v, "promotionTypeId", "Promotion type"),
		Name:                   Text(v, "promotionName"),
		Description:            Text(v, "promotionDescription"),
		DiscountPer:            Decimal(errs, v, "discountPer", "Discount percentage"),
		DiscountAmount:         Decimal(errs, v, "discountAmount", "Discount amount"),
		PromoCode:              Text(v, "promoCode"),
		LoyaltyLevel:           Text(v, "loyaltyLevel"),
		IsFirstTimeCustomer:    Bool(v, "isFirstTimeCustomer"),
		MinNoOfAdultRequired:   Int(errs, v, "minNoOfAdultRequired", "Minimum adults"),
		MinNoOfChildRequired:   Int(errs, v, "minNoOfChildRequired", "Minimum children"),
		IsAdultTicketDiscount:  Bool(v, "isAdultTicketDiscount"),
		IsChildTicketDiscount:  Bool(v, "isChildTicketDiscount"),
		MinPassengerAge:        Int(errs, v, "minPassengerAge", "Minimum age"),
		MaxPassengerAge:        Int(errs, v, "maxPassengerAge", "Maximum age"),
		PassengerType:          Text(v, "passengerType"),
		CabinCountRequired:     Int(errs, v, "cabinCountRequired", "Cabin count"),
		SailingID:              Int64(errs, v, "sailingId", "Sailing id"),
		SupplierID:             Int64(errs, v, "supplierId", "Supplier id"),
		AffiliateName:          Text(v, "affiliateName"),
		IncludesAirfare:        Bool(v, "includesAirfare"),
		IncludesHotel:          Bool(v, "includesHotel"),
		IncludesWiFi:           Bool(v, "includesWiFi"),
		IncludesShoreExcursion: Bool(v, "includesShoreExcursion"),
		OnboardCreditAmount:    Decimal(errs, v, "onboardCreditAmount", "Onboard credit"),
		FreeNthPassenger:       Int(errs, v, "freeNthPassenger", "Free nth passenger"),
		StartDate:              Text(v, "startDate"),
		EndDate:                Text(v, "endDate"),
		IsStackable:            Bool(v, "isStackable"),
		IsActive:               Bool(v, "isActive"),
	}, errs
}
