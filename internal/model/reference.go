package model

import "strconv"

// Destination is a cruise region. Its code is the identity and never changes once saved.
type Destination struct {
	Code string `json:"destinationCode"`
	Name string `json:"destinationName"`

	// Persisted marks a destination loaded from the backend. New destinations
	// are created, persisted ones are updated.
	Persisted bool `json:"-"`
}

// Key returns the destination code.
func (d Destination) Key() string { return d.Code }

// IsNew reports whether saving d creates a record.
func (d Destination) IsNew() bool { return !d.Persisted }

// Validate checks the destination form rules.
func (d Destination) Validate() error {
	errs := FieldErrors{}
	errs.Required("destinationCode", d.Code, "Destination code is required")
	errs.MaxLen("destinationCode", d.Code, 10, "Destination code")
	errs.Required("destinationName", d.Name, "Destination name is required")
	errs.MaxLen("destinationName", d.Name, 50, "Destination name")
	return errs.Err()
}

// DeparturePort is an embarkation port that belongs to one destination.
type DeparturePort struct {
	ID              int64  `json:"departurePortId"`
	Code            string `json:"departurePortCode"`
	Name            string `json:"departurePortName"`
	DestinationCode string `json:"destinationCode"`
}

// Key returns the port id.
func (p DeparturePort) Key() string { return strconv.FormatInt(p.ID, 10) }

// IsNew reports whether saving p creates a record.
func (p DeparturePort) IsNew() bool { return p.ID == 0 }

// Validate checks the departure port form rules.
func (p DeparturePort) Validate() error {
	errs := FieldErrors{}
	errs.Required("departurePortCode", p.Code, "Port code is required")
	errs.MaxLen("departurePortCode", p.Code, 10, "Port code")
	errs.Required("departurePortName", p.Name, "Port name is required")
	errs.MaxLen("departurePortName", p.Name, 50, "Port name")
	errs.Required("destinationCode", p.DestinationCode, "Destination is required")
	return errs.Err()
}

// CruiseLine is a cruise operator.
type CruiseLine struct {
	ID   int64  `json:"cruiseLineId"`
	Code string `json:"cruiseLineCode"`
	Name string `json:"cruiseLineName"`
}

// Key returns the line id.
func (l CruiseLine) Key() string { return strconv.FormatInt(l.ID, 10) }

// IsNew reports whether saving l creates a record.
func (l CruiseLine) IsNew() bool { return l.ID == 0 }

// Validate checks the cruise line form rules.
func (l CruiseLine) Validate() error {
	errs := FieldErrors{}
	errs.Required("cruiseLineCode", l.Code, "Line code is required")
	errs.MaxLen("cruiseLineCode", l.Code, 10, "Line code")
	errs.Required("cruiseLineName", l.Name, "Line name is required")
	errs.MaxLen("cruiseLineName", l.Name, 50, "Line name")
	return errs.Err()
}

// Ship is a vessel operated by one cruise line.
type Ship struct {
	ID           int64       `json:"cruiseShipId"`
	Code         string      `json:"shipCode"`
	Name         string      `json:"shipName"`
	CruiseLineID int64       `json:"cruiseLineId"`
	CruiseLine   *CruiseLine `json:"cruiseLine,omitempty"`
	HasImage     bool        `json:"hasImage"`
}

// Key returns the ship id.
func (s Ship) Key() string { return strconv.FormatInt(s.ID, 10) }

// IsNew reports whether saving s creates a record.
func (s Ship) IsNew() bool { return s.ID == 0 }

// LineName returns the operating line's name when the snapshot is present.
func (s Ship) LineName() string {
	if s.CruiseLine == nil {
		return ""
	}
	return s.CruiseLine.Name
}

// Validate checks the ship form rules.
func (s Ship) Validate() error {
	errs := FieldErrors{}
	errs.Required("shipName", s.Name, "Ship name is required")
	errs.MaxLen("shipName", s.Name, 50, "Ship name")
	errs.Required("shipCode", s.Code, "Ship code is required")
	errs.MaxLen("shipCode", s.Code, 20, "Ship code")
	if s.CruiseLineID == 0 {
		errs.Add("cruiseLineId", "Cruise line is required")
	}
	return errs.Err()
}
