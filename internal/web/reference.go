package web

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/forms"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/manager"
	"github.com/erazemk/cruisedesk/internal/model"
)

func destinationScreen(path string) *screen[model.Destination] {
	return &screen[model.Destination]{
		Path:     path,
		Title:    "Cruise Destinations",
		Noun:     "destination",
		Entity:   "destination",
		Template: "destinations.html",
		Source: func(c *gateway.Client) manager.Source[model.Destination] {
			return c.Destinations()
		},
		New:    func() model.Destination { return model.Destination{} },
		Decode: forms.Destination,
	}
}

type portLookups struct {
	Destinations []model.Destination
}

func portScreen(path string) *screen[model.DeparturePort] {
	return &screen[model.DeparturePort]{
		Path:     path,
		Title:    "Departure Ports",
		Noun:     "departure port",
		Entity:   "departure-port",
		Template: "ports.html",
		Source: func(c *gateway.Client) manager.Source[model.DeparturePort] {
			return c.Ports()
		},
		New:    func() model.DeparturePort { return model.DeparturePort{} },
		Decode: forms.DeparturePort,
		Lookups: func(ctx context.Context, s *Server, editor *model.DeparturePort, n feedback.Notifier) any {
			if editor == nil {
				return portLookups{}
			}
			dests, err := s.Client.PortDestinations(ctx)
			if err != nil {
				slog.Error("failed to load destinations", "error", err)
				feedback.Error(n, "Failed to fetch destinations: "+gateway.Message(err))
			}
			return portLookups{Destinations: dests}
		},
	}
}

func lineScreen(path string) *screen[model.CruiseLine] {
	return &screen[model.CruiseLine]{
		Path:     path,
		Title:    "Cruise Lines",
		Noun:     "cruise line",
		Entity:   "cruise-line",
		Template: "lines.html",
		Source: func(c *gateway.Client) manager.Source[model.CruiseLine] {
			return c.Lines()
		},
		New:    func() model.CruiseLine { return model.CruiseLine{} },
		Decode: forms.CruiseLine,
	}
}

type shipLookups struct {
	Lines []model.CruiseLine
}

func shipScreen(path string) *screen[model.Ship] {
	return &screen[model.Ship]{
		Path:     path,
		Title:    "Cruise Ships",
		Noun:     "ship",
		Entity:   "ship",
		Template: "ships.html",
		Source: func(c *gateway.Client) manager.Source[model.Ship] {
			return c.Ships()
		},
		New:    func() model.Ship { return model.Ship{} },
		Decode: forms.Ship,
		// The operating line travels with the ship as a snapshot.
		Prepare: func(ctx context.Context, s *Server, _ url.Values, ship *model.Ship) (bool, model.FieldErrors) {
			if ship.CruiseLineID == 0 {
				return false, nil
			}
			lines, err := s.Client.ShipCruiseLines(ctx)
			if err != nil {
				slog.Warn("failed to load cruise lines for ship snapshot", "error", err)
				return false, nil
			}
			for _, l := range lines {
				if l.ID == ship.CruiseLineID {
					ship.CruiseLine = &l
					return false, nil
				}
			}
			errs := model.FieldErrors{}
			errs.Add("cruiseLineId", "Cruise line no longer exists")
			return false, errs
		},
		Lookups: func(ctx context.Context, s *Server, editor *model.Ship, n feedback.Notifier) any {
			if editor == nil {
				return shipLookups{}
			}
			lines, err := s.Client.ShipCruiseLines(ctx)
			if err != nil {
				slog.Error("failed to load cruise lines", "error", err)
				feedback.Error(n, "Failed to fetch cruise lines: "+gateway.Message(err))
			}
			return shipLookups{Lines: lines}
		},
	}
}
