package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/cascade"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/forms"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/manager"
	"github.com/erazemk/cruisedesk/internal/model"
)

type inventoryLookups struct {
	Destinations []model.Destination
	Lines        []model.CruiseLine
	Ports        *cascade.Chain
	Ships        *cascade.Chain
}

func inventoryScreen(path string) *screen[model.Inventory] {
	return &screen[model.Inventory]{
		Path:     path,
		Title:    "Cruise Inventory",
		Noun:     "sailing",
		Entity:   "inventory",
		Template: "inventory.html",
		Source: func(c *gateway.Client) manager.Source[model.Inventory] {
			return c.Inventories()
		},
		New:     model.NewInventory,
		Decode:  forms.Inventory,
		Prepare: prepareInventory,
		Lookups: inventoryEditorLookups,
	}
}

// portChain is the destination to departure port chain.
func (s *Server) portChain() *cascade.Chain {
	return cascade.NewChain(func(ctx context.Context, destination string) ([]cascade.Option, error) {
		ports, err := s.Client.DeparturesByDestination(ctx, destination)
		if err != nil {
			return nil, err
		}
		opts := make([]cascade.Option, 0, len(ports))
		for _, p := range ports {
			opts = append(opts, cascade.Option{
				Value: strconv.FormatInt(p.ID, 10),
				Label: fmt.Sprintf("%s (%s)", p.Name, p.Code),
			})
		}
		return opts, nil
	})
}

// shipChain is the cruise line to ship chain.
func (s *Server) shipChain() *cascade.Chain {
	return cascade.NewChain(func(ctx context.Context, line string) ([]cascade.Option, error) {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cruise line id %q", line)
		}
		ships, err := s.Client.ShipsByCruiseLine(ctx, id)
		if err != nil {
			return nil, err
		}
		opts := make([]cascade.Option, 0, len(ships))
		for _, sh := range ships {
			opts = append(opts, cascade.Option{Value: strconv.FormatInt(sh.ID, 10), Label: sh.Name})
		}
		return opts, nil
	})
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// prepareInventory applies the cabin buttons and checks both dependent
// selects against their parents. On a redisplay a dependent value the new
// parent does not offer is reset; on a save it is an error.
func prepareInventory(ctx context.Context, s *Server, v url.Values, inv *model.Inventory) (bool, model.FieldErrors) {
	redisplay := forms.ParseAction(v.Get("action")).Apply(inv)
	errs := model.FieldErrors{}
	reconcile(ctx, s.portChain(), inv.DestinationID, &inv.DeparturePortID, "departurePortId", "Departure port", "destination", redisplay, errs)
	reconcile(ctx, s.shipChain(), idString(inv.CruiseLineID), &inv.ShipID, "shipId", "Ship", "cruise line", redisplay, errs)
	return redisplay, errs
}

func reconcile(ctx context.Context, chain *cascade.Chain, parent string, child *int64, field, label, parentLabel string, redisplay bool, errs model.FieldErrors) {
	if err := chain.SetParent(ctx, parent); err != nil {
		slog.Error("failed to load dependent options", "field", field, "parent", parent, "error", err)
		errs.Add(field, "Could not load the options for the chosen "+parentLabel)
		return
	}
	if *child == 0 {
		return
	}
	err := chain.SetChild(strconv.FormatInt(*child, 10))
	switch {
	case err == nil:
	case redisplay:
		*child = 0
	case errors.Is(err, cascade.ErrParentRequired):
		errs.Add(field, "Choose a "+parentLabel+" first")
	default:
		errs.Add(field, label+" is not available for the chosen "+parentLabel)
	}
}

func inventoryEditorLookups(ctx context.Context, s *Server, inv *model.Inventory, n feedback.Notifier) any {
	if inv == nil {
		return inventoryLookups{}
	}
	var l inventoryLookups
	var err error

	if l.Destinations, err = s.Client.InventoryDestinations(ctx); err != nil {
		slog.Error("failed to load destinations", "error", err)
		feedback.Error(n, "Failed to fetch destinations: "+gateway.Message(err))
	}
	if l.Lines, err = s.Client.InventoryCruiseLines(ctx); err != nil {
		slog.Error("failed to load cruise lines", "error", err)
		feedback.Error(n, "Failed to fetch cruise lines: "+gateway.Message(err))
	}

	// The saved parents preselect the selects; their dependent lists load from them.
	l.Ports = s.portChain()
	if err := l.Ports.Hydrate(ctx, inv.DestinationID, idString(inv.DeparturePortID)); err != nil {
		slog.Error("failed to load departure ports", "destination", inv.DestinationID, "error", err)
		feedback.Error(n, "Failed to fetch departure ports: "+gateway.Message(err))
	}
	l.Ships = s.shipChain()
	if err := l.Ships.Hydrate(ctx, idString(inv.CruiseLineID), idString(inv.ShipID)); err != nil {
		slog.Error("failed to load ships", "cruise_line", inv.CruiseLineID, "error", err)
		feedback.Error(n, "Failed to fetch ships: "+gateway.Message(err))
	}
	return l
}

type optionsFragment struct {
	Placeholder string
	Options     []cascade.Option
	Selected    string
}

// dependentOptions handles the option fragments the inventory editor fetches
// when a parent select changes.
func dependentOptions(chain func() *cascade.Chain, s *Server, param, name, placeholder string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		c := chain()
		if err := c.Hydrate(r.Context(), q.Get(param), q.Get("selected")); err != nil {
			slog.Error("failed to load dependent options", "select", name, "parent", q.Get(param), "error", err)
			http.Error(w, gateway.Message(err), http.StatusBadGateway)
			return
		}
		s.Templates.RenderFragment(w, "options", optionsFragment{
			Placeholder: placeholder,
			Options:     c.Options(),
			Selected:    c.Child(),
		})
	}
}
