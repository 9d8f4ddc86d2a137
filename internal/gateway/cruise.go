package gateway

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Backend routes.
const (
	RouteAuth         = "/api/auth"
	RouteDestinations = "/api/CruiseDestinations"
	RoutePorts        = "/api/CruiseDeparturePorts"
	RouteLines        = "/api/CruiseLines"
	RouteShips        = "/api/CruiseShips"
	RouteInventories  = "/api/CruiseInventories"
	RouteMarkup       = "/api/Markup"
	RoutePromotions   = "/api/Promotions"
)

// Destinations are keyed by their code, so listed ones are marked persisted
// for the editor to tell an update from a create.
func (c *Client) Destinations() *Resource[model.Destination] {
	r := NewResource[model.Destination](c, RouteDestinations)
	r.loaded = func(d *model.Destination) { d.Persisted = true }
	return r
}

func (c *Client) Ports() *Resource[model.DeparturePort] {
	return NewResource[model.DeparturePort](c, RoutePorts)
}

func (c *Client) Lines() *Resource[model.CruiseLine] {
	return NewResource[model.CruiseLine](c, RouteLines)
}

func (c *Client) Ships() *Resource[model.Ship] {
	return NewResource[model.Ship](c, RouteShips)
}

func (c *Client) Inventories() *Resource[model.Inventory] {
	return NewResource[model.Inventory](c, RouteInventories)
}

// PortDestinations lists every destination for the departure port editor.
func (c *Client) PortDestinations(ctx context.Context) ([]model.Destination, error) {
	return list[model.Destination](ctx, c, RoutePorts+"/destination")
}

// ShipCruiseLines lists every cruise line for the ship editor.
func (c *Client) ShipCruiseLines(ctx context.Context) ([]model.CruiseLine, error) {
	return list[model.CruiseLine](ctx, c, RouteShips+"/CruiseLine")
}

// InventoryDestinations lists the destinations a sailing can be placed in.
func (c *Client) InventoryDestinations(ctx context.Context) ([]model.Destination, error) {
	return list[model.Destination](ctx, c, RouteInventories+"/destinations")
}

// InventoryCruiseLines lists the cruise lines a sailing can be operated by.
func (c *Client) InventoryCruiseLines(ctx context.Context) ([]model.CruiseLine, error) {
	return list[model.CruiseLine](ctx, c, RouteInventories+"/cruiselines")
}

// DeparturesByDestination lists the departure ports of one destination.
func (c *Client) DeparturesByDestination(ctx context.Context, destinationCode string) ([]model.DeparturePort, error) {
	return list[model.DeparturePort](ctx, c, RouteInventories+"/departures-by-destination/"+url.PathEscape(destinationCode))
}

// ShipsByCruiseLine lists the ships of one cruise line.
func (c *Client) ShipsByCruiseLine(ctx context.Context, cruiseLineID int64) ([]model.Ship, error) {
	return list[model.Ship](ctx, c, RouteInventories+"/ships-by-cruiseline/"+strconv.FormatInt(cruiseLineID, 10))
}

// CreateMarkup stores a new markup rule.
func (c *Client) CreateMarkup(ctx context.Context, rule model.MarkupRule) (model.MarkupRule, error) {
	env, err := c.Post(ctx, RouteMarkup, rule)
	if err != nil {
		return model.MarkupRule{}, fmt.Errorf("creating markup: %w", err)
	}
	return Decode[model.MarkupRule](env)
}

// CalculateMarkup asks the backend for the markup a rule yields on a base fare.
func (c *Client) CalculateMarkup(ctx context.Context, quote model.MarkupQuote) (decimal.Decimal, error) {
	env, err := c.Post(ctx, RouteMarkup+"/calculate-markup", quote)
	if err != nil {
		return decimal.Zero, fmt.Errorf("calculating markup: %w", err)
	}
	return Decode[decimal.Decimal](env)
}

// CreatePromotion stores a new promotion.
func (c *Client) CreatePromotion(ctx context.Context, p model.Promotion) (model.Promotion, error) {
	env, err := c.Post(ctx, RoutePromotions, p)
	if err != nil {
		return model.Promotion{}, fmt.Errorf("creating promotion: %w", err)
	}
	return Decode[model.Promotion](env)
}

// UploadShipImage sends a ship photo as the multipart field "image".
func (c *Client) UploadShipImage(ctx context.Context, shipID int64, filename string, content io.Reader) error {
	path := RouteShips + "/" + strconv.FormatInt(shipID, 10) + "/image"
	if _, err := c.PostForm(ctx, path, nil, FormFile{Field: "image", Filename: filename, Content: content}); err != nil {
		return fmt.Errorf("uploading ship image: %w", err)
	}
	return nil
}

// ShipImage downloads a ship photo.
func (c *Client) ShipImage(ctx context.Context, shipID int64) (*Download, error) {
	d, err := c.Download(ctx, RouteShips+"/"+strconv.FormatInt(shipID, 10)+"/image", nil)
	if err != nil {
		return nil, fmt.Errorf("downloading ship image: %w", err)
	}
	return d, nil
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items, err := GetResult[[]T](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	return items, nil
}
