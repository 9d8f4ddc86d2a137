package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/cruisedesk/internal/db"
	"github.com/erazemk/cruisedesk/internal/model"
)

func seedDestination(t *testing.T, database *sql.DB, code, name string) {
	t.Helper()
	if err := CreateDestination(context.Background(), database, model.Destination{Code: code, Name: name}); err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}
}

func TestDestinationLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seedDestination(t, database, "MIA", "Miami")

	if err := CreateDestination(ctx, database, model.Destination{Code: "MIA", Name: "Again"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate code, got %v", err)
	}

	if err := UpdateDestination(ctx, database, model.Destination{Code: "MIA", Name: "Miami Beach"}); err != nil {
		t.Fatalf("UpdateDestination: %v", err)
	}
	d, err := GetDestination(ctx, database, "MIA")
	if err != nil {
		t.Fatalf("GetDestination: %v", err)
	}
	if d.Name != "Miami Beach" || !d.Persisted {
		t.Errorf("unexpected destination %+v", d)
	}

	if err := UpdateDestination(ctx, database, model.Destination{Code: "NOPE", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := DeleteDestination(ctx, database, "MIA"); err != nil {
		t.Fatalf("DeleteDestination: %v", err)
	}
	if d, _ := GetDestination(ctx, database, "MIA"); d != nil {
		t.Error("expected destination to be gone")
	}
}

func TestListDestinationsPaging(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, code := range []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"} {
		seedDestination(t, database, code, "Name "+code)
	}

	page, err := ListDestinations(ctx, database, 2, 5)
	if err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if page.TotalCount != 6 || page.TotalPages != 2 || page.CurrentPage != 2 {
		t.Errorf("unexpected page meta %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].Code != "FFF" {
		t.Errorf("expected only FFF on page 2, got %+v", page.Items)
	}

	empty, err := ListDestinations(ctx, database, 9, 5)
	if err != nil {
		t.Fatalf("ListDestinations: %v", err)
	}
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", empty.Items)
	}
}

func TestReferencedDestinationCannotBeDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seedDestination(t, database, "MIA", "Miami")
	port, err := CreatePort(ctx, database, model.DeparturePort{Code: "PM", Name: "PortMiami", DestinationCode: "MIA"})
	if err != nil {
		t.Fatalf("CreatePort: %v", err)
	}

	if err := DeleteDestination(ctx, database, "MIA"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	ports, err := PortsByDestination(ctx, database, "MIA")
	if err != nil {
		t.Fatalf("PortsByDestination: %v", err)
	}
	if len(ports) != 1 || ports[0].ID != port.ID {
		t.Errorf("unexpected ports %+v", ports)
	}
}

func TestPortUnknownDestinationConflicts(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreatePort(context.Background(), database, model.DeparturePort{Code: "X", Name: "X", DestinationCode: "NOPE"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestShipsCarryTheirLine(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	line, err := CreateLine(ctx, database, model.CruiseLine{Code: "RCL", Name: "Royal Caribbean"})
	if err != nil {
		t.Fatalf("CreateLine: %v", err)
	}
	ship, err := CreateShip(ctx, database, model.Ship{Code: "WOS", Name: "Wonder of the Seas", CruiseLineID: line.ID})
	if err != nil {
		t.Fatalf("CreateShip: %v", err)
	}
	if ship.LineName() != "Royal Caribbean" {
		t.Errorf("expected line snapshot, got %+v", ship.CruiseLine)
	}
	if ship.HasImage {
		t.Error("new ship should have no image")
	}

	if err := SetShipImage(ctx, database, ship.ID, []byte{0xff, 0xd8}, "image/jpeg"); err != nil {
		t.Fatalf("SetShipImage: %v", err)
	}
	data, mime, err := GetShipImage(ctx, database, ship.ID)
	if err != nil {
		t.Fatalf("GetShipImage: %v", err)
	}
	if len(data) != 2 || mime != "image/jpeg" {
		t.Errorf("unexpected image %v %q", data, mime)
	}

	byLine, err := ShipsByLine(ctx, database, line.ID)
	if err != nil {
		t.Fatalf("ShipsByLine: %v", err)
	}
	if len(byLine) != 1 || !byLine[0].HasImage {
		t.Errorf("unexpected ships %+v", byLine)
	}

	if err := DeleteLine(ctx, database, line.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict deleting a line with ships, got %v", err)
	}
	if err := DeleteShip(ctx, database, ship.ID); err != nil {
		t.Fatalf("DeleteShip: %v", err)
	}
	if err := DeleteLine(ctx, database, line.ID); err != nil {
		t.Fatalf("DeleteLine: %v", err)
	}
}

func TestPagingClamps(t *testing.T) {
	page, size, offset := paging(0, 0)
	if page != 1 || size != 10 || offset != 0 {
		t.Errorf("paging(0, 0) = %d, %d, %d", page, size, offset)
	}
	page, size, offset = paging(3, 1000)
	if page != 3 || size != MaxPageSize || offset != 2*MaxPageSize {
		t.Errorf("paging(3, 1000) = %d, %d, %d", page, size, offset)
	}
}
