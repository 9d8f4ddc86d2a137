package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

// InventoriesHandler handles /api/CruiseInventories.
type InventoriesHandler struct {
	DB *sql.DB
}

// List handles GET /api/CruiseInventories.
func (h *InventoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := store.ListInventories(r.Context(), h.DB, page, size)
	if err != nil {
		writeFailure(w, "listing inventories", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Inventories fetched", p)
}

// checkChain rejects a port outside the chosen destination or a ship outside
// the chosen line.
func (h *InventoriesHandler) checkChain(ctx context.Context, inv model.Inventory) error {
	errs := model.FieldErrors{}
	if inv.DeparturePortID != 0 {
		port, err := store.GetPort(ctx, h.DB, inv.DeparturePortID)
		if err != nil {
			return err
		}
		if port == nil || port.DestinationCode != inv.DestinationID {
			errs.Add("departurePortId", "Departure port does not belong to the destination")
		}
	}
	if inv.ShipID != 0 {
		ship, err := store.GetShip(ctx, h.DB, inv.ShipID)
		if err != nil {
			return err
		}
		if ship == nil || ship.CruiseLineID != inv.CruiseLineID {
			errs.Add("shipId", "Ship does not belong to the cruise line")
		}
	}
	return errs.Err()
}

func (h *InventoriesHandler) decode(w http.ResponseWriter, r *http.Request, op string) (model.Inventory, bool) {
	var inv model.Inventory
	if err := decodeJSON(r, &inv); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return inv, false
	}
	inv.SailDate = model.DateInput(inv.SailDate)
	if inv.Cabins == nil {
		inv.Cabins = []model.Cabin{}
	}
	if err := inv.Validate(); err != nil {
		writeFailure(w, op, err)
		return inv, false
	}
	if err := h.checkChain(r.Context(), inv); err != nil {
		writeFailure(w, op, err)
		return inv, false
	}
	return inv, true
}

// Create handles POST /api/CruiseInventories.
func (h *InventoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.decode(w, r, "creating inventory")
	if !ok {
		return
	}
	created, err := store.CreateInventory(r.Context(), h.DB, inv)
	if err != nil {
		writeFailure(w, "creating inventory", err)
		return
	}
	slog.Info("inventory created", "user", actor(r), "inventory", created.ID, "cabins", len(created.Cabins))
	jsonResponse(w, http.StatusCreated, "Inventory added", created)
}

// Update handles POST /api/CruiseInventories/update.
func (h *InventoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.decode(w, r, "updating inventory")
	if !ok {
		return
	}
	if inv.ID == 0 {
		jsonError(w, http.StatusBadRequest, "id required")
		return
	}
	if err := store.UpdateInventory(r.Context(), h.DB, inv); err != nil {
		writeFailure(w, "updating inventory", err)
		return
	}
	slog.Info("inventory updated", "user", actor(r), "inventory", inv.ID, "cabins", len(inv.Cabins))
	jsonResponse(w, http.StatusOK, "Inventory updated", inv)
}

// Delete handles DELETE /api/CruiseInventories/{id}.
func (h *InventoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}
	if err := store.DeleteInventory(r.Context(), h.DB, id); err != nil {
		writeFailure(w, "deleting inventory", err)
		return
	}
	slog.Info("inventory deleted", "user", actor(r), "inventory", id)
	jsonResponse(w, http.StatusOK, "Inventory deleted", nil)
}
