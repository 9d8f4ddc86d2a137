package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

// actor names the signed-in user in log lines.
func actor(r *http.Request) string {
	if c := GetClaims(r.Context()); c != nil {
		return c.Email
	}
	return ""
}

// DestinationsHandler handles /api/CruiseDestinations.
type DestinationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/CruiseDestinations.
func (h *DestinationsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := store.ListDestinations(r.Context(), h.DB, page, size)
	if err != nil {
		writeFailure(w, "listing destinations", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Destinations fetched", p)
}

// All handles GET /api/CruiseDeparturePorts/destination and GET /api/CruiseInventories/destinations.
func (h *DestinationsHandler) All(w http.ResponseWriter, r *http.Request) {
	items, err := store.AllDestinations(r.Context(), h.DB)
	if err != nil {
		writeFailure(w, "listing destinations", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Destinations fetched", items)
}

// Create handles POST /api/CruiseDestinations.
func (h *DestinationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.Destination
	if err := decodeJSON(r, &d); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := d.Validate(); err != nil {
		writeFailure(w, "creating destination", err)
		return
	}
	if err := store.CreateDestination(r.Context(), h.DB, d); err != nil {
		writeFailure(w, "creating destination", err)
		return
	}
	slog.Info("destination created", "user", actor(r), "code", d.Code)
	jsonResponse(w, http.StatusCreated, "Destination added", d)
}

// Update handles POST /api/CruiseDestinations/update.
func (h *DestinationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var d model.Destination
	if err := decodeJSON(r, &d); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := d.Validate(); err != nil {
		writeFailure(w, "updating destination", err)
		return
	}
	if err := store.UpdateDestination(r.Context(), h.DB, d); err != nil {
		writeFailure(w, "updating destination", err)
		return
	}
	slog.Info("destination updated", "user", actor(r), "code", d.Code)
	jsonResponse(w, http.StatusOK, "Destination updated", d)
}

// Delete handles DELETE /api/CruiseDestinations/{code}.
func (h *DestinationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := store.DeleteDestination(r.Context(), h.DB, code); err != nil {
		writeFailure(w, "deleting destination", err)
		return
	}
	slog.Info("destination deleted", "user", actor(r), "code", code)
	jsonResponse(w, http.StatusOK, "Destination deleted", nil)
}

// PortsHandler handles /api/CruiseDeparturePorts.
type PortsHandler struct {
	DB *sql.DB
}

// List handles GET /api/CruiseDeparturePorts.
func (h *PortsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := store.ListPorts(r.Context(), h.DB, page, size)
	if err != nil {
		writeFailure(w, "listing departure ports", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Departure ports fetched", p)
}

// ByDestination handles GET /api/CruiseInventories/departures-by-destination/{code}.
func (h *PortsHandler) ByDestination(w http.ResponseWriter, r *http.Request) {
	items, err := store.PortsByDestination(r.Context(), h.DB, r.PathValue("code"))
	if err != nil {
		writeFailure(w, "listing departure ports", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Departure ports fetched", items)
}

// Create handles POST /api/CruiseDeparturePorts.
func (h *PortsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.DeparturePort
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Validate(); err != nil {
		writeFailure(w, "creating departure port", err)
		return
	}
	created, err := store.CreatePort(r.Context(), h.DB, p)
	if err != nil {
		writeFailure(w, "creating departure port", err)
		return
	}
	slog.Info("departure port created", "user", actor(r), "port", created.ID)
	jsonResponse(w, http.StatusCreated, "Departure port added", created)
}

// Update handles POST /api/CruiseDeparturePorts/update.
func (h *PortsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p model.DeparturePort
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == 0 {
		jsonError(w, http.StatusBadRequest, "departurePortId required")
		return
	}
	if err := p.Validate(); err != nil {
		writeFailure(w, "updating departure port", err)
		return
	}
	if err := store.UpdatePort(r.Context(), h.DB, p); err != nil {
		writeFailure(w, "updating departure port", err)
		return
	}
	slog.Info("departure port updated", "user", actor(r), "port", p.ID)
	jsonResponse(w, http.StatusOK, "Departure port updated", p)
}

// Delete handles DELETE /api/CruiseDeparturePorts/{id}.
func (h *PortsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid departure port id")
		return
	}
	if err := store.DeletePort(r.Context(), h.DB, id); err != nil {
		writeFailure(w, "deleting departure port", err)
		return
	}
	slog.Info("departure port deleted", "user", actor(r), "port", id)
	jsonResponse(w, http.StatusOK, "Departure port deleted", nil)
}

// LinesHandler handles /api/CruiseLines.
type LinesHandler struct {
	DB *sql.DB
}

// List handles GET /api/CruiseLines.
func (h *LinesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := store.ListLines(r.Context(), h.DB, page, size)
	if err != nil {
		writeFailure(w, "listing cruise lines", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Cruise lines fetched", p)
}

// All handles GET /api/CruiseShips/CruiseLine and GET /api/CruiseInventories/cruiselines.
func (h *LinesHandler) All(w http.ResponseWriter, r *http.Request) {
	items, err := store.AllLines(r.Context(), h.DB)
	if err != nil {
		writeFailure(w, "listing cruise lines", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Cruise lines fetched", items)
}

// Create handles POST /api/CruiseLines.
func (h *LinesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var l model.CruiseLine
	if err := decodeJSON(r, &l); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := l.Validate(); err != nil {
		writeFailure(w, "creating cruise line", err)
		return
	}
	created, err := store.CreateLine(r.Context(), h.DB, l)
	if err != nil {
		writeFailure(w, "creating cruise line", err)
		return
	}
	slog.Info("cruise line created", "user", actor(r), "line", created.ID)
	jsonResponse(w, http.StatusCreated, "Cruise line added", created)
}

// Update handles POST /api/CruiseLines/update.
func (h *LinesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var l model.CruiseLine
	if err := decodeJSON(r, &l); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if l.ID == 0 {
		jsonError(w, http.StatusBadRequest, "cruiseLineId required")
		return
	}
	if err := l.Validate(); err != nil {
		writeFailure(w, "updating cruise line", err)
		return
	}
	if err := store.UpdateLine(r.Context(), h.DB, l); err != nil {
		writeFailure(w, "updating cruise line", err)
		return
	}
	slog.Info("cruise line updated", "user", actor(r), "line", l.ID)
	jsonResponse(w, http.StatusOK, "Cruise line updated", l)
}

// Delete handles DELETE /api/CruiseLines/{id}.
func (h *LinesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid cruise line id")
		return
	}
	if err := store.DeleteLine(r.Context(), h.DB, id); err != nil {
		writeFailure(w, "deleting cruise line", err)
		return
	}
	slog.Info("cruise line deleted", "user", actor(r), "line", id)
	jsonResponse(w, http.StatusOK, "Cruise line deleted", nil)
}
