package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/imaging"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

// ShipsHandler handles /api/CruiseShips.
type ShipsHandler struct {
	DB *sql.DB
}

// List handles GET /api/CruiseShips.
func (h *ShipsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := store.ListShips(r.Context(), h.DB, page, size)
	if err != nil {
		writeFailure(w, "listing ships", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Ships fetched", p)
}

// ByLine handles GET /api/CruiseInventories/ships-by-cruiseline/{id}.
func (h *ShipsHandler) ByLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid cruise line id")
		return
	}
	items, err := store.ShipsByLine(r.Context(), h.DB, id)
	if err != nil {
		writeFailure(w, "listing ships", err)
		return
	}
	jsonResponse(w, http.StatusOK, "Ships fetched", items)
}

// Create handles POST /api/CruiseShips.
func (h *ShipsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var s model.Ship
	if err := decodeJSON(r, &s); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Validate(); err != nil {
		writeFailure(w, "creating ship", err)
		return
	}
	created, err := store.CreateShip(r.Context(), h.DB, s)
	if err != nil {
		writeFailure(w, "creating ship", err)
		return
	}
	slog.Info("ship created", "user", actor(r), "ship", created.ID)
	jsonResponse(w, http.StatusCreated, "Ship added", created)
}

// Update handles POST /api/CruiseShips/update.
func (h *ShipsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var s model.Ship
	if err := decodeJSON(r, &s); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.ID == 0 {
		jsonError(w, http.StatusBadRequest, "cruiseShipId required")
		return
	}
	if err := s.Validate(); err != nil {
		writeFailure(w, "updating ship", err)
		return
	}
	if err := store.UpdateShip(r.Context(), h.DB, s); err != nil {
		writeFailure(w, "updating ship", err)
		return
	}
	slog.Info("ship updated", "user", actor(r), "ship", s.ID)
	jsonResponse(w, http.StatusOK, "Ship updated", s)
}

// Delete handles DELETE /api/CruiseShips/{id}.
func (h *ShipsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ship id")
		return
	}
	if err := store.DeleteShip(r.Context(), h.DB, id); err != nil {
		writeFailure(w, "deleting ship", err)
		return
	}
	slog.Info("ship deleted", "user", actor(r), "ship", id)
	jsonResponse(w, http.StatusOK, "Ship deleted", nil)
}

// UploadImage handles POST /api/CruiseShips/{id}/image (multipart field "image").
func (h *ShipsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ship id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.ShipPhoto.MaxBytes+1<<20)
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ShipPhoto.Process(file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "Image is too large")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, "Only JPEG and PNG images are accepted")
		return
	}

	if err := store.SetShipImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		writeFailure(w, "storing ship image", err)
		return
	}
	slog.Info("ship image uploaded", "user", actor(r), "ship", id, "bytes", len(photo.Data))
	jsonResponse(w, http.StatusOK, "Image uploaded", nil)
}

// GetImage handles GET /api/CruiseShips/{id}/image.
func (h *ShipsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid ship id")
		return
	}
	data, mime, err := store.GetShipImage(r.Context(), h.DB, id)
	if err != nil {
		writeFailure(w, "loading ship image", err)
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "Ship has no image")
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}
