package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

// MarkupHandler handles /api/Markup.
type MarkupHandler struct {
	DB *sql.DB
}

// Create handles POST /api/Markup.
func (h *MarkupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m model.MarkupRule
	if err := decodeJSON(r, &m); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m.StartDate = model.DateInput(m.StartDate)
	m.EndDate = model.DateInput(m.EndDate)
	if err := m.Validate(); err != nil {
		writeFailure(w, "creating markup", err)
		return
	}
	created, err := store.CreateMarkup(r.Context(), h.DB, m)
	if err != nil {
		writeFailure(w, "creating markup", err)
		return
	}
	slog.Info("markup created", "user", actor(r), "markup", created.ID)
	jsonResponse(w, http.StatusCreated, "Markup added", created)
}

// Calculate handles POST /api/Markup/calculate-markup.
func (h *MarkupHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var q model.MarkupQuote
	if err := decodeJSON(r, &q); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if q.BaseFare.IsNegative() {
		jsonError(w, http.StatusBadRequest, "baseFare cannot be negative")
		return
	}
	if !q.Rule.MarkupPercentage.Valid || q.Rule.MarkupPercentage.Decimal.IsNegative() {
		jsonError(w, http.StatusBadRequest, "markupPercentage required")
		return
	}
	jsonResponse(w, http.StatusOK, "Markup calculated", q.Rule.Calculate(q.BaseFare))
}

// PromotionsHandler handles /api/Promotions.
type PromotionsHandler struct {
	DB *sql.DB
}

// Create handles POST /api/Promotions.
func (h *PromotionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Promotion
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.StartDate = model.DateInput(p.StartDate)
	p.EndDate = model.DateInput(p.EndDate)
	if err := p.Validate(); err != nil {
		writeFailure(w, "creating promotion", err)
		return
	}
	created, err := store.CreatePromotion(r.Context(), h.DB, p)
	if err != nil {
		writeFailure(w, "creating promotion", err)
		return
	}
	slog.Info("promotion created", "user", actor(r), "promotion", created.ID)
	jsonResponse(w, http.StatusCreated, "Promotion added", created)
}
