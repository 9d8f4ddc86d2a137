package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
)

// envelope is the uniform body of every JSON answer.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// jsonResponse writes an envelope whose status matches the HTTP status.
func jsonResponse(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data}); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// jsonError writes a failure envelope without data.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, message, nil)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeFailure maps a store or validation error onto an envelope.
// Unexpected errors are logged and answered with a generic message.
func writeFailure(w http.ResponseWriter, op string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrConflict):
		jsonError(w, http.StatusConflict, op+" conflicts with existing records")
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, op+": record not found")
	default:
		slog.Error(op+" failed", "error", err)
		jsonError(w, http.StatusInternalServerError, op+" failed")
	}
}

// pageParams reads page and pageSize from the query string.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	return page, size
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
