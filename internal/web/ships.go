package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/imaging"
)

// ShipPhotoSubmit handles POST <ships>/{id}/photo.
func (s *Server) ShipPhotoSubmit(shipsPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := &feedback.Collector{}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, imaging.ShipPhoto.MaxBytes+1<<20)
		if err := r.ParseMultipartForm(imaging.ShipPhoto.MaxBytes); err != nil {
			feedback.Error(c, "The photo could not be read. Photos may be at most 8 MB.")
			s.redirect(w, r, shipsPath, c)
			return
		}
		page, size := pageParams(r.PostForm)
		back := screenURL(shipsPath, max(page, 1), sizeOr(size, s.PageSizes[0]))

		file, header, err := r.FormFile("photo")
		if err != nil {
			feedback.Error(c, "Choose a photo to upload.")
			s.redirect(w, r, back, c)
			return
		}
		defer file.Close()

		if err := s.Client.UploadShipImage(r.Context(), id, header.Filename, file); err != nil {
			slog.Error("failed to upload ship photo", "ship", id, "error", err)
			feedback.Error(c, "Error uploading photo: "+gateway.Message(err))
			s.redirect(w, r, back, c)
			return
		}

		slog.Info("ship photo uploaded", "user", GetUser(r.Context()).Email, "ship", id)
		s.recordChange(r, audit.ActionUpdate, "ship-photo", strconv.FormatInt(id, 10))
		feedback.Success(c, "Photo uploaded successfully")
		s.redirect(w, r, back, c)
	}
}

// ShipPhoto handles GET <ships>/{id}/photo by proxying the backend image.
func (s *Server) ShipPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	d, err := s.Client.ShipImage(r.Context(), id)
	if err != nil {
		var ae *gateway.APIError
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to get ship photo", "ship", id, "error", err)
		http.Error(w, "photo unavailable", http.StatusBadGateway)
		return
	}
	defer d.Body.Close()

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := io.Copy(w, d.Body); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}
