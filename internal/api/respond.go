package api

import (
	"log/slog"
	"net/http"

	"hybrid-image-service/internal/models"

	"github.com/gin-gonic/gin/render"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	j := render.JSON{Data: data}
	j.WriteContentType(w)
	w.WriteHeader(status)
	if err := j.Render(w); err != nil {
		loggerFrom(r.Context(), slog.Default()).Error("failed to encode json response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, models.ErrorResponse{OK: false, Error: msg})
}

func writeData(w http.ResponseWriter, r *http.Request, status int, contentType string, data []byte) {
	d := render.Data{ContentType: contentType, Data: data}
	d.WriteContentType(w)
	w.WriteHeader(status)
	if err := d.Render(w); err != nil {
		loggerFrom(r.Context(), slog.Default()).Error("failed to write response body", "err", err)
	}
}
