package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strings"

	"hybrid-image-service/internal/auth"
	"hybrid-image-service/internal/config"
	"hybrid-image-service/internal/models"
	"hybrid-image-service/internal/service"

	"github.com/gin-gonic/gin/binding"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 10 << 20

// Merger produces an encoded hybrid image from a blend request.
type Merger interface {
	Merge(ctx context.Context, req service.BlendRequest) ([]byte, error)
}

// Handlers serves the HTTP API.
type Handlers struct {
	merger         Merger
	auth           *auth.Authenticator
	logger         *slog.Logger
	origins        []string
	maxUploadBytes int64
}

// NewHandlers wires the HTTP API to its collaborators.
func NewHandlers(cfg *config.Config, merger Merger, authn *auth.Authenticator, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		merger:         merger,
		auth:           authn,
		logger:         logger,
		origins:        cfg.AllowedOrigins,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Auth exchanges the shared password for a bearer token.
func (h *Handlers) Auth(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := binding.JSON.Bind(r, &req); err != nil || req.Password == nil {
		writeError(w, r, http.StatusBadRequest, "password required")
		return
	}

	password, ok := req.Password.(string)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid password")
		return
	}
	token, _, err := h.auth.Issue(password)
	if err != nil {
		if errors.Is(err, models.ErrAuth) {
			writeError(w, r, http.StatusUnauthorized, "invalid password")
			return
		}
		loggerFrom(r.Context(), h.logger).Error("failed to issue token", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, r, http.StatusOK, models.AuthResponse{
		OK:        true,
		Token:     token,
		ExpiresIn: int64(h.auth.TTL().Seconds()),
	})
}

// Merge blends the low band of imageA with the high band of imageB and
// returns the result inline as JPEG.
func (h *Handlers) Merge(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)
	// r is a copy made by the router and middleware, so net/http will not
	// clean up the parsed form for us.
	defer func() {
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				logger.Warn("failed to remove multipart temp files", "err", err)
			}
		}
	}()

	req, err := parseMergeForm(r)
	if err != nil {
		h.writeMergeError(w, r, err)
		return
	}
	logger.Debug("merge request",
		"a_bytes", len(req.A), "b_bytes", len(req.B),
		"alpha_low", req.AlphaLow, "alpha_high", req.AlphaHigh)

	out, err := h.merger.Merge(r.Context(), req)
	if err != nil {
		h.writeMergeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, "image/jpeg", out)
}

// Health reports that the process is serving.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// parseMergeForm reads the multipart form into a BlendRequest, applying the
// default weights for omitted fields.
func parseMergeForm(r *http.Request) (service.BlendRequest, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return service.BlendRequest{}, fmt.Errorf("%w: request body exceeds %d bytes", models.ErrTooLarge, mbe.Limit)
		}
		return service.BlendRequest{}, fmt.Errorf("%w: imageA and imageB required", models.ErrValidation)
	}
	files := r.MultipartForm.File
	if len(files["imageA"]) == 0 || len(files["imageB"]) == 0 {
		return service.BlendRequest{}, fmt.Errorf("%w: imageA and imageB required", models.ErrValidation)
	}

	for _, name := range []string{"alpha_low", "alpha_high"} {
		if vs, ok := r.MultipartForm.Value[name]; ok && (len(vs) == 0 || strings.TrimSpace(vs[0]) == "") {
			return service.BlendRequest{}, fmt.Errorf("%w: alpha_low and alpha_high must be numbers", models.ErrValidation)
		}
	}

	var form models.MergeForm
	if err := binding.FormMultipart.Bind(r, &form); err != nil {
		return service.BlendRequest{}, fmt.Errorf("%w: alpha_low and alpha_high must be numbers", models.ErrValidation)
	}
	if !finite(form.AlphaLow) || !finite(form.AlphaHigh) {
		return service.BlendRequest{}, fmt.Errorf("%w: alpha_low and alpha_high must be numbers", models.ErrValidation)
	}

	a, err := readFile(form.ImageA)
	if err != nil {
		return service.BlendRequest{}, err
	}
	b, err := readFile(form.ImageB)
	if err != nil {
		return service.BlendRequest{}, err
	}
	return service.BlendRequest{A: a, B: b, AlphaLow: form.AlphaLow, AlphaHigh: form.AlphaHigh}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, fmt.Errorf("%w: imageA and imageB required", models.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload %q: %v", models.ErrInternal, fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload %q: %v", models.ErrInternal, fh.Filename, err)
	}
	return data, nil
}

// writeMergeError maps the error taxonomy onto HTTP status codes.
func (h *Handlers) writeMergeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFrom(r.Context(), h.logger)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Info("merge aborted", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	case errors.Is(err, models.ErrTooLarge):
		logger.Info("merge rejected", "err", err)
		writeError(w, r, http.StatusRequestEntityTooLarge, "image too large")
	case errors.Is(err, models.ErrDecode):
		logger.Info("merge rejected", "err", err)
		writeError(w, r, http.StatusBadRequest, "could not decode images")
	case errors.Is(err, models.ErrValidation):
		logger.Info("merge rejected", "err", err)
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
	default:
		logger.Error("merge failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage strips the category prefix from a wrapped validation error.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
}
