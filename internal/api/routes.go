package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the routes for the application.
func RegisterRoutes(r *mux.Router, h *Handlers) {
	r.Use(h.requestID, h.logRequests, h.recoverPanics, mux.CORSMethodMiddleware(r), h.cors, h.limitBody)

	r.HandleFunc("/auth", h.Auth).Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/merge", h.requireToken(http.HandlerFunc(h.Merge))).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
}

// NewRouter returns a router with every route registered.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r, h)
	return r
}
