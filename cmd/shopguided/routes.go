package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"shopguide-backend/services/products"
)

// The daemon mirrors the produced API one-to-one: a missing keyword is
// the only client error, and an empty result set is a valid 200.
func registerRoutes(mux *http.ServeMux, service products.Service) {
	mux.HandleFunc("GET /v1/makers", func(w http.ResponseWriter, r *http.Request) {
		makers, err := service.SearchOptions(r.Context(), r.URL.Query().Get("keyword"))
		respond(w, r, makers, err)
	})

	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		found, err := service.SearchProducts(
			r.Context(),
			q.Get("keyword"),
			q.Get("order"),
			q["maker"],
			queryInt(q.Get("limit"), 20),
		)
		respond(w, r, found, err)
	})

	mux.HandleFunc("GET /v1/pick", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		picked, err := service.UniqueProducts(r.Context(), q.Get("keyword"), q["maker"])
		respond(w, r, picked, err)
	})
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if errors.Is(err, products.ErrMissingKeyword) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "err", err)
	}
}
