package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
)

const pingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz is ready once the collection is loaded and the snapshot slot answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Store.Loaded() {
			writeJSON(w, d.Logger, http.StatusServiceUnavailable, readyzResponse{Reason: "links not loaded"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			writeJSON(w, d.Logger, http.StatusServiceUnavailable, readyzResponse{Reason: d.Store.Backend() + " unreachable"})
			return
		}

		writeJSON(w, d.Logger, http.StatusOK, readyzResponse{Ready: true})
	}
}
