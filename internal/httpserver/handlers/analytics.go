package handlers

import (
	"net/http"
	"strconv"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
)

const maxWindowDays = 366

// Analytics serves the click series over ?days= (default: configured window).
// A non-positive value falls back to the default window.
func Analytics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := d.WindowDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n > maxWindowDays {
				writeError(w, d.Logger, http.StatusBadRequest, "days must be an integer up to 366")
				return
			}
			days = n
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, d.Logger, http.StatusOK, d.Links.Analytics(days))
	}
}
