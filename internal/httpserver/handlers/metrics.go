package handlers

import (
	"net/http"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
)

// Metrics serves the Prometheus exposition, or 404 when metrics are off.
func Metrics(d deps.Deps) http.HandlerFunc {
	if d.Metrics == nil {
		return http.NotFound
	}
	h := d.Metrics.Handler()
	return h.ServeHTTP
}
