package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/handlers"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/mw"
)

func init() { Register(registerOps) }

// healthz stays open for container probes; infra and metrics are
// restricted like readyz.
func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		if d.Metrics != nil {
			r.Get("/metrics", handlers.Metrics(d))
		}
	})
}
