package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional middlewares applied to all its routes.
// Called from init() in each route file.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll mounts every registrar on r, then logs the resulting table at
// debug level. Called once from the server constructor.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		r.Group(func(sub chi.Router) {
			sub.Use(e.mws...)
			e.reg(sub, d)
		})
	}

	if d.Logger == nil {
		return
	}
	_ = chi.Walk(r, func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		d.Logger.Debug("route registered",
			logger.String("method", method),
			logger.String("route", strings.TrimSuffix(route, "/")),
			logger.Int("middlewares", len(mws)))
		return nil
	})
}
