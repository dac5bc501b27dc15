package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/handlers"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/api/links", handlers.ListLinks(d))
		r.Post("/api/links", handlers.CreateLink(d))
		r.Delete("/api/links/{id}", handlers.DeleteLink(d))
		r.Post("/api/links/{id}/visit", handlers.VisitLink(d))
		r.Get("/api/analytics", handlers.Analytics(d))
	})
}
