package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets a browser dashboard served from another origin call the API.
// An empty origins list allows any origin.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Persist-Warning", "X-Request-Id"},
		MaxAge:         300,
	})
}
