package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
)

const timeLayout = "2006-01-02 15:04:05"

type componentStatus struct {
	OK          bool   `json:"ok"`
	LinksLoaded *int   `json:"links_loaded,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	LastSave    string `json:"last_save,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Store.Count()

		components := map[string]componentStatus{
			"links": {
				OK:          d.Store.Loaded(),
				LinksLoaded: &count,
				LastReload:  formatTime(d.Store.LastReload()),
				LastSave:    formatTime(d.Store.LastSave()),
			},
			"store":      checkStore(r.Context(), d),
			"enrichment": enrichmentStatus(d.EnrichMode),
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(timeLayout)
}

// determineMode: "critical" without a loaded collection, "degraded" when
// snapshots cannot be written or enrichment is off, "operational" otherwise.
func determineMode(components map[string]componentStatus) string {
	if !components["links"].OK {
		return "critical"
	}
	if !components["store"].OK || !components["enrichment"].OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.Store.Backend(),
			Impact: "changes-kept-in-memory-only",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.Store.Backend()}
}

func enrichmentStatus(mode string) componentStatus {
	if mode == "" || mode == "fallback" {
		return componentStatus{
			OK:     false,
			Mode:   "fallback",
			Impact: "titles-derived-from-url",
		}
	}
	return componentStatus{OK: true, Mode: mode}
}
