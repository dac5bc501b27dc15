package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/links"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

const (
	maxCreateBody      = 16 << 10
	qrCodeEndpoint     = "https://api.qrserver.com/v1/create-qr-code/"
	qrCodeSize         = "150x150"
	persistWarningHdr  = "X-Persist-Warning"
	persistWarningText = "saved in memory only, snapshot write failed"
)

// linkView is a link as the dashboard card renders it.
type linkView struct {
	domain.Link
	ShortURL  string `json:"shortUrl"`
	QRCodeURL string `json:"qrCodeUrl"`
}

type linkResponse struct {
	linkView
	Warning string `json:"warning,omitempty"`
}

type listResponse struct {
	Links []linkView `json:"links"`
	Count int        `json:"count"`
}

type visitResponse struct {
	linkView
	Destination string `json:"destination"`
	Warning     string `json:"warning,omitempty"`
}

type createRequest struct {
	URL string `json:"url"`
}

func newView(d deps.Deps, l domain.Link) linkView {
	qr := url.Values{"size": {qrCodeSize}, "data": {l.OriginalURL}}
	return linkView{
		Link:      l,
		ShortURL:  d.ShortDomain + "/" + l.ShortCode,
		QRCodeURL: qrCodeEndpoint + "?" + qr.Encode(),
	}
}

// persistWarning maps a snapshot failure to a warning; any other error is
// returned untouched.
func persistWarning(w http.ResponseWriter, err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, links.ErrPersist) {
		w.Header().Set(persistWarningHdr, persistWarningText)
		return persistWarningText, nil
	}
	return "", err
}

// ListLinks returns the collection filtered by ?q=, newest first.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found := d.Links.Search(r.URL.Query().Get("q"))

		views := make([]linkView, 0, len(found))
		for _, l := range found {
			views = append(views, newView(d, l))
		}
		writeJSON(w, d.Logger, http.StatusOK, listResponse{Links: views, Count: len(views)})
	}
}

// CreateLink enriches and stores a submitted URL.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBody)).Decode(&req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid JSON body")
			return
		}

		link, err := d.Links.CreateLink(r.Context(), req.URL)
		if errors.Is(err, links.ErrInvalidURL) {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}
		warning, err := persistWarning(w, err)
		if err != nil {
			d.Logger.Error("failed to create link", logger.String("url", req.URL), logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to create link")
			return
		}
		if warning != "" {
			d.Logger.Warn("link created without persistence", logger.String("id", link.ID))
		}

		writeJSON(w, d.Logger, http.StatusCreated, linkResponse{linkView: newView(d, link), Warning: warning})
	}
}

// DeleteLink answers 204 whether or not the link existed.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		_, err := d.Links.DeleteLink(r.Context(), id)
		if _, err := persistWarning(w, err); err != nil {
			d.Logger.Error("failed to delete link", logger.String("id", id), logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to delete link")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// VisitLink records a simulated click and returns where it leads.
func VisitLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		link, err := d.Links.Visit(r.Context(), id)
		if errors.Is(err, links.ErrNotFound) {
			writeError(w, d.Logger, http.StatusNotFound, "link not found")
			return
		}
		warning, err := persistWarning(w, err)
		if err != nil {
			d.Logger.Error("failed to record visit", logger.String("id", id), logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to record visit")
			return
		}

		writeJSON(w, d.Logger, http.StatusOK, visitResponse{
			linkView:    newView(d, link),
			Destination: link.OriginalURL,
			Warning:     warning,
		})
	}
}
