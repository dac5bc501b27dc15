package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, status int, msg string) {
	writeJSON(w, log, status, errorResponse{Error: msg})
}
