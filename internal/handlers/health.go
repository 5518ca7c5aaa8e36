package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type HealthHandler struct {
	version string
	logger  *slog.Logger
}

func NewHealthHandler(version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	body := map[string]string{"status": "ok", "version": h.version}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write health check response", "error", err)
	}
}
