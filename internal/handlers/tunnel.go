package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/supertoolshq/gateway/internal/tunnel"
)

// TunnelHandler opens public tunnels to local ports on demand.
type TunnelHandler struct {
	registry *tunnel.Registry
	logger   *slog.Logger
}

func NewTunnelHandler(registry *tunnel.Registry, logger *slog.Logger) *TunnelHandler {
	return &TunnelHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *TunnelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Port int `json:"port"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Port == 0 {
		writeJSONError(w, http.StatusBadRequest, "Port required")
		return
	}

	url, err := h.registry.Open(r.Context(), body.Port)
	if err != nil {
		h.logger.Error("Tunnel start failed", "port", body.Port, "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())

		return
	}

	h.logger.Info("Tunnel ready", "port", body.Port, "url", url)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(map[string]string{"url": url}); err != nil {
		h.logger.Error("Failed to write tunnel response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
