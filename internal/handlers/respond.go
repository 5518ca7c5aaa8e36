package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/metrics"
	"github.com/supertoolshq/gateway/internal/providers"
)

// ClientFactory is the slice of the provider factory the handlers need.
// Tests substitute a counting fake to prove no client is built on invalid
// input.
type ClientFactory interface {
	Client(name string) (providers.Client, error)
	Transcriber(name string) (providers.Transcriber, error)
}

// Tools carries the shared dependencies of every tool endpoint.
type Tools struct {
	config  *config.Manager
	factory ClientFactory
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTools(cfg *config.Manager, factory ClientFactory, logger *slog.Logger, m *metrics.Metrics) *Tools {
	return &Tools{
		config:  cfg,
		factory: factory,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (t *Tools) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.logger.Error("Failed to write response", "error", err)
	}
}

// fail writes the normalized form of any provider/parse error. This is the
// single place an error crosses the HTTP boundary; raw SDK errors never reach
// the response body unnormalized.
func (t *Tools) fail(w http.ResponseWriter, tool string, err error) {
	normalized := providers.Normalize(err)

	t.logger.Error("Tool request failed",
		"tool", tool,
		"status", normalized.Status,
		"error", err,
	)
	t.countRequest(tool, normalized.Status)
	t.writeJSON(w, normalized.Status, map[string]any{"error": normalized.Message})
}

// failValidation rejects a malformed request before any provider client is
// constructed.
func (t *Tools) failValidation(w http.ResponseWriter, tool, message string) {
	t.countRequest(tool, http.StatusBadRequest)
	t.writeJSON(w, http.StatusBadRequest, map[string]any{"error": message})
}

func (t *Tools) succeed(w http.ResponseWriter, tool string, body any) {
	t.countRequest(tool, http.StatusOK)
	t.writeJSON(w, http.StatusOK, body)
}

func (t *Tools) countRequest(tool string, status int) {
	if t.metrics == nil {
		return
	}

	t.metrics.ToolRequests.WithLabelValues(tool, strconv.Itoa(status)).Inc()
}

// invoke runs one provider call with token accounting, latency observation
// and error counting.
func (t *Tools) invoke(r *http.Request, tool string, client providers.Client, req *providers.PromptRequest) (string, error) {
	tokens := t.countPromptTokens(tool, req)

	start := time.Now()

	raw, err := client.Complete(r.Context(), req)

	duration := time.Since(start)
	if t.metrics != nil {
		t.metrics.ProviderLatency.WithLabelValues(client.Name()).Observe(duration.Seconds())
	}

	if err != nil {
		if t.metrics != nil {
			normalized := providers.Normalize(err)
			t.metrics.ProviderErrors.WithLabelValues(client.Name(), strconv.Itoa(normalized.Status)).Inc()
		}

		return "", err
	}

	t.logger.Info("Provider call completed",
		"tool", tool,
		"provider", client.Name(),
		"model", req.Model,
		"prompt_tokens", tokens,
		"duration", duration,
	)

	return raw, nil
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

// parseError wraps a JSON decode failure of model output so it surfaces as a
// distinct condition from a provider-side failure.
func parseError(tool string, err error) error {
	return fmt.Errorf("failed to parse the AI response for %s: %w", tool, err)
}

// toNumber coerces a numeric field the model may have returned as a string.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// toString coerces an optional string field, defaulting to empty.
func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toBool coerces an optional boolean field, defaulting to false.
func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}
