package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supertoolshq/gateway/internal/tunnel"
)

type stubRunner struct {
	output []byte
	err    error
}

func (r *stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return r.output, r.err
}

func newTunnelHandler(runner tunnel.Runner) *TunnelHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewTunnelHandler(tunnel.NewRegistry(runner), logger)
}

func TestTunnelHandler(t *testing.T) {
	handler := newTunnelHandler(&stubRunner{
		output: []byte("https://witty-narwhal-demo.trycloudflare.com"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tunnel", strings.NewReader(`{"port": 3000}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	decoded := decodeResponse(t, rec.Body.Bytes())
	assert.Equal(t, "https://witty-narwhal-demo.trycloudflare.com", decoded["url"])
}

func TestTunnelHandler_MissingPort(t *testing.T) {
	handler := newTunnelHandler(&stubRunner{})

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"zero port", `{"port": 0}`},
		{"invalid json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tunnel", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			decoded := decodeResponse(t, rec.Body.Bytes())
			assert.Equal(t, "Port required", decoded["error"])
		})
	}
}

func TestTunnelHandler_StartFailure(t *testing.T) {
	handler := newTunnelHandler(&stubRunner{
		err: errors.New("executable file not found in $PATH"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tunnel", strings.NewReader(`{"port": 3000}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	decoded := decodeResponse(t, rec.Body.Bytes())
	assert.Contains(t, decoded["error"], "install cloudflared or ngrok")
}
