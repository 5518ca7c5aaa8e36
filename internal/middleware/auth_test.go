package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supertoolshq/gateway/internal/config"
)

func newAuthManager(t *testing.T, apiKey string) *config.Manager {
	t.Helper()

	manager := config.NewManager(t.TempDir())
	if apiKey != "" {
		require.NoError(t, manager.Save(&config.Config{APIKey: apiKey}))
	}

	return manager
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		configuredKey  string
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "no key configured, open gateway",
			configuredKey:  "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid bearer token",
			configuredKey:  "gw-secret",
			headers:        map[string]string{"Authorization": "Bearer gw-secret"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid x-api-key header",
			configuredKey:  "gw-secret",
			headers:        map[string]string{"X-API-Key": "gw-secret"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong token",
			configuredKey:  "gw-secret",
			headers:        map[string]string{"Authorization": "Bearer wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing token",
			configuredKey:  "gw-secret",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthMiddleware(newAuthManager(t, tt.configuredKey), logger)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/formalize", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "not authorized")
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}
