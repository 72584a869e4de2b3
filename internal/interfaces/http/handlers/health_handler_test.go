package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3")
	w := doJSON(t, newEngine(h.RegisterRoutes), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LivenessResponse
	decode(t, w, &resp)
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthHandler_Readiness(t *testing.T) {
	healthy := CheckerFunc{ComponentName: "minio", Fn: func(context.Context) error { return nil }}
	failing := CheckerFunc{ComponentName: "minio", Fn: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name     string
		checkers []HealthChecker
		status   int
		want     string
	}{
		{"no checkers", nil, http.StatusOK, "ready"},
		{"healthy", []HealthChecker{healthy}, http.StatusOK, "ready"},
		{"unhealthy", []HealthChecker{failing}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("dev", tt.checkers...)
			w := doJSON(t, newEngine(h.RegisterRoutes), http.MethodGet, "/readyz", nil)
			assert.Equal(t, tt.status, w.Code)

			var resp ReadinessResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.want, resp.Status)
			if tt.status == http.StatusServiceUnavailable {
				require.Contains(t, resp.Components, "minio")
				assert.Equal(t, "unhealthy", resp.Components["minio"].Status)
				assert.Equal(t, "connection refused", resp.Components["minio"].Error)
			}
		})
	}
}
