package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformHealthCheck(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		responseBody any
		expectError  bool
		invalid      bool
		expectStatus string
	}{
		{
			name:       "healthy server",
			statusCode: http.StatusOK,
			responseBody: HealthResponse{
				Status: "healthy",
				Checks: map[string]CheckResult{"database": {Status: "pass"}},
			},
			expectStatus: "healthy",
		},
		{
			name:       "degraded server",
			statusCode: http.StatusOK,
			responseBody: HealthResponse{
				Status: "degraded",
				Checks: map[string]CheckResult{"database": {Status: "pass"}, "job_queue": {Status: "warn"}},
			},
			expectError:  true,
			expectStatus: "degraded",
		},
		{
			name:         "unhealthy server",
			statusCode:   http.StatusServiceUnavailable,
			responseBody: HealthResponse{Status: "unhealthy"},
			expectError:  true,
			expectStatus: "unhealthy",
		},
		{
			name:         "invalid response",
			statusCode:   http.StatusOK,
			responseBody: "not json",
			expectError:  true,
			invalid:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				if s, ok := tt.responseBody.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tt.responseBody)
			}))
			defer server.Close()

			resp, err := performHealthCheck(context.Background(), server.URL+"/health", 2*time.Second)
			if !tt.expectError {
				require.NoError(t, err)
				assert.Equal(t, tt.expectStatus, resp.Status)
				return
			}
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, errInvalidHealthResponse)
				return
			}
			assert.NotErrorIs(t, err, errInvalidHealthResponse)
			assert.Equal(t, tt.expectStatus, resp.Status)
		})
	}
}

func TestPerformHealthCheckTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	_, err := performHealthCheck(context.Background(), server.URL, 50*time.Millisecond)
	require.Error(t, err)
}

func TestPerformHealthCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := performHealthCheck(context.Background(), url, time.Second)
	require.Error(t, err)
}
