package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Togather-Foundation/eventhub/internal/config"
	"github.com/Togather-Foundation/eventhub/internal/mason"
	"github.com/Togather-Foundation/eventhub/internal/storage/memory"
)

func newTestRouter(t *testing.T, rateLimit config.RateLimitConfig) *Router {
	t.Helper()

	router := NewRouter(Dependencies{
		Config: config.Config{
			Environment: "test",
			RateLimit:   rateLimit,
			CORS:        config.CORSConfig{AllowAllOrigins: true},
		},
		Logger:       zerolog.Nop(),
		Repo:         memory.New(),
		Build:        BuildInfo{Version: "test"},
		PasswordCost: bcrypt.MinCost,
	})
	t.Cleanup(router.Close)
	return router
}

func send(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	require.Equal(t, mason.MediaType, rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorTitle(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeDocument(t, rec)
	errBody, ok := body["@error"].(map[string]any)
	require.True(t, ok, "missing @error in %s", rec.Body.String())
	return errBody["@message"].(string)
}

func TestMethodMux(t *testing.T) {
	mux := methodMux("test", map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("GET response"))
		}),
		http.MethodPost: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("POST response"))
		}),
	})

	tests := []struct {
		name         string
		method       string
		expectStatus int
		expectBody   string
	}{
		{name: "GET allowed", method: http.MethodGet, expectStatus: http.StatusOK, expectBody: "GET response"},
		{name: "POST allowed", method: http.MethodPost, expectStatus: http.StatusCreated, expectBody: "POST response"},
		{name: "PUT not allowed", method: http.MethodPut, expectStatus: http.StatusMethodNotAllowed},
		{name: "DELETE not allowed", method: http.MethodDelete, expectStatus: http.StatusMethodNotAllowed},
		{name: "PATCH not allowed", method: http.MethodPatch, expectStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, "/test", nil))

			require.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectBody != "" {
				assert.Equal(t, tt.expectBody, rec.Body.String())
				return
			}
			assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
			assert.Equal(t, "Method not allowed", errorTitle(t, rec))
		})
	}
}

func TestAllowedMethods(t *testing.T) {
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	tests := []struct {
		name     string
		handlers map[string]http.Handler
		expected string
	}{
		{
			name:     "single method",
			handlers: map[string]http.Handler{http.MethodGet: noop},
			expected: "GET",
		},
		{
			name:     "two methods sorted",
			handlers: map[string]http.Handler{http.MethodPost: noop, http.MethodGet: noop},
			expected: "GET, POST",
		},
		{
			name: "item methods sorted",
			handlers: map[string]http.Handler{
				http.MethodPut:    noop,
				http.MethodGet:    noop,
				http.MethodDelete: noop,
			},
			expected: "DELETE, GET, PUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, allowedMethods(tt.handlers))
		})
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	tests := []struct {
		method string
		target string
		allow  string
	}{
		{http.MethodPatch, "/api/events/", "GET, POST"},
		{http.MethodPost, "/api/events/1/", "DELETE, GET, PUT"},
		{http.MethodGet, "/api/users/1/events/1/", "DELETE, PUT"},
		{http.MethodPost, "/api/orgs/1/users/", "GET"},
		{http.MethodDelete, "/api/", "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := send(t, router, tt.method, tt.target, "")
			require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
			assert.Equal(t, "Method not allowed", errorTitle(t, rec))
		})
	}
}

func TestRouterUnknownPath(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	for _, target := range []string{"/nope", "/api/events/1/extra/", "/profiles/"} {
		rec := send(t, router, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Not found", errorTitle(t, rec))
	}
}

func TestRouterOrganizationEventFlow(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	rec := send(t, router, http.MethodPost, "/api/orgs/", `{"name":"OTiT"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/orgs/1/", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = send(t, router, http.MethodPost, "/api/orgs/", `{"name":"OTiT"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Already exists", errorTitle(t, rec))

	rec = send(t, router, http.MethodPost, "/api/events/",
		`{"name":"Karaoke","time":"2026-11-20 19:00","description":"Sing along","location":"Kultturelli","organization":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/events/1/", rec.Header().Get("Location"))

	rec = send(t, router, http.MethodPost, "/api/users/",
		`{"name":"Maija","email":"maija@example.com","password":"hunter22","location":"Oulu","notifications":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(t, router, http.MethodPut, "/api/users/1/events/1/", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = send(t, router, http.MethodPut, "/api/users/1/events/1/", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = send(t, router, http.MethodPut, "/api/users/1/orgs/1/", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	followers := decodeDocument(t, send(t, router, http.MethodGet, "/api/events/1/users/", ""))
	items, ok := followers["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Maija", items[0].(map[string]any)["name"])

	rec = send(t, router, http.MethodDelete, "/api/orgs/1/", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	event := decodeDocument(t, send(t, router, http.MethodGet, "/api/events/1/", ""))
	assert.Nil(t, event["organization"])

	memberships := decodeDocument(t, send(t, router, http.MethodGet, "/api/users/1/orgs/", ""))
	assert.Empty(t, memberships["items"])

	rec = send(t, router, http.MethodDelete, "/api/users/1/events/1/", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = send(t, router, http.MethodDelete, "/api/users/1/events/1/", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterEntryPointAndProfiles(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	entry := decodeDocument(t, send(t, router, http.MethodGet, "/api/", ""))
	controls := entry["@controls"].(map[string]any)
	assert.Contains(t, controls, "eventhub:events-all")
	assert.Contains(t, controls, "eventhub:users-all")
	assert.Contains(t, controls, "eventhub:orgs-all")

	rec := send(t, router, http.MethodGet, "/profiles/event/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = send(t, router, http.MethodGet, "/eventhub/link-relations/", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRequestTooLarge(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	body := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := send(t, router, http.MethodPost, "/api/orgs/", body)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request too large", errorTitle(t, rec))
}

func TestRouterRateLimitsWrites(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{WritePerMinute: 1})

	rec := send(t, router, http.MethodPost, "/api/orgs/", `{"name":"OTiT"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(t, router, http.MethodPost, "/api/orgs/", `{"name":"Blanko"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec = send(t, router, http.MethodGet, "/api/orgs/", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	rec := send(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = send(t, router, http.MethodPost, "/api/orgs/", `{"name":"OTiT"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eventhub_entity_mutations_total{entity="organization",operation="create"}`)

	rec = send(t, router, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}
