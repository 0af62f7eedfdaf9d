package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/mason"
	"github.com/Togather-Foundation/eventhub/internal/storage/memory"
)

type testEnv struct {
	store     *memory.Store
	events    *EventsHandler
	users     *UsersHandler
	orgs      *OrganizationsHandler
	relations *RelationsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	logger := zerolog.Nop()
	eventService := events.NewService(store.Events(), nil, logger)
	userService := users.NewService(store.Users(), logger).WithCost(bcrypt.MinCost)
	orgService := organizations.NewService(store.Organizations(), logger)
	relationService := relations.NewService(store.Relations(), userService, eventService, orgService, logger)

	return &testEnv{
		store:     store,
		events:    NewEventsHandler(eventService, "test"),
		users:     NewUsersHandler(userService, "test"),
		orgs:      NewOrganizationsHandler(orgService, "test"),
		relations: NewRelationsHandler(relationService, "test"),
	}
}

type pathValues map[string]string

func do(t *testing.T, handler http.HandlerFunc, method, target, body string, values pathValues) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range values {
		req.SetPathValue(key, value)
	}

	res := httptest.NewRecorder()
	handler(res, req)
	return res
}

func doRaw(t *testing.T, handler http.HandlerFunc, method, target, contentType, body string, values pathValues) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range values {
		req.SetPathValue(key, value)
	}

	res := httptest.NewRecorder()
	handler(res, req)
	return res
}

func decode(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	require.Equal(t, mason.MediaType, res.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func errorMessage(t *testing.T, res *httptest.ResponseRecorder) (string, []any) {
	t.Helper()

	body := decode(t, res)
	errDoc, ok := body["@error"].(map[string]any)
	require.True(t, ok, "missing @error in %s", res.Body.String())
	messages, _ := errDoc["@messages"].([]any)
	return errDoc["@message"].(string), messages
}

func controls(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	c, ok := body["@controls"].(map[string]any)
	require.True(t, ok, "missing @controls")
	return c
}

func href(t *testing.T, body map[string]any, name string) string {
	t.Helper()

	control, ok := controls(t, body)[name].(map[string]any)
	require.True(t, ok, "missing control %q", name)
	return control["href"].(string)
}

func itemsOf(t *testing.T, body map[string]any) []any {
	t.Helper()

	items, ok := body["items"].([]any)
	require.True(t, ok, "missing items")
	return items
}
