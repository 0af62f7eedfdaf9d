package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type errorBody struct {
	ResourceURL string `json:"resource_url"`
	Error       struct {
		Message  string   `json:"@message"`
		Messages []string `json:"@messages"`
	} `json:"@error"`
	Controls map[string]struct {
		Href string `json:"href"`
	} `json:"@controls"`
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestWrite_ExplicitDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/events/9/", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, "Event not found", "Event ID 9 was not found", nil, "production")

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "application/vnd.mason+json" {
		t.Fatalf("expected mason content type, got %s", got)
	}

	body := decodeBody(t, res)
	if body.ResourceURL != "/api/events/9/" {
		t.Fatalf("expected resource_url /api/events/9/, got %s", body.ResourceURL)
	}
	if body.Error.Message != "Event not found" {
		t.Fatalf("unexpected title %q", body.Error.Message)
	}
	if len(body.Error.Messages) != 1 || body.Error.Messages[0] != "Event ID 9 was not found" {
		t.Fatalf("unexpected messages %v", body.Error.Messages)
	}
	if body.Controls["profile"].Href != "/profiles/error/" {
		t.Fatalf("expected error profile control, got %v", body.Controls)
	}
}

func TestWrite_DevIncludesErrorText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/orgs/", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, "Internal server error", "", errors.New("boom"), "development")

	body := decodeBody(t, res)
	if body.Error.Messages[0] != "boom" {
		t.Fatalf("expected detail boom, got %s", body.Error.Messages[0])
	}
}

func TestWrite_ProdHidesErrorText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/orgs/", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, "Internal server error", "", errors.New("boom"), "production")

	body := decodeBody(t, res)
	if body.Error.Messages[0] != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected sanitized detail, got %s", body.Error.Messages[0])
	}
}
