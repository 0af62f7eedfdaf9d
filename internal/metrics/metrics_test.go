package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riverqueue/river/rivertype"
)

func TestInitAndHandler(t *testing.T) {
	Init("v1.0.0", "abc123", "2026-10-01")

	if got := testutil.ToFloat64(AppInfo.WithLabelValues("v1.0.0", "abc123", "2026-10-01")); got != 1 {
		t.Fatalf("app_info = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "eventhub_app_info") {
		t.Fatal("metrics output should contain eventhub_app_info")
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatal("metrics output should contain runtime collectors")
	}
}

func TestHTTPMiddlewareNormalizesIDs(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/api/users/{id}/events/{id}/", "204"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/users/3/events/9/", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/users/4/events/1/", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/api/users/{id}/events/{id}/", "204"))
	if after-before != 2 {
		t.Fatalf("expected both requests under one label set, got delta %v", after-before)
	}
}

func TestHTTPMiddlewareDefaultStatus(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/", nil))
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/", "200")); got-before != 1 {
		t.Fatalf("handler without writes should count as 200, delta %v", got-before)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "/api/events/", expected: "/api/events/"},
		{input: "/api/events/12/", expected: "/api/events/{id}/"},
		{input: "/api/orgs/1/users/", expected: "/api/orgs/{id}/users/"},
		{input: "/api/events/abc/", expected: "/api/events/abc/"},
		{input: "", expected: ""},
		{input: "api/events/1", expected: "api/events/1"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.input); got != tt.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRecordMutation(t *testing.T) {
	before := testutil.ToFloat64(EntityMutations.WithLabelValues("org", "create"))
	RecordMutation("org", "create")
	if got := testutil.ToFloat64(EntityMutations.WithLabelValues("org", "create")); got-before != 1 {
		t.Fatalf("expected one mutation, delta %v", got-before)
	}
}

func TestDBCollectorNilPool(t *testing.T) {
	collector := NewDBCollector(nil)
	collector.collect()
	collector.Stop()
	collector.Stop()
}

func TestRiverMetricsHook(t *testing.T) {
	hook := NewRiverMetricsHook()
	ctx := context.Background()
	job := &rivertype.JobRow{ID: 42, Kind: "event_notification"}

	if err := hook.InsertBegin(ctx, &rivertype.JobInsertParams{Kind: job.Kind}); err != nil {
		t.Fatal(err)
	}
	if err := hook.WorkBegin(ctx, job); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(RiverJobsInFlight.WithLabelValues(job.Kind)); got != 1 {
		t.Fatalf("in flight = %v, want 1", got)
	}
	if err := hook.WorkEnd(ctx, job, errors.New("smtp down")); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(RiverJobsInFlight.WithLabelValues(job.Kind)); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(RiverJobsCompleted.WithLabelValues(job.Kind, "error")); got != 1 {
		t.Fatalf("completed errors = %v, want 1", got)
	}
	if len(hook.startTime) != 0 {
		t.Fatal("start time should be cleared")
	}
}
