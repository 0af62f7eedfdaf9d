// Package audit records a trail of successful write requests.
package audit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/api/middleware"
)

// Entry is one audited write.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Path         string    `json:"path"`
	Status       int       `json:"status"`
	IPAddress    string    `json:"ip_address"`
	RequestID    string    `json:"request_id,omitempty"`
}

type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "audit").Logger()}
}

func (l *Logger) Log(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	l.logger.Info().Interface("audit", entry).Msg(entry.Action)
}

// Middleware audits every write that completed with a 2xx status.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action, ok := actions[r.Method]
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status < 200 || rec.status >= 300 {
			return
		}

		resourceType, resourceID := resourceOf(r.URL.Path)
		if action == "replace" && (resourceType == "follow" || resourceType == "membership") {
			action = "create"
		}
		if action == "create" && resourceID == "" {
			if _, id := resourceOf(rec.Header().Get("Location")); id != "" {
				resourceID = id
			}
		}
		l.Log(Entry{
			Action:       resourceType + "." + action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Path:         r.URL.Path,
			Status:       rec.status,
			IPAddress:    clientIP(r),
			RequestID:    middleware.GetRequestID(r.Context()),
		})
	})
}

var actions = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "replace",
	http.MethodDelete: "delete",
}

// resourceOf maps an API path onto the resource it addresses. Link paths
// such as /api/users/1/events/2/ are reported as follow and membership.
func resourceOf(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "api" {
		return "", ""
	}
	kinds := map[string]string{"events": "event", "users": "user", "orgs": "organization"}
	switch len(parts) {
	case 2:
		return kinds[parts[1]], ""
	case 3:
		return kinds[parts[1]], parts[2]
	case 5:
		switch parts[3] {
		case "events":
			return "follow", parts[2] + ":" + parts[4]
		case "orgs":
			return "membership", parts[2] + ":" + parts[4]
		}
	}
	return "", ""
}

// clientIP prefers RemoteAddr, falling back to X-Real-IP when it is absent.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}
