// Package problem writes Mason error documents.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/mason"
)

// Write sends an error document. When detail is empty it is derived from err:
// the error text in development and test, the status text elsewhere.
func Write(w http.ResponseWriter, r *http.Request, status int, title, detail string, err error, env string) {
	if detail == "" {
		if err != nil && (env == "development" || env == "test") {
			detail = err.Error()
		} else {
			detail = http.StatusText(status)
		}
	}

	logger := zerolog.Ctx(r.Context())
	switch {
	case status >= 500:
		logger.Error().
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	case status >= 400:
		logger.Warn().
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteDocument(w, status, inventory.ErrorDocument(r.URL.Path, title, detail))
}

// WriteDocument serializes any Mason document with the given status.
func WriteDocument(w http.ResponseWriter, status int, doc json.Marshaler) {
	payload, err := json.Marshal(doc)
	if err != nil {
		w.Header().Set("Content-Type", mason.MediaType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"@error":{"@message":"Internal Server Error","@messages":["failed to encode response"]}}`))
		return
	}

	w.Header().Set("Content-Type", mason.MediaType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
