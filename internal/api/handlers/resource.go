package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Togather-Foundation/eventhub/internal/api/inventory"
	"github.com/Togather-Foundation/eventhub/internal/api/problem"
	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/validation"
)

// Resource is the common shape of the three entity handlers: a collection
// with List and Create, and items with Get, Replace and Delete.
type Resource interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// subject names what a request was about so error details can quote it.
type subject struct {
	userID  string
	eventID string
	orgID   string
	email   string
	orgName string
}

// writeError maps domain errors onto status codes and error documents.
func writeError(w http.ResponseWriter, r *http.Request, env string, err error, s subject) {
	var fieldErrs validation.Errors
	var schemaErr *inventory.ValidationError

	switch {
	case errors.As(err, &schemaErr):
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON document", schemaErr.Error(), err, env)
	case errors.As(err, &fieldErrs):
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON document", fieldErrs.Error(), err, env)
	case errors.Is(err, users.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "User not found", fmt.Sprintf("User ID %s was not found", s.userID), err, env)
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "Event not found", fmt.Sprintf("Event ID %s was not found", s.eventID), err, env)
	case errors.Is(err, organizations.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "Organization not found", fmt.Sprintf("Organization ID %s was not found", s.orgID), err, env)
	case errors.Is(err, users.ErrEmailTaken):
		problem.Write(w, r, http.StatusConflict, "Already exists", fmt.Sprintf("The email address %s is already in use.", s.email), err, env)
	case errors.Is(err, organizations.ErrNameTaken):
		problem.Write(w, r, http.StatusConflict, "Already exists", fmt.Sprintf("Organization with name '%s' already exists.", s.orgName), err, env)
	case errors.Is(err, events.ErrInvalidOrganization):
		problem.Write(w, r, http.StatusBadRequest, "Invalid reference", fmt.Sprintf("Organization ID %s does not exist", s.orgID), err, env)
	case errors.Is(err, relations.ErrAlreadyFollowing):
		problem.Write(w, r, http.StatusConflict, "Already exists", fmt.Sprintf("User %s already follows event %s", s.userID, s.eventID), err, env)
	case errors.Is(err, relations.ErrAlreadyMember):
		problem.Write(w, r, http.StatusConflict, "Already exists", fmt.Sprintf("User %s is already a member of organization %s", s.userID, s.orgID), err, env)
	case errors.Is(err, relations.ErrNotFollowing):
		problem.Write(w, r, http.StatusNotFound, "Not found", fmt.Sprintf("User %s does not follow event %s", s.userID, s.eventID), err, env)
	case errors.Is(err, relations.ErrNotMember):
		problem.Write(w, r, http.StatusNotFound, "Not found", fmt.Sprintf("User %s is not a member of organization %s", s.userID, s.orgID), err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "Internal server error", "", err, env)
	}
}

// requireJSON rejects requests whose Content-Type is not JSON.
func requireJSON(w http.ResponseWriter, r *http.Request, env string) bool {
	if isJSON(r.Header.Get("Content-Type")) {
		return true
	}
	problem.Write(w, r, http.StatusUnsupportedMediaType, "Unsupported media type", "Requests must be JSON", nil, env)
	return false
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decodeBody reads the body, checks it against the schema for kind and
// decodes it into dst. It writes the error response itself.
func decodeBody(w http.ResponseWriter, r *http.Request, env string, kind inventory.Kind, dst any) bool {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			problem.Write(w, r, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit), err, env)
			return false
		}
		problem.Write(w, r, http.StatusBadRequest, "Invalid request", "Could not read request body", err, env)
		return false
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		problem.Write(w, r, http.StatusUnsupportedMediaType, "Unsupported media type", "Requests must be JSON", err, env)
		return false
	}
	if _, ok := document.(map[string]any); !ok {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON document", "Request body must be a JSON object", nil, env)
		return false
	}

	if err := inventory.Validate(kind, document); err != nil {
		writeError(w, r, env, err, subject{})
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "Invalid JSON document", err.Error(), err, env)
		return false
	}
	return true
}

func writeDocument(w http.ResponseWriter, status int, doc json.Marshaler) {
	problem.WriteDocument(w, status, doc)
}

func writeCreated(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

// pathID parses a path parameter. Malformed values are reported by the
// caller as not found.
func pathID(r *http.Request, key string) (int64, string, bool) {
	raw := pathParam(r, key)
	id, err := ids.Parse(raw)
	return id, raw, err == nil
}
