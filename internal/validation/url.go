package validation

import (
	"net/url"
	"strings"
)

// ValidateBaseURL checks that raw is an absolute http(s) URL without path,
// query or fragment. Empty values are accepted.
func ValidateBaseURL(raw, field string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return FieldError{Field: field, Message: "invalid URL format"}
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return FieldError{Field: field, Message: "URL scheme must be http or https"}
	}
	if parsed.Host == "" {
		return FieldError{Field: field, Message: "URL must include a host"}
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return FieldError{Field: field, Message: "base URL must not contain a path"}
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return FieldError{Field: field, Message: "base URL must not contain a query or fragment"}
	}
	return nil
}
