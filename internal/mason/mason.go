// Package mason builds hypermedia documents in the Mason format.
//
// A Document carries plain payload fields plus three reserved sections:
// @controls (the actions available next), @namespaces (link relation
// prefixes) and @error. Building a document never performs I/O.
package mason

import (
	"encoding/json"
)

// MediaType is the content type of every Mason response body.
const MediaType = "application/vnd.mason+json"

const (
	keyControls   = "@controls"
	keyNamespaces = "@namespaces"
	keyError      = "@error"
)

// Control is a named hypermedia link. Schema, when set, is the JSON Schema
// a client should validate the request body against before submitting.
type Control struct {
	Href     string `json:"href"`
	Method   string `json:"method,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	Title    string `json:"title,omitempty"`
	Schema   any    `json:"schema,omitempty"`
}

type ControlOption func(*Control)

func WithMethod(method string) ControlOption {
	return func(c *Control) {
		c.Method = method
	}
}

func WithEncoding(encoding string) ControlOption {
	return func(c *Control) {
		c.Encoding = encoding
	}
}

func WithTitle(title string) ControlOption {
	return func(c *Control) {
		c.Title = title
	}
}

func WithSchema(schema any) ControlOption {
	return func(c *Control) {
		c.Schema = schema
	}
}

// Namespace maps a control name prefix to the URI documenting it.
type Namespace struct {
	Name string `json:"name"`
}

// Error is the @error section. Only one message is ever recorded.
type Error struct {
	Message  string   `json:"@message"`
	Messages []string `json:"@messages"`
}

// Document is a Mason response body under construction.
type Document struct {
	fields     map[string]any
	Controls   map[string]Control
	Namespaces map[string]Namespace
	Error      *Error
}

// New returns an empty document.
func New() *Document {
	return &Document{fields: map[string]any{}}
}

// Set stores a payload field. Keys starting with "@" collide with the
// reserved sections and are dropped at serialization time.
func (d *Document) Set(key string, value any) *Document {
	if d.fields == nil {
		d.fields = map[string]any{}
	}
	d.fields[key] = value
	return d
}

// AddControl registers a control under name. A later call with the same
// name replaces the earlier control entirely.
func (d *Document) AddControl(name, href string, opts ...ControlOption) *Document {
	if d.Controls == nil {
		d.Controls = map[string]Control{}
	}
	control := Control{Href: href}
	for _, opt := range opts {
		opt(&control)
	}
	d.Controls[name] = control
	return d
}

// AddNamespace registers (or overwrites) the URI for a prefix.
func (d *Document) AddNamespace(prefix, uri string) *Document {
	if d.Namespaces == nil {
		d.Namespaces = map[string]Namespace{}
	}
	d.Namespaces[prefix] = Namespace{Name: uri}
	return d
}

// AddError marks the document as an error document.
func (d *Document) AddError(title, detail string) *Document {
	d.Error = &Error{
		Message:  title,
		Messages: []string{detail},
	}
	return d
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.fields)+3)
	for key, value := range d.fields {
		if len(key) > 0 && key[0] == '@' {
			continue
		}
		out[key] = value
	}
	if len(d.Controls) > 0 {
		out[keyControls] = d.Controls
	}
	if len(d.Namespaces) > 0 {
		out[keyNamespaces] = d.Namespaces
	}
	if d.Error != nil {
		out[keyError] = d.Error
	}
	return json.Marshal(out)
}
