package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// ValidationError reports why a request body does not match its schema.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

var (
	compileMu sync.Mutex
	compiled  = map[Kind]*jsonschema.Schema{}
)

// Validate checks a decoded JSON body against the schema for kind.
func Validate(kind Kind, body any) error {
	schema, err := compiledSchema(kind)
	if err != nil {
		return err
	}

	result := schema.Validate(body)
	if result.IsValid() {
		return nil
	}

	keys := make([]string, 0, len(result.Errors))
	for key := range result.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, fmt.Sprintf("%s: %s", key, result.Errors[key].Error()))
	}
	return &ValidationError{Messages: messages}
}

func compiledSchema(kind Kind) (*jsonschema.Schema, error) {
	compileMu.Lock()
	defer compileMu.Unlock()

	if schema, ok := compiled[kind]; ok {
		return schema, nil
	}

	source := SchemaFor(kind)
	if source == nil {
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
	raw, err := json.Marshal(source)
	if err != nil {
		return nil, fmt.Errorf("encode %s schema: %w", kind, err)
	}
	schema, err := jsonschema.NewCompiler().Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}
	compiled[kind] = schema
	return schema, nil
}
