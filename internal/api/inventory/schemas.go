package inventory

// Schema is a JSON Schema document. Each constructor returns a fresh value.
type Schema map[string]any

// Kind names one of the entity schemas.
type Kind string

const (
	KindEvent Kind = "event"
	KindUser  Kind = "user"
	KindOrg   Kind = "org"
)

// SchemaFor returns a fresh copy of the schema for kind.
func SchemaFor(kind Kind) Schema {
	switch kind {
	case KindEvent:
		return EventSchema()
	case KindUser:
		return UserSchema()
	case KindOrg:
		return OrgSchema()
	default:
		return nil
	}
}

func EventSchema() Schema {
	return Schema{
		"type":     "object",
		"required": []string{"name", "time", "description", "organization"},
		"properties": map[string]any{
			"name": map[string]any{
				"description": "name of the event",
				"type":        "string",
				"maxLength":   128,
			},
			"time": map[string]any{
				"description": "time of the event",
				"type":        "string",
				"maxLength":   128,
			},
			"description": map[string]any{
				"description": "description of the event",
				"type":        "string",
				"maxLength":   255,
			},
			"location": map[string]any{
				"description": "location of the event",
				"type":        []string{"string", "null"},
				"maxLength":   128,
			},
			"organization": map[string]any{
				"description": "organization that hosts the event",
				"type":        []string{"integer", "null"},
			},
		},
	}
}

func UserSchema() Schema {
	return Schema{
		"type":     "object",
		"required": []string{"name", "email", "password", "notifications"},
		"properties": map[string]any{
			"name": map[string]any{
				"description": "name of the user",
				"type":        "string",
				"maxLength":   128,
			},
			"email": map[string]any{
				"description": "email of the user",
				"type":        "string",
				"maxLength":   128,
			},
			"password": map[string]any{
				"description": "password of the user",
				"type":        "string",
			},
			"location": map[string]any{
				"description": "location of the user",
				"type":        []string{"string", "null"},
				"maxLength":   128,
			},
			"notifications": map[string]any{
				"description": "whether or not the user receives notifications",
				"type":        "integer",
				"enum":        []int{0, 1},
			},
		},
	}
}

func OrgSchema() Schema {
	return Schema{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name": map[string]any{
				"description": "name of the organization",
				"type":        "string",
				"maxLength":   128,
			},
		},
	}
}
