package config

import (
	"github.com/invopop/jsonschema"
)

// Schema describes the config file as a JSON schema keyed by the YAML field names.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "notify-template configuration"
	schema.Description = "Optional settings for rendering webhook message templates."

	// Every field is optional
	schema.Required = nil

	return schema
}
