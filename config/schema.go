package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for presets.yml from the Config
// struct. Extension keys are allowed through.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extensions such as 'logging' live next to the typed keys.
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Preset Editor Configuration"
	schema.Description = "Schema for presets.yml / presets.toml."

	return json.MarshalIndent(schema, "", "  ")
}
