package schema

// SchemaRegistry manages JSON schemas for document kinds.
type SchemaRegistry interface {
	// Register adds a schema for a kind (e.g. "bundle").
	// model can be a struct (to generate schema) or a JSON schema string/map.
	Register(kind string, model interface{}) error

	// GetSchema returns the JSON schema for a kind.
	GetSchema(kind string) (string, bool)

	// Validate checks raw JSON against the schema registered for kind.
	Validate(kind string, data []byte) error

	// List returns all registered kinds, sorted.
	List() []string
}
