// Package schema generates and enforces JSON schemas for bundle documents.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pentasign/pentasign-sdk/signing/dto"
)

// Built-in kinds.
const (
	KindBundle             = "bundle"
	KindVerificationReport = "verification-report"
)

// ErrUnknownKind is returned for kinds that were never registered.
var ErrUnknownKind = errors.New("unknown schema kind")

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Kind   string
	Causes []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s does not match schema: %s", e.Kind, strings.Join(e.Causes, "; "))
}

// Registry implements SchemaRegistry using in-memory storage.
// Compiled validators are cached per kind.
type Registry struct {
	schemas   map[string]string
	compiled  map[string]*validator.Schema
	reflector *jsonschema.Reflector
	mu        sync.RWMutex
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithAdditionalProperties lets generated schemas accept unknown fields.
func WithAdditionalProperties(allow bool) RegistryOption {
	return func(r *Registry) {
		r.reflector.AllowAdditionalProperties = allow
	}
}

// NewRegistry creates an empty schema registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		schemas:   make(map[string]string),
		compiled:  make(map[string]*validator.Schema),
		reflector: new(jsonschema.Reflector),
	}
	r.reflector.ExpandedStruct = true

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewDefaultRegistry creates a registry with the bundle and
// verification-report kinds registered.
func NewDefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := r.Register(KindBundle, &dto.BundleDTO{}); err != nil {
		return nil, err
	}
	if err := r.Register(KindVerificationReport, &dto.VerificationReportDTO{}); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a schema for a kind.
// model can be a Go struct (to generate schema) or a raw JSON schema string/map/bytes.
func (r *Registry) Register(kind string, model interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("schema kind already registered: %s", kind)
	}

	schemaStr, err := r.render(model)
	if err != nil {
		return fmt.Errorf("kind %s: %w", kind, err)
	}

	compiled, err := compile(kind, schemaStr)
	if err != nil {
		return fmt.Errorf("kind %s: %w", kind, err)
	}

	r.schemas[kind] = schemaStr
	r.compiled[kind] = compiled
	return nil
}

func (r *Registry) render(model interface{}) (string, error) {
	switch v := model.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal schema map: %w", err)
		}
		return string(b), nil
	}

	t := reflect.TypeOf(model)
	if t == nil || (t.Kind() != reflect.Struct && (t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct)) {
		return "", fmt.Errorf("cannot generate schema from %T", model)
	}

	s := r.reflector.Reflect(model)
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return string(b), nil
}

func compile(kind, schemaStr string) (*validator.Schema, error) {
	url := "pentasign://schemas/" + kind + ".json"

	c := validator.NewCompiler()
	c.Draft = validator.Draft2020
	if err := c.AddResource(url, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// GetSchema retrieves the JSON Schema for a kind.
func (r *Registry) GetSchema(kind string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[kind]
	return s, ok
}

// Validate checks raw JSON against the schema registered for kind.
func (r *Registry) Validate(kind string, data []byte) error {
	r.mu.RLock()
	s, ok := r.compiled[kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Kind: kind, Causes: []string{"not valid JSON: " + err.Error()}}
	}

	if err := s.Validate(doc); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Kind: kind, Causes: flatten(verr)}
		}
		return err
	}
	return nil
}

// flatten collects the leaf messages of a validation error tree.
func flatten(err *validator.ValidationError) []string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + err.Message}
	}
	var out []string
	for _, c := range err.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}

// List returns all registered kinds, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
