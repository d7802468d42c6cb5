// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed registry.json
var embedded []byte

// EntryError reports a registry entry whose schema does not compile.
type EntryError struct {
	Intent string
	Err    error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("registry entry %s: %v", e.Intent, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Entry is one intent's compiled schema and alias table.
type Entry struct {
	Intent      string
	Description string
	Aliases     AliasTable

	schema     *gojsonschema.Schema
	properties map[string]bool
	defaults   map[string]interface{}
}

// Schema returns the compiled JSON schema.
func (e *Entry) Schema() *gojsonschema.Schema { return e.schema }

// HasProperty reports whether key is a top-level schema property.
func (e *Entry) HasProperty(key string) bool { return e.properties[key] }

// Defaults returns the top-level property defaults. Callers must not modify it.
func (e *Entry) Defaults() map[string]interface{} { return e.defaults }

type Registry struct {
	Version string
	entries map[string]*Entry
}

// Lookup returns the entry for intent. Intents without a schema are absent.
func (r *Registry) Lookup(intent string) (*Entry, bool) {
	e, ok := r.entries[intent]
	return e, ok
}

func (r *Registry) Intents() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default compiles the registry built into the binary.
func Default() (*Registry, error) {
	return Parse(embedded)
}

// Load compiles the registry at path, or the built-in one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadRegistry reads the raw file without compiling it.
func LoadRegistry(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	err = json.Unmarshal(data, &f)
	return &f, err
}

func Parse(data []byte) (*Registry, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	reg := &Registry{Version: f.Version, entries: make(map[string]*Entry, len(f.Intents))}
	for intent, spec := range f.Intents {
		entry, err := compile(intent, spec)
		if err != nil {
			return nil, &EntryError{Intent: intent, Err: err}
		}
		reg.entries[intent] = entry
	}
	return reg, nil
}

func compile(intent string, spec EntrySpec) (*Entry, error) {
	if len(spec.Schema) == 0 {
		return nil, fmt.Errorf("schema is empty")
	}

	var raw struct {
		Type       string                            `json:"type"`
		Properties map[string]map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(spec.Schema, &raw); err != nil {
		return nil, err
	}
	if raw.Type != "object" || len(raw.Properties) == 0 {
		return nil, fmt.Errorf("schema must be an object with properties")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(spec.Schema))
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Intent:      intent,
		Description: spec.Description,
		Aliases:     spec.Aliases,
		schema:      schema,
		properties:  make(map[string]bool, len(raw.Properties)),
		defaults:    make(map[string]interface{}),
	}
	for name, prop := range raw.Properties {
		entry.properties[name] = true
		if def, ok := prop["default"]; ok {
			entry.defaults[name] = def
		}
	}
	for _, r := range spec.Aliases.Renames {
		if !entry.properties[r.To] {
			return nil, fmt.Errorf("alias %s renames to unknown property %s", r.From, r.To)
		}
	}
	return entry, nil
}
