// pkg/registry/schema.go
package registry

import "encoding/json"

// File is the on-disk registry layout.
type File struct {
	Version     string               `json:"version"`
	LastUpdated string               `json:"lastUpdated"`
	Intents     map[string]EntrySpec `json:"intents"`
}

type EntrySpec struct {
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
	Aliases     AliasTable      `json:"aliases"`
}

// AliasTable describes how a model's field names and values are folded onto
// the schema before validation.
type AliasTable struct {
	// Renames are applied in order, each only when its schema key is absent,
	// so the first alias present wins.
	Renames []Rename `json:"renames,omitempty"`
	// Values maps field -> lowercase synonym -> canonical value.
	Values map[string]map[string]string `json:"values,omitempty"`
	// Contains and Prefixes are ordered; the first matching rule wins.
	Contains map[string][]MatchRule `json:"contains,omitempty"`
	Prefixes map[string][]MatchRule `json:"prefixes,omitempty"`
	Upper    []string               `json:"upper,omitempty"`
	Lower    []string               `json:"lower,omitempty"`
}

// Rename moves a model key onto a schema key.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type MatchRule struct {
	Match string `json:"match"`
	Value string `json:"value"`
}
