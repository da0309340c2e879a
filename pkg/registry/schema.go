// pkg/registry/schema.go
package registry

import "github.com/xeipuuv/gojsonschema"

type ResourceRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Resources   []Resource `json:"resources"`
}

// Resource describes one backend collection the console manages.
type Resource struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Service      string                 `json:"service"`
	Path         string                 `json:"path"`
	EnvelopeKey  string                 `json:"envelopeKey"`
	DefaultLimit int                    `json:"defaultLimit"`
	Filters      []Filter               `json:"filters"`
	Sorts        []string               `json:"sorts"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	Tags         []string               `json:"tags"`

	schema *gojsonschema.Schema
}

// Filter is one list filter. Vocabulary names a configured word list
// (statuses, roles, genders, service_types) used as enum options.
type Filter struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	Vocabulary string   `json:"vocabulary,omitempty"`
	Options    []string `json:"options,omitempty"`
	Lower      bool     `json:"lower,omitempty"`
	YesLabel   string   `json:"yesLabel,omitempty"`
	NoLabel    string   `json:"noLabel,omitempty"`
}
