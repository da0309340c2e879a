// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"business-console/internal/common/errors"
	"business-console/internal/query"
)

var services = map[string]bool{"primary": true, "applicant": true}

// Vocabulary resolves a configured word list by name.
type Vocabulary interface {
	Lookup(name string) []string
}

func LoadRegistry(path string) (*ResourceRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*ResourceRegistry, error) {
	var reg ResourceRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Resource returns the resource with the given id.
func (r *ResourceRegistry) Resource(id string) (*Resource, bool) {
	for i := range r.Resources {
		if r.Resources[i].ID == id {
			return &r.Resources[i], true
		}
	}
	return nil, false
}

// Validate checks every resource and compiles its input schema.
func (r *ResourceRegistry) Validate() error {
	var problems []string
	seen := map[string]bool{}

	for i := range r.Resources {
		res := &r.Resources[i]
		prefix := fmt.Sprintf("resources[%d]", i)
		if res.ID != "" {
			prefix = res.ID
		}

		switch {
		case res.ID == "":
			problems = append(problems, prefix+": id is required")
		case seen[res.ID]:
			problems = append(problems, prefix+": duplicate id")
		}
		seen[res.ID] = true

		if res.DisplayName == "" {
			problems = append(problems, prefix+": displayName is required")
		}
		if !services[res.Service] {
			problems = append(problems, fmt.Sprintf("%s: service must be primary or applicant, got %q", prefix, res.Service))
		}
		if !strings.HasPrefix(res.Path, "/") {
			problems = append(problems, prefix+": path must start with /")
		}
		if res.EnvelopeKey == "" {
			problems = append(problems, prefix+": envelopeKey is required")
		}
		if res.DefaultLimit < 0 {
			problems = append(problems, prefix+": defaultLimit must not be negative")
		}
		for _, f := range res.Filters {
			if f.Name == "" {
				problems = append(problems, prefix+": filter name is required")
			}
			if _, ok := query.ParseKind(f.Kind); !ok {
				problems = append(problems, fmt.Sprintf("%s: filter %s has unknown kind %q", prefix, f.Name, f.Kind))
			}
		}

		res.schema = nil
		if len(res.InputSchema) > 0 {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(res.InputSchema))
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid inputSchema: %v", prefix, err))
			} else {
				res.schema = schema
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid registry: %s", strings.Join(problems, "; "))
	}
	return nil
}

// QuerySpec builds the list filter surface, resolving vocabularies.
func (res *Resource) QuerySpec(vocab Vocabulary) query.Spec {
	spec := query.Spec{Sorts: append([]string(nil), res.Sorts...)}
	for _, f := range res.Filters {
		kind, _ := query.ParseKind(f.Kind)
		field := query.Field{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     kind,
			Options:  append([]string(nil), f.Options...),
			Lower:    f.Lower,
			YesLabel: f.YesLabel,
			NoLabel:  f.NoLabel,
		}
		if f.Vocabulary != "" && vocab != nil {
			field.Options = vocab.Lookup(f.Vocabulary)
		}
		if field.Label == "" {
			field.Label = f.Name
		}
		spec.Fields = append(spec.Fields, field)
	}
	return spec
}

// ValidatePayload checks a create or update body against the input schema.
func (res *Resource) ValidatePayload(doc map[string]interface{}) error {
	if res.schema == nil {
		if len(res.InputSchema) == 0 {
			return nil
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(res.InputSchema))
		if err != nil {
			return errors.NewInternalError(fmt.Errorf("compile %s schema: %w", res.ID, err))
		}
		res.schema = schema
	}

	result, err := res.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("validate %s payload: %w", res.ID, err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		msgs[i] = desc.String()
	}
	return errors.NewValidationFailedError(msgs)
}
