// Package query maps URL query parameters to typed list filters and back.
package query

import "strings"

// Kind is the encoding used by a filter field.
type Kind int

const (
	// Text is a free-text search term passed through verbatim.
	Text Kind = iota
	// Tri is a boolean filter encoded as "yes", "no" or absent.
	Tri
	// Enum is one value out of a vocabulary.
	Enum
	// Balance is an operator-prefixed numeric comparison such as "gte_500".
	Balance
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Tri:
		return "tri"
	case Enum:
		return "enum"
	case Balance:
		return "balance"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "text":
		return Text, true
	case "tri":
		return Tri, true
	case "enum":
		return Enum, true
	case "balance":
		return Balance, true
	}
	return Text, false
}

// Field declares one filter parameter of a resource.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Options []string // enum vocabulary; empty accepts any value
	Lower   bool     // enum values are sent lower-cased

	YesLabel string // tri display labels
	NoLabel  string
}

// Spec is the filter surface of one resource.
type Spec struct {
	Fields []Field
	Sorts  []string
}

func (s Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Spec) sortable(name string) bool {
	for _, f := range s.Sorts {
		if f == name {
			return true
		}
	}
	return false
}

// isAll reports the sentinel values that mean "no filter".
func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}
