package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	apperrors "business-console/internal/common/errors"
)

// Reserved query keys shared by every list.
const (
	KeyPage    = "page"
	KeyLimit   = "limit"
	KeyOrderBy = "orderBy"
	KeyOrder   = "order"
)

// Filters is the decoded state of a list URL. Empty maps are kept nil so
// two decodes of the same URL compare equal.
type Filters struct {
	Text    map[string]string
	Tri     map[string]bool
	Enum    map[string]string
	Balance map[string]Comparison
	OrderBy string
	Order   string
	Page    int
	Limit   int
}

// Decode reads the filters for spec out of q. Values that do not fit their
// field are dropped and reported together in an INVALID_FILTER_FORMAT error;
// the returned Filters is usable either way.
func Decode(q url.Values, spec Spec) (Filters, error) {
	var f Filters
	var problems []error

	for _, field := range spec.Fields {
		raw := strings.TrimSpace(q.Get(field.Name))
		if isAll(raw) {
			continue
		}
		if err := f.set(field, raw); err != nil {
			problems = append(problems, err)
		}
	}

	if v := strings.TrimSpace(q.Get(KeyOrderBy)); v != "" {
		if spec.sortable(v) {
			f.OrderBy = v
		} else {
			problems = append(problems, fmt.Errorf("cannot sort by %q", v))
		}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get(KeyOrder))); v != "" {
		if v == "asc" || v == "desc" {
			f.Order = v
		} else {
			problems = append(problems, fmt.Errorf("order must be asc or desc, got %q", v))
		}
	}

	var err error
	if f.Page, err = positive(q, KeyPage); err != nil {
		problems = append(problems, err)
	}
	if f.Limit, err = positive(q, KeyLimit); err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		return f, apperrors.NewInvalidFilterFormatError(errors.Join(problems...).Error())
	}
	return f, nil
}

// Encode is the inverse of Decode. Absent and zero-valued entries are
// omitted so the URL only carries active filters.
func Encode(f Filters) url.Values {
	q := url.Values{}
	for k, v := range f.Text {
		if v != "" {
			q.Set(k, v)
		}
	}
	for k, v := range f.Tri {
		q.Set(k, triString(v))
	}
	for k, v := range f.Enum {
		if !isAll(v) {
			q.Set(k, v)
		}
	}
	for k, v := range f.Balance {
		q.Set(k, v.String())
	}
	if f.OrderBy != "" {
		q.Set(KeyOrderBy, f.OrderBy)
	}
	if f.Order != "" {
		q.Set(KeyOrder, f.Order)
	}
	if f.Page > 0 {
		q.Set(KeyPage, strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set(KeyLimit, strconv.Itoa(f.Limit))
	}
	return q
}

// Apply returns the query for f with key set to value. An empty value or the
// "All" sentinel clears the key. Changing anything other than the page resets
// pagination to the first page.
func Apply(f Filters, spec Spec, key, value string) (url.Values, error) {
	next := f.clone()
	value = strings.TrimSpace(value)

	switch key {
	case KeyPage:
		n, err := parsePositive(key, value)
		if err != nil {
			return nil, apperrors.NewInvalidFilterFormatError(err.Error())
		}
		next.Page = n
		return Encode(next), nil
	case KeyLimit:
		n, err := parsePositive(key, value)
		if err != nil {
			return nil, apperrors.NewInvalidFilterFormatError(err.Error())
		}
		next.Limit = n
	case KeyOrderBy:
		if value != "" && !spec.sortable(value) {
			return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("cannot sort by %q", value))
		}
		next.OrderBy = value
	case KeyOrder:
		value = strings.ToLower(value)
		if value != "" && value != "asc" && value != "desc" {
			return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("order must be asc or desc, got %q", value))
		}
		next.Order = value
	default:
		field, ok := spec.Field(key)
		if !ok {
			return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("unknown filter %q", key))
		}
		next.clear(field)
		if !isAll(value) {
			if err := next.set(field, value); err != nil {
				return nil, apperrors.NewInvalidFilterFormatError(err.Error())
			}
		}
	}

	next.Page = 0
	return Encode(next), nil
}

// Equal compares two filter states, treating balances numerically.
func (f Filters) Equal(o Filters) bool {
	if f.OrderBy != o.OrderBy || f.Order != o.Order || f.Page != o.Page || f.Limit != o.Limit {
		return false
	}
	if !equalMaps(f.Text, o.Text) || !equalMaps(f.Enum, o.Enum) || len(f.Tri) != len(o.Tri) || len(f.Balance) != len(o.Balance) {
		return false
	}
	for k, v := range f.Tri {
		if w, ok := o.Tri[k]; !ok || w != v {
			return false
		}
	}
	for k, v := range f.Balance {
		if w, ok := o.Balance[k]; !ok || !w.Equal(v) {
			return false
		}
	}
	return true
}

// Value returns the query-form value of a field, or "" when it is unset.
func (f Filters) Value(name string) string {
	if v, ok := f.Text[name]; ok {
		return v
	}
	if v, ok := f.Tri[name]; ok {
		return triString(v)
	}
	if v, ok := f.Enum[name]; ok {
		return v
	}
	if v, ok := f.Balance[name]; ok {
		return v.String()
	}
	return ""
}

// Active lists the names of the set filter fields in sorted order.
func (f Filters) Active() []string {
	var names []string
	for k := range f.Text {
		names = append(names, k)
	}
	for k := range f.Tri {
		names = append(names, k)
	}
	for k := range f.Enum {
		names = append(names, k)
	}
	for k := range f.Balance {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (f *Filters) set(field Field, raw string) error {
	switch field.Kind {
	case Text:
		if f.Text == nil {
			f.Text = map[string]string{}
		}
		f.Text[field.Name] = raw
	case Tri:
		var v bool
		switch strings.ToLower(raw) {
		case "yes":
			v = true
		case "no":
			v = false
		default:
			return fmt.Errorf("%s must be yes or no, got %q", field.Name, raw)
		}
		if f.Tri == nil {
			f.Tri = map[string]bool{}
		}
		f.Tri[field.Name] = v
	case Enum:
		v, ok := matchOption(field, raw)
		if !ok {
			return fmt.Errorf("%s does not accept %q", field.Name, raw)
		}
		if f.Enum == nil {
			f.Enum = map[string]string{}
		}
		f.Enum[field.Name] = v
	case Balance:
		c, err := ParseComparison(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", field.Name, err)
		}
		if f.Balance == nil {
			f.Balance = map[string]Comparison{}
		}
		f.Balance[field.Name] = c
	}
	return nil
}

func (f *Filters) clear(field Field) {
	delete(f.Text, field.Name)
	delete(f.Tri, field.Name)
	delete(f.Enum, field.Name)
	delete(f.Balance, field.Name)
	if len(f.Text) == 0 {
		f.Text = nil
	}
	if len(f.Tri) == 0 {
		f.Tri = nil
	}
	if len(f.Enum) == 0 {
		f.Enum = nil
	}
	if len(f.Balance) == 0 {
		f.Balance = nil
	}
}

func (f Filters) clone() Filters {
	out := f
	out.Text = copyMap(f.Text)
	out.Tri = copyMap(f.Tri)
	out.Enum = copyMap(f.Enum)
	out.Balance = copyMap(f.Balance)
	return out
}

func matchOption(field Field, raw string) (string, bool) {
	v := raw
	if field.Lower {
		v = strings.ToLower(v)
	}
	if len(field.Options) == 0 {
		return v, true
	}
	for _, opt := range field.Options {
		if strings.EqualFold(opt, raw) && !isAll(opt) {
			return v, true
		}
	}
	return "", false
}

func positive(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	return parsePositive(key, raw)
}

func parsePositive(key, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func triString(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func copyMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func equalMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
