package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Page is one page of a collection as returned by the backend list
// envelope {<entity_plural>: [...], currentPage, limit, pages, total}.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	Pages       int `json:"pages"`
	Total       int `json:"total"`
}

// EmptyPage is the page shown when the backend rejected a list request.
func EmptyPage[T any](page, limit int) *Page[T] {
	return &Page[T]{Items: []T{}, CurrentPage: page, Limit: limit}
}

// DecodePage reads a list envelope whose items live under key.
func DecodePage[T any](raw []byte, key string) (*Page[T], error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	page := &Page[T]{Items: []T{}}
	if items, ok := fields[key]; ok && string(items) != "null" {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"currentPage", &page.CurrentPage},
		{"limit", &page.Limit},
		{"pages", &page.Pages},
		{"total", &page.Total},
	}
	for _, f := range ints {
		v, err := intField(fields[f.name])
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
		*f.target = v
	}
	return page, nil
}

// intField accepts a JSON number or a numeric string; absent means zero.
func intField(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", string(raw))
	}
	return int(f), nil
}

// Count reads only the total of a list envelope.
func Count(raw []byte) (int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, fmt.Errorf("decode envelope: %w", err)
	}
	return intField(fields["total"])
}
