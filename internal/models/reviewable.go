package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReviewSuffix marks an auto-generated value that an operator still has to
// correct. It is part of the backend wire format.
const ReviewSuffix = "||change"

// Reviewable is a value that may be a placeholder pending manual review.
// On the wire a pending value is the string "<value>||change".
type Reviewable[T any] struct {
	Value       T
	NeedsReview bool
}

// Placeholder returns a value flagged for review.
func Placeholder[T any](v T) Reviewable[T] {
	return Reviewable[T]{Value: v, NeedsReview: true}
}

// Confirmed returns a value that needs no review.
func Confirmed[T any](v T) Reviewable[T] {
	return Reviewable[T]{Value: v}
}

func (r Reviewable[T]) String() string {
	return fmt.Sprint(r.Value)
}

func (r Reviewable[T]) MarshalJSON() ([]byte, error) {
	if !r.NeedsReview {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.String() + ReviewSuffix)
}

func (r *Reviewable[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		r.NeedsReview = false
		return json.Unmarshal(data, &r.Value)
	}

	value, pending := strings.CutSuffix(s, ReviewSuffix)
	r.NeedsReview = pending
	if pending {
		value = strings.TrimSpace(value)
	}

	if p, ok := any(&r.Value).(*string); ok {
		*p = value
		return nil
	}
	return json.Unmarshal([]byte(value), &r.Value)
}

// NeedsReview reports whether a raw string carries the review suffix.
func NeedsReview(s string) bool {
	return strings.HasSuffix(s, ReviewSuffix)
}

// StripReview removes the review suffix from a raw string.
func StripReview(s string) string {
	if v, ok := strings.CutSuffix(s, ReviewSuffix); ok {
		return strings.TrimSpace(v)
	}
	return s
}
