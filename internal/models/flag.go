package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a boolean as the backend sends it: true/false, 1/0, or a string
// form of either. It always encodes as a JSON boolean.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = false
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = s
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		*f = true
	case "false", "0", "no", "":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", string(data))
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Bool returns f as a plain bool.
func (f Flag) Bool() bool {
	return bool(f)
}

// Text is a string identifier that the backend may also send as a number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid text value %s", raw)
	}
	*t = Text(n.String())
	return nil
}
