package view

import (
	"html/template"
	"strings"
	"time"

	"business-console/internal/models"
	"business-console/internal/notify"
)

// HumanLayout is the display form of every timestamp.
const HumanLayout = "January 02, 2006, 3:04 PM"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToHuman formats a backend timestamp in loc. Values that do not parse are
// returned unchanged.
func ToHuman(ts string, loc *time.Location) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, ts)
		if err == nil {
			return t.In(loc).Format(HumanLayout)
		}
	}
	return ts
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"human":       func(ts string) string { return ToHuman(ts, r.loc) },
		"needsReview": models.NeedsReview,
		"stripReview": models.StripReview,
		"levelClass":  levelClass,
		"colspan":     func(cols []Column) int { return max(len(cols), 1) },
	}
}

func levelClass(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return "toast-success"
	case notify.LevelWarning:
		return "toast-warning"
	case notify.LevelError:
		return "toast-error"
	}
	return "toast-info"
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
