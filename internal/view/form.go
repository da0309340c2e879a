package view

import (
	"strconv"

	"business-console/internal/common/validation"
)

// Field types understood by the form template.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputPassword = "password"
	InputNumber   = "number"
	InputDate     = "date"
	InputSelect   = "select"
	InputCheckbox = "checkbox"
	InputFile     = "file"
	InputTextarea = "textarea"
	InputHidden   = "hidden"
	InputSearch   = "business-search" // business picker backed by the public API proxy
)

type FormField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Required bool
	Options  []Option
	Error    string
	Hint     string
}

type Form struct {
	Heading   string
	Action    string
	Submit    string
	Cancel    string
	Multipart bool
	Fields    []FormField
	Errors    []string
}

// Field appends an input and returns it for further setup.
func (f *Form) Field(name, label, typ, value string) *FormField {
	f.Fields = append(f.Fields, FormField{Name: name, Label: label, Type: typ, Value: value})
	return &f.Fields[len(f.Fields)-1]
}

// Select fills the options of a select input and marks the current value.
func (ff *FormField) Select(options ...string) *FormField {
	ff.Options = ff.Options[:0]
	for _, o := range options {
		ff.Options = append(ff.Options, Option{Value: o, Label: o, Selected: o == ff.Value})
	}
	return ff
}

// BusinessPicker appends the business search input. The current choice is
// its only server-rendered option; the console script fills in results.
func (f *Form) BusinessPicker(name, label string, id int64, business string) *FormField {
	ff := f.Field(name, label, InputSearch, "")
	if id > 0 {
		ff.Value = strconv.FormatInt(id, 10)
		if business == "" {
			business = "Business #" + ff.Value
		}
		ff.Options = []Option{{Value: ff.Value, Label: business, Selected: true}}
	}
	return ff
}

func (ff *FormField) Require() *FormField {
	ff.Required = true
	return ff
}

// Attach copies validation errors next to the matching inputs. Errors for
// fields the form does not show are listed at the top.
func (f *Form) Attach(result *validation.ValidationResult) {
	if result == nil || result.Valid {
		return
	}
	byField := result.FieldErrors()
	shown := map[string]bool{}
	for i := range f.Fields {
		if msg, ok := byField[f.Fields[i].Name]; ok {
			f.Fields[i].Error = msg
			shown[f.Fields[i].Name] = true
		}
	}
	for _, e := range result.Errors {
		if !shown[e.Field] {
			f.Errors = append(f.Errors, e.Message)
			shown[e.Field] = true
		}
	}
}

// Detail is a label/value sheet for one entity.
type Detail struct {
	Heading  string
	Items    []DetailItem
	Actions  []Action
	Sections []*Table
	Back     string
}

type DetailItem struct {
	Label string
	Value Cell
}

func (d *Detail) Add(label string, value Cell) *Detail {
	d.Items = append(d.Items, DetailItem{Label: label, Value: value})
	return d
}

// Dashboard is the landing page of totals.
type Dashboard struct {
	Cards   []Card
	Warning string
}

type Card struct {
	Label string
	Value int
	Href  string
}
