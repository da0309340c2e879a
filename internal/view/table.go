package view

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/query"
)

// EmptyText fills the single row of a table without data.
const EmptyText = "No data found"

type Column struct {
	Key      string
	Label    string
	SortHref string // empty when the column cannot be sorted
	Sorted   string // current order when the list is sorted by this column
}

// Cell is one table or detail value. Actions replace the text when set.
type Cell struct {
	Text      string
	Href      string
	Timestamp string
	Badge     string
	Review    bool
	Actions   []Action
}

// Action is a link, or with Post set a button submitting Fields.
type Action struct {
	Label   string
	Href    string
	Post    bool
	Fields  map[string]string
	Confirm string
	Style   string
}

type Row struct {
	Cells []Cell
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FilterInput is one control of the filter bar.
type FilterInput struct {
	Name    string
	Label   string
	Kind    string // text, select or balance
	Value   string
	Options []Option
	Op      string
	Amount  string
}

type PageLink struct {
	Label   string
	Href    string
	Current bool
}

type Table struct {
	Heading string
	Base    string
	Columns []Column
	Rows    []Row
	Filters []FilterInput
	Pages   []PageLink
	Total   int
	Actions []Action
	Warning string

	spec    query.Spec
	filters query.Filters
}

// NewTable starts a list rendered at base with the current filters.
func NewTable(heading, base string, spec query.Spec, f query.Filters) *Table {
	t := &Table{Heading: heading, Base: base, spec: spec, filters: f}
	for _, field := range spec.Fields {
		t.Filters = append(t.Filters, filterInput(field, f))
	}
	return t
}

// AddColumn appends a column; it gets a sort link when the list can be
// ordered by key.
func (t *Table) AddColumn(key, label string) *Table {
	col := Column{Key: key, Label: label}
	if t.sortable(key) {
		order := "asc"
		if t.filters.OrderBy == key {
			col.Sorted = orDefault(t.filters.Order, "asc")
			if col.Sorted == "asc" {
				order = "desc"
			}
		}
		next := t.filters
		next.OrderBy, next.Order, next.Page = key, order, 0
		col.SortHref = t.href(query.Encode(next).Encode())
	}
	t.Columns = append(t.Columns, col)
	return t
}

func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, Row{Cells: cells})
}

// Paginate adds the page links for a loaded page.
func (t *Table) Paginate(current, pages, total int) {
	t.Total = total
	p := listing.Pagination(current, pages)
	if p.Pages <= 1 {
		return
	}
	if p.Prev > 0 {
		t.Pages = append(t.Pages, PageLink{Label: "Previous", Href: t.pageHref(p.Prev)})
	}
	for _, n := range p.Numbers {
		t.Pages = append(t.Pages, PageLink{Label: strconv.Itoa(n), Href: t.pageHref(n), Current: n == p.Current})
	}
	if p.Next > 0 {
		t.Pages = append(t.Pages, PageLink{Label: "Next", Href: t.pageHref(p.Next)})
	}
}

func (t *Table) pageHref(n int) string {
	q, err := query.Apply(t.filters, t.spec, query.KeyPage, strconv.Itoa(n))
	if err != nil {
		return t.Base
	}
	return t.href(q.Encode())
}

func (t *Table) href(rawQuery string) string {
	if rawQuery == "" {
		return t.Base
	}
	return t.Base + "?" + rawQuery
}

func (t *Table) sortable(key string) bool {
	for _, s := range t.spec.Sorts {
		if s == key {
			return true
		}
	}
	return false
}

func filterInput(field query.Field, f query.Filters) FilterInput {
	in := FilterInput{Name: field.Name, Label: orDefault(field.Label, field.Name), Value: f.Value(field.Name)}

	switch field.Kind {
	case query.Tri:
		in.Kind = "select"
		in.Options = []Option{
			{Value: "", Label: "All"},
			{Value: "yes", Label: orDefault(field.YesLabel, "Yes")},
			{Value: "no", Label: orDefault(field.NoLabel, "No")},
		}
	case query.Enum:
		in.Kind = "select"
		in.Options = []Option{{Value: "", Label: "All"}}
		for _, opt := range field.Options {
			if opt == "" || opt == "All" || opt == "all" {
				continue
			}
			value := opt
			if field.Lower {
				value = strings.ToLower(opt)
			}
			in.Options = append(in.Options, Option{Value: value, Label: opt})
		}
	case query.Balance:
		in.Kind = "balance"
		in.Options = []Option{{Value: "", Label: "Any"}}
		for _, op := range query.Ops {
			in.Options = append(in.Options, Option{Value: string(op), Label: op.Symbol()})
		}
		if c, ok := f.Balance[field.Name]; ok {
			in.Op, in.Amount = string(c.Op), c.Value.String()
		}
		for i := range in.Options {
			in.Options[i].Selected = in.Options[i].Value == in.Op
		}
		return in
	default:
		in.Kind = "text"
		return in
	}

	for i := range in.Options {
		in.Options[i].Selected = in.Options[i].Value == in.Value
	}
	return in
}

// Cell constructors.

func Text(s string) Cell {
	return Cell{Text: s}
}

func Link(s, href string) Cell {
	return Cell{Text: s, Href: href}
}

func Time(ts string) Cell {
	return Cell{Timestamp: ts}
}

func ID(id int64) Cell {
	return Cell{Text: strconv.FormatInt(id, 10)}
}

func Money(d decimal.Decimal) Cell {
	return Cell{Text: d.String()}
}

// Reviewed shows a placeholder value with the needs-review badge.
func Reviewed(r models.Reviewable[string]) Cell {
	return Cell{Text: r.Value, Review: r.NeedsReview}
}

// Badge renders a boolean as one of two labels.
func Badge(on bool, yes, no string) Cell {
	if on {
		return Cell{Text: yes, Badge: "badge-on"}
	}
	return Cell{Text: no, Badge: "badge-off"}
}

// Toggle is a cell holding a post button.
func Toggle(label, href, field, value string) Cell {
	return Actions(PostAction(label, href, map[string]string{field: value}))
}

// Actions is a cell of buttons and links.
func Actions(actions ...Action) Cell {
	return Cell{Actions: actions}
}

func LinkAction(label, href string) Action {
	return Action{Label: label, Href: href}
}

func PostAction(label, href string, fields map[string]string) Action {
	return Action{Label: label, Href: href, Post: true, Fields: fields}
}

func Ref(r *models.Ref, href string) Cell {
	if r == nil {
		return Cell{}
	}
	if href == "" {
		return Text(r.Name)
	}
	return Link(r.Name, href)
}

// Switch is a post button labelled with the current state; fields carry
// the flipped value.
func Switch(label, href string, on bool, fields map[string]string) Cell {
	a := PostAction(label, href, fields)
	a.Style = "badge-off"
	if on {
		a.Style = "badge-on"
	}
	return Actions(a)
}
