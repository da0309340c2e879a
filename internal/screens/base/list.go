package base

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"business-console/internal/common/errors"
	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/query"
	"business-console/internal/view"
)

type Column struct {
	Key   string
	Label string
}

// List is one collection screen: the controller that loads it and how its
// rows render.
type List[T any] struct {
	Title      string
	Heading    string
	Controller *listing.Controller[T]
	Spec       query.Spec
	Columns    []Column
	Row        func(T) []view.Cell
	Actions    []view.Action
}

// Render loads the page selected by the request query from path (the
// controller's own collection when empty) and writes the table.
func (l List[T]) Render(c *gin.Context, d *Deps, path string) {
	f, decodeErr := query.Decode(c.Request.URL.Query(), l.Spec)

	var page *models.Page[T]
	var err error
	if path == "" {
		page, err = l.Controller.Load(c.Request.Context(), f, f.Page, f.Limit)
	} else {
		page, err = l.Controller.LoadFrom(c.Request.Context(), path, f, f.Page, f.Limit)
	}
	if err != nil {
		d.LoadFailed(c, err, l.Title)
		return
	}

	t := view.NewTable(l.Heading, c.Request.URL.Path, l.Spec, f)
	if decodeErr != nil {
		d.Errors().Handle(decodeErr, map[string]interface{}{"resource": l.Controller.Resource()})
		t.Warning = FilterWarning(decodeErr)
	}
	for _, col := range l.Columns {
		t.AddColumn(col.Key, col.Label)
	}
	for _, item := range page.Items {
		t.AddRow(l.Row(item)...)
	}
	t.Actions = l.Actions
	t.Paginate(page.CurrentPage, page.Pages, page.Total)

	view.Render(c, http.StatusOK, view.PageList, l.Title, t)
}

// StatusLabel is the Active/Inactive badge used by every status column.
func StatusLabel(active models.Flag) view.Cell {
	return view.Badge(active.Bool(), "Active", "Inactive")
}

// FilterWarning formats a decode error for a table banner.
func FilterWarning(err error) string {
	if std, ok := errors.AsStandard(err); ok && std.Details != "" {
		return std.Message + ": " + std.Details
	}
	return errors.UserMessage(err)
}
