// Package view renders the console pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"business-console/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageList      = "list"
	PageDetail    = "detail"
	PageForm      = "form"
	PageDashboard = "dashboard"
	PageNotFound  = "not_found"
	PageFallback  = "fallback"
)

var pages = []string{PageList, PageDetail, PageForm, PageDashboard, PageNotFound, PageFallback}

// Tab is one entry of the navigation bar.
type Tab struct {
	Label  string
	Href   string
	Active bool
}

// Page is the data handed to the layout.
type Page struct {
	Title string
	Path  string
	Nav   []Tab
	Flash []notify.Notification
	Body  interface{}
}

type Options struct {
	Location *time.Location
	Nav      []Tab
}

// Renderer is a gin HTMLRender holding one template set per page, each
// combined with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	nav   []Tab
	loc   *time.Location
}

var _ render.HTMLRender = (*Renderer)(nil)

func New(opts Options) (*Renderer, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	r := &Renderer{
		pages: make(map[string]*template.Template, len(pages)),
		nav:   opts.Nav,
		loc:   opts.Location,
	}

	base, err := template.New("layout.html").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/table.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for _, name := range pages {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := set.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = set
	}
	return r, nil
}

// Instance implements render.HTMLRender. Unknown names render the
// connection fallback page.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages[PageFallback]
	}
	if p, ok := data.(Page); ok {
		p.Nav = r.tabs(p.Path)
		data = p
	}
	return render.HTML{Template: t, Name: "layout.html", Data: data}
}

// Location is the display timezone.
func (r *Renderer) Location() *time.Location {
	return r.loc
}

func (r *Renderer) tabs(path string) []Tab {
	out := make([]Tab, len(r.nav))
	for i, t := range r.nav {
		t.Active = path == t.Href || (t.Href != "/" && strings.HasPrefix(path, t.Href+"/"))
		out[i] = t
	}
	return out
}

// Static serves the embedded script and stylesheet.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Render writes page name with the pending notifications of the browser.
func Render(c *gin.Context, status int, name, title string, body interface{}) {
	c.HTML(status, name, Page{
		Title: title,
		Path:  c.Request.URL.Path,
		Flash: notify.Pending(c),
		Body:  body,
	})
}

// NotFound renders the dedicated not-found page.
func NotFound(c *gin.Context, what string) {
	Render(c, http.StatusNotFound, PageNotFound, "Not found", Message{Text: what})
}

// Fallback renders the connection-problem page.
func Fallback(c *gin.Context, text string) {
	Render(c, http.StatusBadGateway, PageFallback, "Connection problem", Message{Text: text})
}

// Message is the body of the not-found and fallback pages.
type Message struct {
	Text string
}
