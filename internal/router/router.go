// Package router assembles the console engine: middleware, the embedded
// views, the public API proxy and every enabled screen.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"business-console/internal/busy"
	"business-console/internal/common/logger"
	"business-console/internal/common/observability"
	"business-console/internal/notify"
	"business-console/internal/proxy"
	"business-console/internal/screens/applicants"
	"business-console/internal/screens/base"
	"business-console/internal/screens/businessadmins"
	"business-console/internal/screens/businesscashflows"
	"business-console/internal/screens/businesses"
	"business-console/internal/screens/businessusers"
	"business-console/internal/screens/dashboard"
	"business-console/internal/screens/userscashflows"
	"business-console/internal/view"
)

// Screen is a mountable group of pages.
type Screen interface {
	Enabled() bool
	Register(r gin.IRouter)
}

type Options struct {
	ServiceName string
	Deps        *base.Deps
	Busy        *busy.Indicator
	Store       notify.Store
	Meter       metric.Meter
	Logger      logger.Logger
}

type entry struct {
	label string
	href  string
	build func(d *base.Deps) (Screen, error)
}

func mount[H Screen](h H, err error) (Screen, error) {
	if err != nil {
		return nil, err
	}
	return h, nil
}

// screens in navigation order.
var screens = []entry{
	{"Dashboard", "/", func(d *base.Deps) (Screen, error) {
		return mount(dashboard.NewHandler(dashboard.HandlerOptions{Deps: d}))
	}},
	{"Applicants", "/applicants", func(d *base.Deps) (Screen, error) {
		return mount(applicants.NewHandler(applicants.HandlerOptions{Deps: d}))
	}},
	{"Businesses", "/businesses", func(d *base.Deps) (Screen, error) {
		return mount(businesses.NewHandler(businesses.HandlerOptions{Deps: d}))
	}},
	{"Business Admins", "/business-admins", func(d *base.Deps) (Screen, error) {
		return mount(businessadmins.NewHandler(businessadmins.HandlerOptions{Deps: d}))
	}},
	{"Business Users", "/business-users", func(d *base.Deps) (Screen, error) {
		return mount(businessusers.NewHandler(businessusers.HandlerOptions{Deps: d}))
	}},
	{"Business Cashflows", "/business-cashflows", func(d *base.Deps) (Screen, error) {
		return mount(businesscashflows.NewHandler(businesscashflows.HandlerOptions{Deps: d}))
	}},
	{"Users Cashflows", "/users-cashflows", func(d *base.Deps) (Screen, error) {
		return mount(userscashflows.NewHandler(userscashflows.HandlerOptions{Deps: d}))
	}},
}

// SetupRouter builds the engine. Disabled screens get neither routes nor a
// navigation tab.
func SetupRouter(opts Options) (*gin.Engine, error) {
	if opts.Deps == nil {
		return nil, fmt.Errorf("deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, err
	}
	cfg := opts.Deps.Config
	log := opts.Logger
	if log == nil {
		log = opts.Deps.Logger
	}
	if opts.Busy == nil {
		opts.Busy = busy.New(nil)
	}
	if opts.Store == nil {
		opts.Store = notify.NewMemoryStore(0)
	}
	if opts.ServiceName == "" {
		opts.ServiceName = cfg.App.Name
	}
	if opts.Meter == nil {
		opts.Meter = otel.Meter(opts.ServiceName)
	}

	var (
		mounted []Screen
		nav     []view.Tab
	)
	for _, e := range screens {
		s, err := e.build(opts.Deps)
		if err != nil {
			return nil, err
		}
		if !s.Enabled() {
			log.Info("screen disabled", map[string]interface{}{"screen": e.href})
			continue
		}
		mounted = append(mounted, s)
		nav = append(nav, view.Tab{Label: e.label, Href: e.href})
	}

	renderer, err := view.New(view.Options{Location: cfg.Display.Location(), Nav: nav})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	api, err := proxy.New([]proxy.Route{
		{Prefix: "/api/v1", BaseURL: cfg.Backend.PrimaryURL},
		{Prefix: "/api/v1-baa", BaseURL: cfg.Backend.ApplicantURL},
	}, cfg.Backend.Headers, log)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(logger.GinMiddleware(log))
	r.Use(observability.NewMetricMiddleware(opts.Meter))

	r.StaticFS("/static", view.Static())
	api.Register(r)
	r.GET("/busy", busyState(opts.Busy))

	pages := r.Group("")
	pages.Use(notify.Middleware(opts.Store, log))
	r.HTMLRender = renderer
	for _, s := range mounted {
		s.Register(pages)
	}
	r.NoRoute(notify.Middleware(opts.Store, log), func(c *gin.Context) {
		view.NotFound(c, "This page does not exist.")
	})

	return r, nil
}

func busyState(b *busy.Indicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"busy": b.Busy(), "inFlight": b.InFlight()})
	}
}
