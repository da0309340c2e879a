package userscashflows

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

type Handler struct {
	config   *Config
	deps     *base.Deps
	service  *Service
	receipts receipts
}

type HandlerOptions struct {
	Deps         *base.Deps
	CustomConfig *Config
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Deps == nil {
		return nil, fmt.Errorf("users-cashflows: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("users-cashflows: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for users-cashflows: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("users-cashflows: %w", err)
	}
	return &Handler{
		config:   cfg,
		deps:     opts.Deps,
		service:  svc,
		receipts: receipts{base: opts.Deps.Config.Display.ReferenceServiceURL},
	}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/users-cashflows")
	g.GET("", func(c *gin.Context) { h.listing("").Render(c, h.deps, "") })
	g.GET("/:id/of-business", h.nested("of-business", "Purchases of business #%d"))
	g.GET("/:id/of-user", h.nested("of-user", "Purchases of user #%d"))
	g.GET("/show/:id", h.show)
}

func (h *Handler) listing(heading string) base.List[models.UsersCashflow] {
	return base.List[models.UsersCashflow]{
		Title:      "Users Cashflows",
		Heading:    heading,
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns: []base.Column{
			{Key: "business", Label: "Business Name"},
			{Key: "user", Label: "User Name"},
			{Key: "service_type", Label: "Service Type"},
			{Key: "amount", Label: "Amount"},
			{Key: "receipt", Label: "Receipt"},
			{Key: "created_at", Label: "Date"},
			{Key: "options", Label: "Options"},
		},
		Row: h.receipts.row,
	}
}

func (h *Handler) nested(suffix, heading string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := base.ID(c)
		if !ok {
			return
		}
		h.listing(fmt.Sprintf(heading, id)).Render(c, h.deps, fmt.Sprintf("/users-cashflows/%d/%s", id, suffix))
	}
}

func (h *Handler) show(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	cf, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Purchase")
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Users Cashflow", h.receipts.detail(*cf))
}
