package businesscashflows

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"business-console/internal/common/validation"
	"business-console/internal/models"
	"business-console/internal/notify"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

type Handler struct {
	config  *Config
	deps    *base.Deps
	service *Service
}

type HandlerOptions struct {
	Deps         *base.Deps
	CustomConfig *Config
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Deps == nil {
		return nil, fmt.Errorf("business-cashflows: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("business-cashflows: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for business-cashflows: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("business-cashflows: %w", err)
	}
	return &Handler{config: cfg, deps: opts.Deps, service: svc}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

// scopes are the nested ledgers, keyed by route suffix.
var scopes = []struct {
	suffix string
	noun   string
}{
	{"of-business", "business"},
	{"of-user", "user"},
	{"by-admin", "admin"},
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/business-cashflows")
	g.GET("", func(c *gin.Context) { h.listing("").Render(c, h.deps, "") })
	for _, s := range scopes {
		s := s
		g.GET("/:id/"+s.suffix, func(c *gin.Context) {
			id, ok := base.ID(c)
			if !ok {
				return
			}
			path := fmt.Sprintf("/business-cashflows/%d/%s", id, s.suffix)
			h.listing(fmt.Sprintf("Cashflows of %s #%d", s.noun, id)).Render(c, h.deps, path)
		})
	}
	g.GET("/show/:id", h.show)
	g.GET("/update-remark/:id", h.remarkForm)
	g.POST("/update-remark/:id", h.updateRemark)
}

func (h *Handler) listing(heading string) base.List[models.BusinessCashflow] {
	return base.List[models.BusinessCashflow]{
		Title:      "Business Cashflows",
		Heading:    heading,
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns:    listColumns,
		Row:        row,
	}
}

func (h *Handler) load(c *gin.Context) (*models.BusinessCashflow, bool) {
	id, ok := base.ID(c)
	if !ok {
		return nil, false
	}
	cf, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Cashflow")
		return nil, false
	}
	if cf.ID == 0 {
		cf.ID = id
	}
	return cf, true
}

func (h *Handler) show(c *gin.Context) {
	cf, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Business Cashflow", detail(*cf))
}

func (h *Handler) remarkForm(c *gin.Context) {
	cf, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Update remark", remarkForm(*cf, cf.Remark))
}

func (h *Handler) updateRemark(c *gin.Context) {
	cf, ok := h.load(c)
	if !ok {
		return
	}
	values := base.Values(c, "remark")
	form := remarkForm(*cf, values["remark"].(string))
	if result := validation.ValidateInput(values, GetRemarkSchema()); !result.Valid {
		base.Invalid(c, "Update remark", form, result)
		return
	}

	res, err := h.service.UpdateRemark(c.Request.Context(), cf.ID, values["remark"].(string))
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Update remark", form, res, err)
		return
	}
	notify.Flash(c, notify.Success("Remark updated successfully."))
	base.SeeOther(c, showPath(cf.ID))
}
