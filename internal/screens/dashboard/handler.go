package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

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
		return nil, fmt.Errorf("dashboard: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for dashboard: %w", err)
	}
	return &Handler{
		config:  cfg,
		deps:    opts.Deps,
		service: NewService(opts.Deps.Gateway, opts.Deps.Logger),
	}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.show)
}

func (h *Handler) show(c *gin.Context) {
	totals, missing, err := h.service.Totals(c.Request.Context())
	if err != nil {
		h.deps.LoadFailed(c, err, "Dashboard")
		return
	}

	board := view.Dashboard{}
	for _, ctr := range counters {
		board.Cards = append(board.Cards, view.Card{Label: ctr.label, Value: *ctr.target(totals), Href: ctr.href})
	}
	if len(missing) > 0 {
		board.Warning = "Some totals could not be loaded: " + strings.Join(missing, ", ")
	}
	view.Render(c, http.StatusOK, view.PageDashboard, "Dashboard", board)
}
