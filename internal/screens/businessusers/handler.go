package businessusers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

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
	genders []string
}

type HandlerOptions struct {
	Deps         *base.Deps
	CustomConfig *Config
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Deps == nil {
		return nil, fmt.Errorf("business-users: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("business-users: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for business-users: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("business-users: %w", err)
	}
	genders := opts.Deps.Config.Vocabulary.Genders
	if len(genders) == 0 {
		return nil, fmt.Errorf("business-users: gender vocabulary is empty")
	}
	return &Handler{config: cfg, deps: opts.Deps, service: svc, genders: genders}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/business-users")
	g.GET("", h.list)
	g.GET("/show/:id", h.show)
	g.GET("/add", h.newForm)
	g.POST("/add", h.create)
	g.GET("/edit/:id", h.editForm)
	g.POST("/edit/:id", h.update)
	g.GET("/balance/:id", h.balanceForm)
	g.POST("/balance/:id", h.adjustBalance)
	g.POST("/:id/status", h.setStatus)
}

func (h *Handler) list(c *gin.Context) {
	base.List[models.BusinessUser]{
		Title:      "Business Users",
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns:    listColumns,
		Row:        row,
		Actions:    []view.Action{{Label: "Add user", Href: "/business-users/add", Style: "btn-primary"}},
	}.Render(c, h.deps, "")
}

func (h *Handler) load(c *gin.Context) (*models.BusinessUser, bool) {
	id, ok := base.ID(c)
	if !ok {
		return nil, false
	}
	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "User")
		return nil, false
	}
	if u.ID == 0 {
		u.ID = id
	}
	return u, true
}

func (h *Handler) show(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Business User", detail(*u))
}

func readInput(c *gin.Context) Input {
	v := base.Values(c, "name", "phone", "gender", "business_id")
	id, _ := strconv.ParseInt(v["business_id"].(string), 10, 64)
	return Input{
		Name:       v["name"].(string),
		Phone:      v["phone"].(string),
		Gender:     v["gender"].(string),
		BusinessID: id,
		Active:     base.Checked(c, "active"),
	}
}

func (h *Handler) newForm(c *gin.Context) {
	in := Input{Active: true}
	if id, err := strconv.ParseInt(c.Query("business_id"), 10, 64); err == nil && id > 0 {
		in.BusinessID = id
		in.BusinessName = h.service.BusinessName(c.Request.Context(), id)
	}
	view.Render(c, http.StatusOK, view.PageForm, "Add user",
		userForm("New user", "/business-users/add", in, h.genders, true))
}

func (h *Handler) create(c *gin.Context) {
	in := readInput(c)
	in.BusinessName = h.service.BusinessName(c.Request.Context(), in.BusinessID)
	form := userForm("New user", "/business-users/add", in, h.genders, true)
	if result := validation.ValidateInput(in.values(), GetFormSchema(h.genders)); !result.Valid {
		base.Invalid(c, "Add user", form, result)
		return
	}

	res, created, err := h.service.Create(c.Request.Context(), in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Add user", form, res, err)
		return
	}

	msg := fmt.Sprintf("User %s added successfully.", created.Name)
	if business := businessOf(created, in); business != "" {
		msg = fmt.Sprintf("User %s added successfully to business %s.", created.Name, business)
	}
	notify.Flash(c, notify.Success(msg))
	if created.ID > 0 {
		base.SeeOther(c, showPath(created.ID))
		return
	}
	base.SeeOther(c, "/business-users")
}

func businessOf(u *models.BusinessUser, in Input) string {
	if u.Business != nil && u.Business.Name != "" {
		return u.Business.Name
	}
	return in.BusinessName
}

func (h *Handler) editForm(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}
	in := inputFrom(*u)
	if in.BusinessName == "" {
		in.BusinessName = h.service.BusinessName(c.Request.Context(), in.BusinessID)
	}
	view.Render(c, http.StatusOK, view.PageForm, "Edit user",
		userForm("Edit "+u.Name, fmt.Sprintf("/business-users/edit/%d", u.ID), in, h.genders, false))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	in := readInput(c)
	form := userForm("Edit "+in.Name, fmt.Sprintf("/business-users/edit/%d", id), in, h.genders, false)
	if result := validation.ValidateInput(in.values(), GetFormSchema(h.genders)); !result.Valid {
		base.Invalid(c, "Edit user", form, result)
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Edit user", form, res, err)
		return
	}
	notify.Flash(c, notify.Success(fmt.Sprintf("User %s updated successfully.", in.Name)))
	base.SeeOther(c, showPath(id))
}

func (h *Handler) balance(u models.BusinessUser) base.Balance {
	return base.Balance{Resource: resource, ID: u.ID, Name: u.Name, Current: u.Balance, Cancel: showPath(u.ID)}
}

func (h *Handler) balanceForm(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Balance", h.balance(*u).Form("", ""))
}

func (h *Handler) adjustBalance(c *gin.Context) {
	u, ok := h.load(c)
	if !ok {
		return
	}
	base.SubmitBalance(c, h.deps, h.balance(*u), func(updated models.BusinessUser) decimal.Decimal { return updated.Balance })
}

func (h *Handler) setStatus(c *gin.Context) {
	h.deps.Toggle(c, "active", "/business-users", h.service.SetStatus)
}
