package businessadmins

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

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
		return nil, fmt.Errorf("business-admins: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("business-admins: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for business-admins: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("business-admins: %w", err)
	}
	return &Handler{config: cfg, deps: opts.Deps, service: svc}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/business-admins")
	g.GET("", h.list)
	g.GET("/show/:id", h.show)
	g.GET("/add", h.newForm)
	g.POST("/add", h.create)
	g.GET("/edit/:id", h.editForm)
	g.POST("/edit/:id", h.update)
	g.GET("/settings/:id", h.settings)
	g.GET("/settings/:id/password", h.passwordForm)
	g.POST("/settings/:id/password", h.updatePassword)
	g.POST("/settings/:id/token", h.regenerateToken)
	g.POST("/:id/status", h.setStatus)
	g.POST("/:id/role", h.setRole)
}

func (h *Handler) list(c *gin.Context) {
	base.List[models.BusinessAdmin]{
		Title:      "Business Admins",
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns:    listColumns,
		Row:        row,
		Actions:    []view.Action{{Label: "Add admin", Href: "/business-admins/add", Style: "btn-primary"}},
	}.Render(c, h.deps, "")
}

func (h *Handler) load(c *gin.Context) (*models.BusinessAdmin, bool) {
	id, ok := base.ID(c)
	if !ok {
		return nil, false
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Admin")
		return nil, false
	}
	if a.ID == 0 {
		a.ID = id
	}
	return a, true
}

func (h *Handler) show(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Business Admin", detail(*a))
}

func readInput(c *gin.Context) Input {
	v := base.Values(c, "name", "email", "phone", "business_id")
	id, _ := strconv.ParseInt(v["business_id"].(string), 10, 64)
	return Input{
		Name:       v["name"].(string),
		Email:      v["email"].(string),
		Phone:      v["phone"].(string),
		BusinessID: id,
		SuperAdmin: base.Checked(c, "is_super_admin"),
		Active:     base.Checked(c, "active"),
	}
}

// newForm preselects the business given as ?business_id=, as linked from a
// business page.
func (h *Handler) newForm(c *gin.Context) {
	in := Input{Active: true}
	if id, err := strconv.ParseInt(c.Query("business_id"), 10, 64); err == nil && id > 0 {
		in.BusinessID = id
		in.BusinessName = h.service.BusinessName(c.Request.Context(), id)
	}
	view.Render(c, http.StatusOK, view.PageForm, "Add admin",
		adminForm("New admin", "/business-admins/add", in, true))
}

func (h *Handler) create(c *gin.Context) {
	in := readInput(c)
	if in.BusinessID > 0 {
		in.BusinessName = h.service.BusinessName(c.Request.Context(), in.BusinessID)
	}
	form := adminForm("New admin", "/business-admins/add", in, true)
	if result := validation.ValidateInput(in.values(), GetFormSchema()); !result.Valid {
		base.Invalid(c, "Add admin", form, result)
		return
	}

	res, created, err := h.service.Create(c.Request.Context(), in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Add admin", form, res, err)
		return
	}

	business := in.BusinessName
	if created.Business != nil && created.Business.Name != "" {
		business = created.Business.Name
	}
	notify.Flash(c, notify.Success(fmt.Sprintf("Admin %s added successfully to business %s.", created.Name, business)))
	if created.ID > 0 {
		base.SeeOther(c, showPath(created.ID))
		return
	}
	base.SeeOther(c, "/business-admins")
}

func (h *Handler) editForm(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	in := inputFrom(*a)
	if in.BusinessName == "" && in.BusinessID > 0 {
		in.BusinessName = h.service.BusinessName(c.Request.Context(), in.BusinessID)
	}
	view.Render(c, http.StatusOK, view.PageForm, "Edit admin",
		adminForm("Edit "+a.Name, fmt.Sprintf("/business-admins/edit/%d", a.ID), in, false))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	in := readInput(c)
	form := adminForm("Edit "+in.Name, fmt.Sprintf("/business-admins/edit/%d", id), in, false)
	if result := validation.ValidateInput(in.values(), GetFormSchema()); !result.Valid {
		base.Invalid(c, "Edit admin", form, result)
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Edit admin", form, res, err)
		return
	}
	notify.Flash(c, notify.Success(fmt.Sprintf("Admin %s updated successfully.", in.Name)))
	base.SeeOther(c, showPath(id))
}

func (h *Handler) settings(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Admin settings", settingsPage(*a))
}

func (h *Handler) passwordForm(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Admin settings", passwordForm(*a))
}

func (h *Handler) updatePassword(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	form := passwordForm(*a)
	values := map[string]interface{}{"password": c.PostForm("password"), "confirm": c.PostForm("confirm")}
	if result := validation.ValidateInput(values, GetPasswordSchema()); !result.Valid {
		base.Invalid(c, "Admin settings", form, result)
		return
	}
	if values["password"] != values["confirm"] {
		form.Fields[1].Error = "Passwords do not match"
		view.Render(c, http.StatusUnprocessableEntity, view.PageForm, "Admin settings", form)
		return
	}

	res, err := h.service.UpdatePassword(c.Request.Context(), a.ID, values["password"].(string))
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Admin settings", form, res, err)
		return
	}
	notify.Flash(c, notify.Success(fmt.Sprintf("Password of %s updated successfully.", a.Name)))
	base.SeeOther(c, fmt.Sprintf("/business-admins/settings/%d", a.ID))
}

func (h *Handler) regenerateToken(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	res, err := h.service.RegenerateToken(c.Request.Context(), id)
	h.deps.Done(c, res, err, fmt.Sprintf("Token of %s regenerated successfully.", name),
		fmt.Sprintf("/business-admins/settings/%d", id))
}

func (h *Handler) setStatus(c *gin.Context) {
	h.deps.Toggle(c, "active", "/business-admins", h.service.SetStatus)
}

func (h *Handler) setRole(c *gin.Context) {
	h.deps.Toggle(c, "is_super_admin", "/business-admins", h.service.SetRole)
}
