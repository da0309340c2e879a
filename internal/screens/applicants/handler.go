package applicants

import (
	"fmt"
	"net/http"
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
		return nil, fmt.Errorf("applicants: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("applicants: %w", err)
	}
	if opts.Deps.Onboarding == nil {
		return nil, fmt.Errorf("applicants: onboarding orchestrator is required")
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for applicants: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("applicants: %w", err)
	}
	return &Handler{config: cfg, deps: opts.Deps, service: svc}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

// list views share the applicant table; path is the backend collection.
var views = []struct {
	route   string
	title   string
	heading string
	path    string
}{
	{"", "Applicants", "All applicants", ""},
	{"/approved", "Applicants", "Approved applicants", "/applicants/approved"},
	{"/un-approved", "Applicants", "Applicants awaiting approval", "/applicants/un-approved"},
	{"/enrolled", "Applicants", "Enrolled applicants", "/applicants/enrolled"},
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/applicants")
	for _, v := range views {
		v := v
		g.GET(v.route, func(c *gin.Context) { h.listing(v.heading).Render(c, h.deps, v.path) })
	}
	g.GET("/:id/of-user", h.ofUser)
	g.GET("/show/:id", h.show)
	g.GET("/add", h.newForm)
	g.POST("/add", h.create)
	g.GET("/edit/:id", h.editForm)
	g.POST("/edit/:id", h.update)
	g.GET("/remarks/:id", h.remarksForm)
	g.POST("/remarks/:id", h.saveRemarks)
	g.POST("/:id/approve", h.approve)
	g.POST("/:id/enroll", h.enroll)
}

func (h *Handler) listing(heading string) base.List[models.Applicant] {
	return base.List[models.Applicant]{
		Title:      "Applicants",
		Heading:    heading,
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns:    listColumns,
		Row:        row,
		Actions: []view.Action{
			view.LinkAction("All", "/applicants"),
			view.LinkAction("Approved", "/applicants/approved"),
			view.LinkAction("Awaiting approval", "/applicants/un-approved"),
			view.LinkAction("Enrolled", "/applicants/enrolled"),
			{Label: "Add applicant", Href: "/applicants/add", Style: "btn-primary"},
		},
	}
}

// ofUser lists the applications made from one phone number.
func (h *Handler) ofUser(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("id"))
	if phone == "" {
		view.NotFound(c, "No applicant phone given.")
		return
	}
	h.listing("Applications from "+phone).Render(c, h.deps, ofUserPath(phone))
}

func (h *Handler) show(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Applicant")
		return
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Applicant", detail(*a))
}

func readInput(c *gin.Context) Input {
	v := base.Values(c, "name", "phone", "business_name", "business_email")
	return Input{
		Name:          v["name"].(string),
		Phone:         v["phone"].(string),
		BusinessName:  v["business_name"].(string),
		BusinessEmail: v["business_email"].(string),
		Approved:      base.Checked(c, "approved"),
		Enrolled:      base.Checked(c, "enrolled"),
	}
}

func (h *Handler) newForm(c *gin.Context) {
	view.Render(c, http.StatusOK, view.PageForm, "Add applicant",
		applicantForm("New application", "/applicants/add", Input{}, true))
}

func (h *Handler) create(c *gin.Context) {
	in := readInput(c)
	form := applicantForm("New application", "/applicants/add", in, true)
	if result := validation.ValidateInput(in.editPayload(), GetFormSchema()); !result.Valid {
		base.Invalid(c, "Add applicant", form, result)
		return
	}

	res, out, err := h.service.Create(c.Request.Context(), in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Add applicant", form, res, err)
		return
	}

	notify.Flash(c, notify.Success(fmt.Sprintf("Application for %s submitted successfully.", in.BusinessName)))
	if out == nil {
		base.SeeOther(c, "/applicants")
		return
	}
	notify.Flash(c, out.Notifications...)
	if next := out.RedirectPath(); next != "" {
		base.SeeOther(c, next)
		return
	}
	base.SeeOther(c, "/applicants")
}

func (h *Handler) editForm(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Applicant")
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Edit applicant",
		applicantForm("Edit "+a.BusinessName, fmt.Sprintf("/applicants/edit/%d", id), inputFrom(*a), false))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	in := readInput(c)
	form := applicantForm("Edit "+in.BusinessName, fmt.Sprintf("/applicants/edit/%d", id), in, false)
	if result := validation.ValidateInput(in.editPayload(), GetFormSchema()); !result.Valid {
		base.Invalid(c, "Edit applicant", form, result)
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Edit applicant", form, res, err)
		return
	}
	notify.Flash(c, notify.Success("Application updated successfully"))
	base.SeeOther(c, showPath(id))
}

func (h *Handler) remarksForm(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Applicant")
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Remarks", remarksForm(*a, a.Remarks))
}

func (h *Handler) saveRemarks(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Applicant")
		return
	}

	values := base.Values(c, "remarks")
	form := remarksForm(*a, values["remarks"].(string))
	if result := validation.ValidateInput(values, GetRemarksSchema()); !result.Valid {
		base.Invalid(c, "Remarks", form, result)
		return
	}

	res, err := h.service.SetRemarks(c.Request.Context(), id, values["remarks"].(string))
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Remarks", form, res, err)
		return
	}
	notify.Flash(c, notify.Success("Successfully updated remarks for "+a.BusinessName))
	base.SeeOther(c, showPath(id))
}

func (h *Handler) approve(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	back := base.Back(c, "/applicants")
	approved, ok := base.FormBool(c, "approved")
	if !ok {
		notify.Flash(c, notify.Error("Approval value is missing."))
		base.SeeOther(c, back)
		return
	}

	a, res, err := h.service.SetApproval(c.Request.Context(), id, approved)
	name := ""
	if a != nil {
		name = a.BusinessName
	}
	h.deps.Done(c, res, err, fmt.Sprintf("Status of %s updated successfully.", name), back)
}

// enroll runs onboarding. It lands on the new business when every step
// succeeds and returns to the list otherwise.
func (h *Handler) enroll(c *gin.Context) {
	id, ok := base.ID(c)
	if !ok {
		return
	}
	back := base.Back(c, "/applicants")

	out, err := h.service.Enroll(c.Request.Context(), id)
	if out == nil {
		h.deps.Fail(c, err, map[string]interface{}{"applicantId": id})
		base.SeeOther(c, back)
		return
	}
	notify.Flash(c, out.Notifications...)
	if next := out.RedirectPath(); next != "" {
		base.SeeOther(c, next)
		return
	}
	base.SeeOther(c, back)
}
