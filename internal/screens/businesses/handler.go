package businesses

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"business-console/internal/common/errors"
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
		return nil, fmt.Errorf("businesses: deps are required")
	}
	if err := opts.Deps.Validate(); err != nil {
		return nil, fmt.Errorf("businesses: %w", err)
	}
	cfg := createConfigFromAppConfig(opts.Deps.Config, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for businesses: %w", err)
	}
	svc, err := NewService(opts.Deps, cfg.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("businesses: %w", err)
	}
	return &Handler{config: cfg, deps: opts.Deps, service: svc}, nil
}

func (h *Handler) Enabled() bool {
	return h.config.Enabled
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/businesses")
	g.GET("", h.list)
	g.GET("/show/:id", h.show)
	g.GET("/add", h.newForm)
	g.POST("/add", h.create)
	g.GET("/edit/:id", h.editForm)
	g.POST("/edit/:id", h.update)
	g.GET("/balance/:id", h.balanceForm)
	g.POST("/balance/:id", h.adjustBalance)
	g.GET("/upload/:id", h.uploadForm)
	g.POST("/upload/:id", h.upload)
	g.POST("/:id/status", h.setStatus)
	g.POST("/:id/live", h.setLive)
	g.GET("/:id/users", h.users)
	g.GET("/:id/admins", h.admins)
}

func (h *Handler) list(c *gin.Context) {
	base.List[models.Business]{
		Title:      "Businesses",
		Controller: h.service.list,
		Spec:       h.service.spec,
		Columns:    listColumns,
		Row:        row,
		Actions:    []view.Action{{Label: "Add business", Href: "/businesses/add", Style: "btn-primary"}},
	}.Render(c, h.deps, "")
}

// load fetches the business named by :id, rendering the failure page when
// it cannot.
func (h *Handler) load(c *gin.Context) (*models.Business, bool) {
	id, ok := base.ID(c)
	if !ok {
		return nil, false
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.deps.LoadFailed(c, err, "Business")
		return nil, false
	}
	if b.ID == 0 {
		b.ID = id
	}
	return b, true
}

func (h *Handler) show(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	d := detail(*b)
	if pending := b.PendingReview(); len(pending) > 0 {
		d.Heading = fmt.Sprintf("%s (%d fields need review)", b.Name, len(pending))
	}
	view.Render(c, http.StatusOK, view.PageDetail, "Business", d)
}

func readInput(c *gin.Context) Input {
	v := base.Values(c, "name", "email", "phone", "address", "pan_no", "registered_date")
	return Input{
		Name:           v["name"].(string),
		Email:          models.StripReview(v["email"].(string)),
		Phone:          models.StripReview(v["phone"].(string)),
		Address:        models.StripReview(v["address"].(string)),
		PanNo:          models.StripReview(v["pan_no"].(string)),
		RegisteredDate: models.StripReview(v["registered_date"].(string)),
		Active:         base.Checked(c, "active"),
	}
}

func (h *Handler) newForm(c *gin.Context) {
	view.Render(c, http.StatusOK, view.PageForm, "Add business",
		businessForm("New business", "/businesses/add", Input{Active: true}, true))
}

func (h *Handler) create(c *gin.Context) {
	in := readInput(c)
	form := businessForm("New business", "/businesses/add", in, true)
	if result := validation.ValidateInput(in.values(), GetFormSchema()); !result.Valid {
		base.Invalid(c, "Add business", form, result)
		return
	}

	res, created, err := h.service.Create(c.Request.Context(), in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Add business", form, res, err)
		return
	}

	notify.Flash(c, notify.Success(fmt.Sprintf("Business %s created successfully.", created.Name)))
	notify.Flash(c, h.uploadAll(c, created.ID)...)
	base.SeeOther(c, showPath(created.ID))
}

func (h *Handler) editForm(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Edit business",
		businessForm("Edit "+b.Name, fmt.Sprintf("/businesses/edit/%d", b.ID), inputFrom(*b), false))
}

func (h *Handler) update(c *gin.Context) {
	current, ok := h.load(c)
	if !ok {
		return
	}
	in := readInput(c)
	form := businessForm("Edit "+in.Name, fmt.Sprintf("/businesses/edit/%d", current.ID), in, false)
	result := skipKept(validation.ValidateInput(in.values(), GetFormSchema()), in.kept(current))
	if !result.Valid {
		base.Invalid(c, "Edit business", form, result)
		return
	}

	res, err := h.service.Update(c.Request.Context(), *current, in)
	if err != nil || !res.OK {
		h.deps.Redisplay(c, "Edit business", form, res, err)
		return
	}
	notify.Flash(c, notify.Success(fmt.Sprintf("Business %s updated successfully.", in.Name)))
	base.SeeOther(c, showPath(current.ID))
}

func (h *Handler) balance(b models.Business) base.Balance {
	return base.Balance{Resource: resource, ID: b.ID, Name: b.Name, Current: b.Balance, Cancel: showPath(b.ID)}
}

func (h *Handler) balanceForm(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Balance", h.balance(*b).Form("", ""))
}

func (h *Handler) adjustBalance(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	base.SubmitBalance(c, h.deps, h.balance(*b), func(updated models.Business) decimal.Decimal { return updated.Balance })
}

func (h *Handler) uploadForm(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	view.Render(c, http.StatusOK, view.PageForm, "Documents", uploadForm(*b))
}

func (h *Handler) upload(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	notes := h.uploadAll(c, b.ID)
	if len(notes) == 0 {
		form := uploadForm(*b)
		form.Errors = []string{"Choose at least one document to upload"}
		view.Render(c, http.StatusUnprocessableEntity, view.PageForm, "Documents", form)
		return
	}
	notify.Flash(c, notes...)
	base.SeeOther(c, showPath(b.ID))
}

// uploadAll sends every document attached to the request, one request per
// document, and returns a notification for each.
func (h *Handler) uploadAll(c *gin.Context, id int64) []notify.Notification {
	var notes []notify.Notification
	for _, doc := range documentKinds {
		fh, err := c.FormFile(doc.field)
		if err != nil {
			continue
		}
		res, err := h.service.Upload(c.Request.Context(), id, doc.kind, fh)
		switch {
		case err != nil:
			h.deps.Errors().Handle(err, map[string]interface{}{"businessId": id, "document": doc.kind})
			notes = append(notes, notify.Error(doc.label+": "+errors.UserMessage(err)))
		case !res.OK:
			notes = append(notes, notify.Error(doc.label+": "+base.Rejected(res)))
		default:
			notes = append(notes, notify.Success(doc.label+" uploaded successfully."))
		}
	}
	return notes
}

func (h *Handler) setStatus(c *gin.Context) {
	h.deps.Toggle(c, "active", "/businesses", h.service.SetStatus)
}

func (h *Handler) setLive(c *gin.Context) {
	h.deps.Toggle(c, "is_live", "/businesses", h.service.SetLive)
}

// users and admins list the accounts of one business.
func (h *Handler) users(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	base.List[models.BusinessUser]{
		Title:      "Businesses",
		Heading:    "Users of " + b.Name,
		Controller: h.service.users,
		Spec:       h.service.userSpec,
		Columns:    userColumns,
		Row:        userRow,
		Actions:    []view.Action{view.LinkAction("Back to "+b.Name, showPath(b.ID))},
	}.Render(c, h.deps, fmt.Sprintf("/businesses/%d/users", b.ID))
}

func (h *Handler) admins(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	base.List[models.BusinessAdmin]{
		Title:      "Businesses",
		Heading:    "Admins of " + b.Name,
		Controller: h.service.admins,
		Spec:       h.service.adminSpec,
		Columns:    adminColumns,
		Row:        adminRow,
		Actions:    []view.Action{view.LinkAction("Back to "+b.Name, showPath(b.ID))},
	}.Render(c, h.deps, fmt.Sprintf("/businesses/%d/admins", b.ID))
}
