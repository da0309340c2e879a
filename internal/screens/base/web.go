package base

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/validation"
	"business-console/internal/mutations"
	"business-console/internal/notify"
	"business-console/internal/view"
)

// BackField is the hidden form field carrying the page to return to.
const BackField = "back"

// ID parses the :id route parameter. Anything but a positive integer
// renders the not-found page.
func ID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		view.NotFound(c, fmt.Sprintf("No record with id %q.", c.Param("id")))
		return 0, false
	}
	return id, true
}

// Back returns the local page a mutation should redirect to: the back form
// field, then the referring page, then fallback.
func Back(c *gin.Context, fallback string) string {
	if b := c.PostForm(BackField); local(b) {
		return b
	}
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" {
		if ref.Host == "" || ref.Host == c.Request.Host {
			target := ref.Path
			if ref.RawQuery != "" {
				target += "?" + ref.RawQuery
			}
			if local(target) {
				return target
			}
		}
	}
	return fallback
}

func local(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func SeeOther(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// Fail logs err and queues it as an error notification.
func (d *Deps) Fail(c *gin.Context, err error, fields map[string]interface{}) {
	d.Errors().Handle(err, fields)
	notify.Flash(c, notify.Error(errors.UserMessage(err)))
}

// LoadFailed renders the page for a failed detail or list fetch.
func (d *Deps) LoadFailed(c *gin.Context, err error, what string) {
	std := d.Errors().Handle(err, map[string]interface{}{"path": c.Request.URL.Path})
	switch std.Code {
	case errors.ErrCodeNotFound:
		view.NotFound(c, what+" was not found.")
	case errors.ErrCodeFetchError:
		view.Fallback(c, errors.UserMessage(err))
	default:
		view.Fallback(c, fmt.Sprintf("Could not load %s: %s", strings.ToLower(what), std.Message))
	}
}

// Done finishes a mutation: it queues the notification for the outcome and
// redirects to back, where the page re-reads server state.
func (d *Deps) Done(c *gin.Context, res *mutations.Result, err error, success, back string) {
	switch {
	case err != nil:
		d.Fail(c, err, map[string]interface{}{"path": c.Request.URL.Path})
	case !res.OK:
		notify.Flash(c, notify.Error(Rejected(res)))
	default:
		notify.Flash(c, notify.Success(success))
	}
	SeeOther(c, back)
}

// Rejected is the notification text for a non-2xx mutation answer.
func Rejected(res *mutations.Result) string {
	return fmt.Sprintf("Error (%d): %s.", res.Status, strings.TrimSuffix(res.Message, "."))
}

// Fetch loads one entity. A 404 becomes NOT_FOUND, any other non-2xx a
// BACKEND_REJECTED error.
func Fetch[T any](ctx context.Context, caller gateway.Caller, svc gateway.Service, path, resource string, id int64) (*T, error) {
	resp, err := caller.Call(ctx, svc, path, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(resource, strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, errors.NewFetchError(path, err)
	}
	return &out, nil
}

// Values reads trimmed form values, keeping empty ones so required checks
// see them.
func Values(c *gin.Context, names ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(names))
	for _, n := range names {
		out[n] = strings.TrimSpace(c.PostForm(n))
	}
	return out
}

// Checked reports whether a checkbox was submitted.
func Checked(c *gin.Context, name string) bool {
	switch strings.ToLower(c.PostForm(name)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// FormBool parses a toggle's "true"/"false" value.
func FormBool(c *gin.Context, name string) (bool, bool) {
	v, err := strconv.ParseBool(c.PostForm(name))
	return v, err == nil
}

// FormStatus is the status of a form re-rendered after err.
func FormStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.HasCode(err, errors.ErrCodeValidationFailed), errors.HasCode(err, errors.ErrCodeInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.IsFetchError(err):
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// Redisplay notifies the failure of a form submission and renders the form
// again with what was entered.
func (d *Deps) Redisplay(c *gin.Context, title string, form *view.Form, res *mutations.Result, err error) {
	if err != nil {
		d.Fail(c, err, map[string]interface{}{"path": c.Request.URL.Path})
	} else if res != nil && !res.OK {
		notify.Flash(c, notify.Error(Rejected(res)))
	}
	view.Render(c, FormStatus(err), view.PageForm, title, form)
}

// Invalid renders form with its field errors.
func Invalid(c *gin.Context, title string, form *view.Form, result *validation.ValidationResult) {
	form.Attach(result)
	view.Render(c, http.StatusUnprocessableEntity, view.PageForm, title, form)
}

// Toggle applies a posted on/off switch to :id and redirects back. The
// optional name field labels the notification.
func (d *Deps) Toggle(c *gin.Context, field, fallback string, apply func(ctx context.Context, id int64, on bool) (*mutations.Result, error)) {
	id, ok := ID(c)
	if !ok {
		return
	}
	back := Back(c, fallback)
	on, ok := FormBool(c, field)
	if !ok {
		notify.Flash(c, notify.Error(fmt.Sprintf("Missing value for %s.", field)))
		SeeOther(c, back)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	res, err := apply(c.Request.Context(), id, on)
	d.Done(c, res, err, fmt.Sprintf("Status of %s updated successfully.", name), back)
}
