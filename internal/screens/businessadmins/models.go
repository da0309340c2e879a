package businessadmins

import (
	"fmt"
	"strconv"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

type Input struct {
	Name         string
	Email        string
	Phone        string
	BusinessID   int64
	BusinessName string
	SuperAdmin   bool
	Active       bool
}

func (in Input) values() map[string]interface{} {
	return map[string]interface{}{
		"name":        in.Name,
		"email":       in.Email,
		"phone":       in.Phone,
		"business_id": in.BusinessID,
	}
}

// Payload is the create body; edits send values only, as role and status
// have their own switches.
func (in Input) Payload() map[string]interface{} {
	p := in.values()
	p["is_super_admin"] = in.SuperAdmin
	p["active"] = in.Active
	return p
}

func inputFrom(a models.BusinessAdmin) Input {
	in := Input{
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		BusinessID: a.BusinessID,
		SuperAdmin: a.IsSuperAdmin.Bool(),
		Active:     a.Active.Bool(),
	}
	if a.Business != nil {
		in.BusinessName = a.Business.Name
		if in.BusinessID == 0 {
			in.BusinessID = a.Business.ID
		}
	}
	return in
}

var listColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "business", Label: "Business"},
	{Key: "phone", Label: "Phone"},
	{Key: "is_super_admin", Label: "Role"},
	{Key: "active", Label: "Status"},
	{Key: "options", Label: "Options"},
}

func showPath(id int64) string { return fmt.Sprintf("/business-admins/show/%d", id) }

func businessHref(r *models.Ref) string {
	if r == nil || r.ID == 0 {
		return ""
	}
	return fmt.Sprintf("/businesses/show/%d", r.ID)
}

func row(a models.BusinessAdmin) []view.Cell {
	return []view.Cell{
		view.Link(a.Name, showPath(a.ID)),
		view.Text(a.Email),
		view.Ref(a.Business, businessHref(a.Business)),
		view.Text(a.Phone),
		roleCell(a),
		statusCell(a),
		view.Actions(
			view.LinkAction("View", showPath(a.ID)),
			view.LinkAction("Edit", fmt.Sprintf("/business-admins/edit/%d", a.ID)),
			view.LinkAction("Settings", fmt.Sprintf("/business-admins/settings/%d", a.ID)),
		),
	}
}

func roleCell(a models.BusinessAdmin) view.Cell {
	label := "Admin"
	if a.IsSuperAdmin.Bool() {
		label = "SuperAdmin"
	}
	return view.Switch(label, fmt.Sprintf("/business-admins/%d/role", a.ID), a.IsSuperAdmin.Bool(),
		map[string]string{"is_super_admin": strconv.FormatBool(!a.IsSuperAdmin.Bool()), "name": a.Name})
}

func statusCell(a models.BusinessAdmin) view.Cell {
	label := "Inactive"
	if a.Active.Bool() {
		label = "Active"
	}
	return view.Switch(label, fmt.Sprintf("/business-admins/%d/status", a.ID), a.Active.Bool(),
		map[string]string{"active": strconv.FormatBool(!a.Active.Bool()), "name": a.Name})
}

func detail(a models.BusinessAdmin) *view.Detail {
	d := &view.Detail{Heading: a.Name, Back: "/business-admins"}
	d.Add("Name", view.Text(a.Name)).
		Add("Email", view.Text(a.Email)).
		Add("Phone", view.Text(a.Phone)).
		Add("Business", view.Ref(a.Business, businessHref(a.Business))).
		Add("Role", roleCell(a)).
		Add("Status", statusCell(a)).
		Add("Created", view.Time(a.CreatedAt))
	d.Actions = []view.Action{
		view.LinkAction("Edit", fmt.Sprintf("/business-admins/edit/%d", a.ID)),
		view.LinkAction("Settings", fmt.Sprintf("/business-admins/settings/%d", a.ID)),
		view.LinkAction("Cashflows", fmt.Sprintf("/business-cashflows/%d/by-admin", a.ID)),
	}
	return d
}

func adminForm(heading, action string, in Input, create bool) *view.Form {
	f := &view.Form{Heading: heading, Action: action, Cancel: "/business-admins"}
	f.Field("name", "Name", view.InputText, in.Name).Require()
	f.Field("email", "Email", view.InputEmail, in.Email).Require()
	f.Field("phone", "Phone", view.InputText, in.Phone).Require()
	f.BusinessPicker("business_id", "Business", in.BusinessID, in.BusinessName).Require()
	if create {
		f.Field("is_super_admin", "Super admin", view.InputCheckbox, "").Checked = in.SuperAdmin
		f.Field("active", "Active", view.InputCheckbox, "").Checked = in.Active
		f.Submit = "Add admin"
	}
	return f
}

func settingsPage(a models.BusinessAdmin) *view.Detail {
	d := &view.Detail{Heading: "Settings of " + a.Name, Back: showPath(a.ID)}
	token := a.Token
	if token == "" {
		token = "No token issued"
	}
	d.Add("Access token", view.Text(token))
	regenerate := view.PostAction("Regenerate token", fmt.Sprintf("/business-admins/settings/%d/token", a.ID), map[string]string{"name": a.Name})
	regenerate.Confirm = "The current token stops working. Continue?"
	d.Actions = []view.Action{
		regenerate,
		view.LinkAction("Change password", fmt.Sprintf("/business-admins/settings/%d/password", a.ID)),
	}
	return d
}

func passwordForm(a models.BusinessAdmin) *view.Form {
	f := &view.Form{
		Heading: "Change password of " + a.Name,
		Action:  fmt.Sprintf("/business-admins/settings/%d/password", a.ID),
		Cancel:  fmt.Sprintf("/business-admins/settings/%d", a.ID),
		Submit:  "Update password",
	}
	f.Field("password", "Password", view.InputPassword, "").Require()
	f.Field("confirm", "Confirm password", view.InputPassword, "").Require()
	return f
}
