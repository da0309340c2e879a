package businesses

import (
	"fmt"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

// Input is the business form as submitted. Values never carry the review
// suffix; Payload decides which fields stay flagged.
type Input struct {
	Name           string
	Email          string
	Phone          string
	Address        string
	PanNo          string
	RegisteredDate string
	Active         bool
}

func (in Input) values() map[string]interface{} {
	v := map[string]interface{}{
		"name":    in.Name,
		"email":   in.Email,
		"phone":   in.Phone,
		"address": in.Address,
		"pan_no":  in.PanNo,
	}
	if in.RegisteredDate != "" {
		v["registered_date"] = in.RegisteredDate
	}
	return v
}

// document is the plain form of the payload, checked against the registry
// schema before the review suffix is applied.
func (in Input) document() map[string]interface{} {
	doc := in.values()
	doc["active"] = in.Active
	return doc
}

type payload struct {
	Name           string                     `json:"name"`
	Email          models.Reviewable[string]  `json:"email"`
	Phone          models.Reviewable[string]  `json:"phone"`
	Address        models.Reviewable[string]  `json:"address"`
	PanNo          models.Reviewable[string]  `json:"pan_no"`
	RegisteredDate *models.Reviewable[string] `json:"registered_date,omitempty"`
	Active         bool                       `json:"active"`
}

// kept names the fields still flagged on current that were submitted
// unchanged.
func (in Input) kept(current *models.Business) map[string]bool {
	out := map[string]bool{}
	if current == nil {
		return out
	}
	check := func(name, v string, cur models.Reviewable[string]) {
		if cur.NeedsReview && cur.Value == v {
			out[name] = true
		}
	}
	check("email", in.Email, current.Email)
	check("phone", in.Phone, current.Phone)
	check("address", in.Address, current.Address)
	check("pan_no", in.PanNo, current.PanNo)
	check("registered_date", in.RegisteredDate, current.RegisteredDate)
	return out
}

// Payload builds the create or update body. A kept placeholder stays
// flagged; anything the operator edited is confirmed.
func (in Input) Payload(current *models.Business) payload {
	kept := in.kept(current)
	review := func(name, v string) models.Reviewable[string] {
		if kept[name] {
			return models.Placeholder(v)
		}
		return models.Confirmed(v)
	}
	p := payload{
		Name:    in.Name,
		Email:   review("email", in.Email),
		Phone:   review("phone", in.Phone),
		Address: review("address", in.Address),
		PanNo:   review("pan_no", in.PanNo),
		Active:  in.Active,
	}
	if in.RegisteredDate != "" {
		rd := review("registered_date", in.RegisteredDate)
		p.RegisteredDate = &rd
	}
	return p
}

func inputFrom(b models.Business) Input {
	return Input{
		Name:           b.Name,
		Email:          b.Email.Value,
		Phone:          b.Phone.Value,
		Address:        b.Address.Value,
		PanNo:          b.PanNo.Value,
		RegisteredDate: b.RegisteredDate.Value,
		Active:         b.Active.Bool(),
	}
}

var listColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "phone", Label: "Phone"},
	{Key: "pan_no", Label: "PAN no."},
	{Key: "balance", Label: "Balance"},
	{Key: "active", Label: "Status"},
	{Key: "is_live", Label: "Live"},
	{Key: "options", Label: "Options"},
}

func showPath(id int64) string { return fmt.Sprintf("/businesses/show/%d", id) }

func row(b models.Business) []view.Cell {
	return []view.Cell{
		view.Link(b.Name, showPath(b.ID)),
		view.Reviewed(b.Email),
		view.Reviewed(b.Phone),
		view.Reviewed(b.PanNo),
		view.Money(b.Balance),
		statusCell(b),
		liveCell(b),
		view.Actions(
			view.LinkAction("View", showPath(b.ID)),
			view.LinkAction("Edit", fmt.Sprintf("/businesses/edit/%d", b.ID)),
			view.LinkAction("Balance", fmt.Sprintf("/businesses/balance/%d", b.ID)),
		),
	}
}

// statusCell and liveCell show the current state as a button that flips
// it.
func statusCell(b models.Business) view.Cell {
	return view.Switch(statusText(b.Active), fmt.Sprintf("/businesses/%d/status", b.ID), b.Active.Bool(),
		map[string]string{"active": fmt.Sprint(!b.Active.Bool()), "name": b.Name})
}

func liveCell(b models.Business) view.Cell {
	label := "Offline"
	if b.IsLive.Bool() {
		label = "Live"
	}
	return view.Switch(label, fmt.Sprintf("/businesses/%d/live", b.ID), b.IsLive.Bool(),
		map[string]string{"is_live": fmt.Sprint(!b.IsLive.Bool()), "name": b.Name})
}

func statusText(active models.Flag) string {
	if active.Bool() {
		return "Active"
	}
	return "Inactive"
}

func detail(b models.Business) *view.Detail {
	d := &view.Detail{Heading: b.Name, Back: "/businesses"}
	d.Add("Name", view.Text(b.Name)).
		Add("Email", view.Reviewed(b.Email)).
		Add("Phone", view.Reviewed(b.Phone)).
		Add("Address", view.Reviewed(b.Address)).
		Add("PAN no.", view.Reviewed(b.PanNo)).
		Add("Registered date", view.Reviewed(b.RegisteredDate)).
		Add("Balance", view.Money(b.Balance)).
		Add("Status", base.StatusLabel(b.Active)).
		Add("Live", view.Badge(b.IsLive.Bool(), "Live", "Offline")).
		Add("PAN document", document(b.PanImage)).
		Add("Registration document", document(b.CompanyRegistrationImage)).
		Add("Created", view.Time(b.CreatedAt))
	d.Actions = []view.Action{
		view.LinkAction("Edit", fmt.Sprintf("/businesses/edit/%d", b.ID)),
		view.LinkAction("Balance", fmt.Sprintf("/businesses/balance/%d", b.ID)),
		view.LinkAction("Documents", fmt.Sprintf("/businesses/upload/%d", b.ID)),
		view.LinkAction("Users", fmt.Sprintf("/businesses/%d/users", b.ID)),
		view.LinkAction("Admins", fmt.Sprintf("/businesses/%d/admins", b.ID)),
		view.LinkAction("Cashflows", fmt.Sprintf("/business-cashflows/%d/of-business", b.ID)),
		view.LinkAction("User purchases", fmt.Sprintf("/users-cashflows/%d/of-business", b.ID)),
	}
	return d
}

func document(href string) view.Cell {
	if href == "" {
		return view.Text("Not uploaded")
	}
	return view.Link("Preview", href)
}

func businessForm(heading, action string, in Input, create bool) *view.Form {
	f := &view.Form{Heading: heading, Action: action, Cancel: "/businesses", Multipart: create}
	f.Field("name", "Name", view.InputText, in.Name).Require()
	f.Field("email", "Email", view.InputEmail, in.Email).Require()
	f.Field("phone", "Phone", view.InputText, in.Phone).Require()
	f.Field("address", "Address", view.InputText, in.Address).Require()
	f.Field("pan_no", "PAN no.", view.InputText, in.PanNo).Require()
	f.Field("registered_date", "Registered date", view.InputDate, in.RegisteredDate)
	f.Field("active", "Active", view.InputCheckbox, "").Checked = in.Active
	if create {
		uploadFields(f)
		f.Submit = "Create business"
	}
	return f
}

func uploadFields(f *view.Form) {
	f.Field(fieldPAN, "PAN document", view.InputFile, "")
	f.Field(fieldRegistration, "Registration document", view.InputFile, "")
}

func uploadForm(b models.Business) *view.Form {
	f := &view.Form{
		Heading:   "Documents of " + b.Name,
		Action:    fmt.Sprintf("/businesses/upload/%d", b.ID),
		Cancel:    showPath(b.ID),
		Submit:    "Upload",
		Multipart: true,
	}
	uploadFields(f)
	return f
}

var userColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "phone", Label: "Phone"},
	{Key: "gender", Label: "Gender"},
	{Key: "balance", Label: "Balance"},
	{Key: "active", Label: "Status"},
}

func userRow(u models.BusinessUser) []view.Cell {
	return []view.Cell{
		view.Link(u.Name, fmt.Sprintf("/business-users/show/%d", u.ID)),
		view.Text(u.Phone),
		view.Text(u.Gender),
		view.Money(u.Balance),
		base.StatusLabel(u.Active),
	}
}

var adminColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "phone", Label: "Phone"},
	{Key: "is_super_admin", Label: "Role"},
	{Key: "active", Label: "Status"},
}

func adminRow(a models.BusinessAdmin) []view.Cell {
	return []view.Cell{
		view.Link(a.Name, fmt.Sprintf("/business-admins/show/%d", a.ID)),
		view.Text(a.Email),
		view.Text(a.Phone),
		view.Badge(a.IsSuperAdmin.Bool(), "SuperAdmin", "Admin"),
		base.StatusLabel(a.Active),
	}
}
