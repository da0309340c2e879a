package businessusers

import (
	"fmt"
	"strconv"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

type Input struct {
	Name         string
	Phone        string
	Gender       string
	BusinessID   int64
	BusinessName string
	Active       bool
}

func (in Input) values() map[string]interface{} {
	return map[string]interface{}{
		"name":        in.Name,
		"phone":       in.Phone,
		"gender":      in.Gender,
		"business_id": in.BusinessID,
	}
}

// Payload omits business_id when none was chosen.
func (in Input) Payload(create bool) map[string]interface{} {
	p := in.values()
	if in.BusinessID == 0 {
		delete(p, "business_id")
	}
	if create {
		p["active"] = in.Active
	}
	return p
}

func inputFrom(u models.BusinessUser) Input {
	in := Input{Name: u.Name, Phone: u.Phone, Gender: u.Gender, BusinessID: u.BusinessID, Active: u.Active.Bool()}
	if u.Business != nil {
		in.BusinessName = u.Business.Name
		if in.BusinessID == 0 {
			in.BusinessID = u.Business.ID
		}
	}
	return in
}

var listColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "business", Label: "Business"},
	{Key: "phone", Label: "Phone"},
	{Key: "gender", Label: "Gender"},
	{Key: "balance", Label: "Balance"},
	{Key: "active", Label: "Status"},
	{Key: "options", Label: "Options"},
}

func showPath(id int64) string { return fmt.Sprintf("/business-users/show/%d", id) }

func businessHref(r *models.Ref) string {
	if r == nil || r.ID == 0 {
		return ""
	}
	return fmt.Sprintf("/businesses/show/%d", r.ID)
}

func row(u models.BusinessUser) []view.Cell {
	return []view.Cell{
		view.Link(u.Name, showPath(u.ID)),
		view.Ref(u.Business, businessHref(u.Business)),
		view.Text(u.Phone),
		view.Text(u.Gender),
		view.Money(u.Balance),
		statusCell(u),
		view.Actions(
			view.LinkAction("View", showPath(u.ID)),
			view.LinkAction("Edit", fmt.Sprintf("/business-users/edit/%d", u.ID)),
			view.LinkAction("Balance", fmt.Sprintf("/business-users/balance/%d", u.ID)),
		),
	}
}

func statusCell(u models.BusinessUser) view.Cell {
	label := "Inactive"
	if u.Active.Bool() {
		label = "Active"
	}
	return view.Switch(label, fmt.Sprintf("/business-users/%d/status", u.ID), u.Active.Bool(),
		map[string]string{"active": strconv.FormatBool(!u.Active.Bool()), "name": u.Name})
}

func detail(u models.BusinessUser) *view.Detail {
	d := &view.Detail{Heading: u.Name, Back: "/business-users"}
	d.Add("Name", view.Text(u.Name)).
		Add("Phone", view.Text(u.Phone)).
		Add("Gender", view.Text(u.Gender)).
		Add("Business", view.Ref(u.Business, businessHref(u.Business))).
		Add("Balance", view.Money(u.Balance)).
		Add("Status", statusCell(u)).
		Add("Created", view.Time(u.CreatedAt))
	d.Actions = []view.Action{
		view.LinkAction("Edit", fmt.Sprintf("/business-users/edit/%d", u.ID)),
		view.LinkAction("Balance", fmt.Sprintf("/business-users/balance/%d", u.ID)),
		view.LinkAction("Cashflows", fmt.Sprintf("/business-cashflows/%d/of-user", u.ID)),
		view.LinkAction("Purchases", fmt.Sprintf("/users-cashflows/%d/of-user", u.ID)),
	}
	return d
}

func userForm(heading, action string, in Input, genders []string, create bool) *view.Form {
	f := &view.Form{Heading: heading, Action: action, Cancel: "/business-users"}
	f.Field("name", "Name", view.InputText, in.Name).Require()
	f.Field("phone", "Phone", view.InputText, in.Phone).Require()
	f.Field("gender", "Gender", view.InputSelect, in.Gender).Select(genders...).Require()
	f.BusinessPicker("business_id", "Business", in.BusinessID, in.BusinessName)
	if create {
		f.Field("active", "Active", view.InputCheckbox, "").Checked = in.Active
		f.Submit = "Add user"
	}
	return f
}
