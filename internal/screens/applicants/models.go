package applicants

import (
	"fmt"
	"net/url"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

// Input is the applicant form as submitted.
type Input struct {
	Name          string
	Phone         string
	BusinessName  string
	BusinessEmail string
	Approved      bool
	Enrolled      bool
}

// Payload is the create body. An applicant cannot be enrolled before it is
// approved, so enrolled is dropped unless approved is set.
func (in Input) Payload() map[string]interface{} {
	p := in.editPayload()
	p["approved"] = in.Approved
	p["enrolled"] = in.Approved && in.Enrolled
	return p
}

// editPayload carries the contact fields only; approval and enrollment have
// their own endpoints.
func (in Input) editPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":           in.Name,
		"phone":          in.Phone,
		"business_name":  in.BusinessName,
		"business_email": in.BusinessEmail,
	}
}

func inputFrom(a models.Applicant) Input {
	return Input{
		Name:          a.Name,
		Phone:         a.Phone,
		BusinessName:  a.BusinessName,
		BusinessEmail: a.BusinessEmail,
		Approved:      a.Approved.Bool(),
		Enrolled:      a.Enrolled.Bool(),
	}
}

var listColumns = []base.Column{
	{Key: "name", Label: "Name"},
	{Key: "phone", Label: "Phone"},
	{Key: "business_name", Label: "Business Name"},
	{Key: "business_email", Label: "Business Email"},
	{Key: "approved", Label: "Approved"},
	{Key: "enrolled", Label: "Enrolled"},
	{Key: "created_at", Label: "Requested Date"},
	{Key: "options", Label: "Options"},
}

func showPath(id int64) string { return fmt.Sprintf("/applicants/show/%d", id) }

func ofUserPath(phone string) string {
	return "/applicants/" + url.PathEscape(phone) + "/of-user"
}

func row(a models.Applicant) []view.Cell {
	return []view.Cell{
		view.Link(a.Name, showPath(a.ID)),
		view.Link(a.Phone, ofUserPath(a.Phone)),
		view.Text(a.BusinessName),
		view.Text(a.BusinessEmail),
		approvalCell(a),
		enrollCell(a),
		view.Time(a.CreatedAt),
		view.Actions(
			view.LinkAction("View", showPath(a.ID)),
			view.LinkAction("Edit", fmt.Sprintf("/applicants/edit/%d", a.ID)),
			view.LinkAction("Remarks", fmt.Sprintf("/applicants/remarks/%d", a.ID)),
		),
	}
}

func approvalCell(a models.Applicant) view.Cell {
	href := fmt.Sprintf("/applicants/%d/approve", a.ID)
	if a.Approved.Bool() {
		if a.Enrolled.Bool() {
			return view.Badge(true, "Approved", "")
		}
		action := view.PostAction("Unapprove", href, map[string]string{"approved": "false"})
		action.Style = "btn-warning"
		return view.Actions(action)
	}
	action := view.PostAction("Approve", href, map[string]string{"approved": "true"})
	action.Style = "btn-primary"
	return view.Actions(action)
}

// enrollCell offers enrollment only to approved applicants; enrollment
// cannot be undone.
func enrollCell(a models.Applicant) view.Cell {
	switch {
	case a.Enrolled.Bool():
		return view.Badge(true, "Enrolled", "")
	case !a.Approved.Bool():
		return view.Badge(false, "", "Pending approval")
	}
	action := view.PostAction("Enroll", fmt.Sprintf("/applicants/%d/enroll", a.ID), nil)
	action.Style = "btn-primary"
	action.Confirm = fmt.Sprintf("Create a business account for %s?", a.BusinessName)
	return view.Actions(action)
}

func detail(a models.Applicant) *view.Detail {
	d := &view.Detail{Heading: a.BusinessName, Back: "/applicants"}
	d.Add("Name", view.Text(a.Name)).
		Add("Phone", view.Link(a.Phone, ofUserPath(a.Phone))).
		Add("Business name", view.Text(a.BusinessName)).
		Add("Business email", view.Text(a.BusinessEmail)).
		Add("Approved", approvalCell(a)).
		Add("Enrolled", enrollCell(a)).
		Add("Remarks", view.Text(a.Remarks)).
		Add("Requested", view.Time(a.CreatedAt))
	d.Actions = []view.Action{
		view.LinkAction("Edit", fmt.Sprintf("/applicants/edit/%d", a.ID)),
		view.LinkAction("Remarks", fmt.Sprintf("/applicants/remarks/%d", a.ID)),
	}
	return d
}

func applicantForm(heading, action string, in Input, create bool) *view.Form {
	f := &view.Form{Heading: heading, Action: action, Cancel: "/applicants"}
	f.Field("name", "Name", view.InputText, in.Name).Require()
	f.Field("phone", "Phone", view.InputText, in.Phone).Require()
	f.Field("business_name", "Business name", view.InputText, in.BusinessName).Require()
	f.Field("business_email", "Business email", view.InputEmail, in.BusinessEmail).Require()
	if create {
		f.Field("approved", "Approved", view.InputCheckbox, "").Checked = in.Approved
		enrolled := f.Field("enrolled", "Enrolled", view.InputCheckbox, "")
		enrolled.Checked = in.Enrolled
		enrolled.Hint = "Only applied to approved applicants"
		f.Submit = "Submit application"
	}
	return f
}

func remarksForm(a models.Applicant, remarks string) *view.Form {
	f := &view.Form{
		Heading: "Remarks for " + a.BusinessName,
		Action:  fmt.Sprintf("/applicants/remarks/%d", a.ID),
		Cancel:  showPath(a.ID),
	}
	f.Field("remarks", "Remarks", view.InputTextarea, remarks).Require()
	return f
}
