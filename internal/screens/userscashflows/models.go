package userscashflows

import (
	"fmt"
	"strings"

	"business-console/internal/models"
	"business-console/internal/view"
)

func showPath(id int64) string { return fmt.Sprintf("/users-cashflows/show/%d", id) }

// receipts builds links to the completed-transaction page of the reference
// service.
type receipts struct {
	base string
}

func (r receipts) cell(cf models.UsersCashflow) view.Cell {
	ref := string(cf.ReferenceID)
	label := cf.Receipt
	if label == "" {
		label = ref
	}
	if ref == "" || r.base == "" {
		return view.Text(label)
	}
	return view.Link(label, strings.TrimSuffix(r.base, "/")+"/"+ref)
}

func (r receipts) row(cf models.UsersCashflow) []view.Cell {
	return []view.Cell{
		view.Ref(cf.Business, refHref("businesses", cf.Business)),
		view.Ref(cf.User, refHref("business-users", cf.User)),
		view.Text(cf.ServiceType),
		view.Money(cf.Amount),
		r.cell(cf),
		view.Time(cf.CreatedAt),
		view.Actions(view.LinkAction("View", showPath(cf.ID))),
	}
}

func (r receipts) detail(cf models.UsersCashflow) *view.Detail {
	d := &view.Detail{Heading: fmt.Sprintf("Purchase #%d", cf.ID), Back: "/users-cashflows"}
	d.Add("Business", view.Ref(cf.Business, refHref("businesses", cf.Business))).
		Add("User", view.Ref(cf.User, refHref("business-users", cf.User))).
		Add("Service type", view.Text(cf.ServiceType)).
		Add("Amount", view.Money(cf.Amount)).
		Add("Receipt", r.cell(cf)).
		Add("Reference", view.Text(string(cf.ReferenceID))).
		Add("Remark", view.Text(cf.Remark)).
		Add("Date", view.Time(cf.CreatedAt))
	return d
}

func refHref(prefix string, r *models.Ref) string {
	if r == nil || r.ID == 0 {
		return ""
	}
	return fmt.Sprintf("/%s/show/%d", prefix, r.ID)
}
