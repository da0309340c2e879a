package businesscashflows

import (
	"fmt"

	"business-console/internal/models"
	"business-console/internal/screens/base"
	"business-console/internal/view"
)

var listColumns = []base.Column{
	{Key: "business", Label: "Business"},
	{Key: "admin", Label: "Done By"},
	{Key: "type", Label: "Type"},
	{Key: "amount_added", Label: "Amount Added"},
	{Key: "amount_deducted", Label: "Amount Deduct"},
	{Key: "created_at", Label: "Date"},
	{Key: "remark", Label: "Remark"},
	{Key: "options", Label: "Options"},
}

func showPath(id int64) string { return fmt.Sprintf("/business-cashflows/show/%d", id) }

func refHref(prefix string, r *models.Ref) string {
	if r == nil || r.ID == 0 {
		return ""
	}
	return fmt.Sprintf("/%s/show/%d", prefix, r.ID)
}

func row(cf models.BusinessCashflow) []view.Cell {
	return []view.Cell{
		view.Ref(cf.Business, refHref("businesses", cf.Business)),
		view.Ref(cf.Admin, refHref("business-admins", cf.Admin)),
		view.Text(cf.Type),
		view.Money(cf.AmountAdded),
		view.Money(cf.AmountDeducted),
		view.Time(cf.CreatedAt),
		view.Text(cf.Remark),
		view.Actions(
			view.LinkAction("View", showPath(cf.ID)),
			view.LinkAction("Remark", fmt.Sprintf("/business-cashflows/update-remark/%d", cf.ID)),
		),
	}
}

// detail is read-only apart from the remark; ledger rows never change.
func detail(cf models.BusinessCashflow) *view.Detail {
	d := &view.Detail{Heading: fmt.Sprintf("Cashflow #%d", cf.ID), Back: "/business-cashflows"}
	d.Add("Business", view.Ref(cf.Business, refHref("businesses", cf.Business))).
		Add("Done by", view.Ref(cf.Admin, refHref("business-admins", cf.Admin))).
		Add("Type", view.Text(cf.Type)).
		Add("Amount added", view.Money(cf.AmountAdded)).
		Add("Amount deducted", view.Money(cf.AmountDeducted)).
		Add("Remark", view.Text(cf.Remark)).
		Add("Date", view.Time(cf.CreatedAt))
	d.Actions = []view.Action{view.LinkAction("Update remark", fmt.Sprintf("/business-cashflows/update-remark/%d", cf.ID))}
	return d
}

func remarkForm(cf models.BusinessCashflow, remark string) *view.Form {
	f := &view.Form{
		Heading: fmt.Sprintf("Remark of cashflow #%d", cf.ID),
		Action:  fmt.Sprintf("/business-cashflows/update-remark/%d", cf.ID),
		Cancel:  showPath(cf.ID),
	}
	f.Field("remark", "Remark", view.InputTextarea, remark).Require()
	return f
}
