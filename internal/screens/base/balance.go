package base

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"business-console/internal/common/errors"
	"business-console/internal/common/validation"
	"business-console/internal/mutations"
	"business-console/internal/notify"
	"business-console/internal/view"
)

// Balance describes the entity a balance form changes.
type Balance struct {
	Resource string
	ID       int64
	Name     string
	Current  decimal.Decimal
	Cancel   string
}

func (b Balance) path() string {
	return fmt.Sprintf("/%s/balance/%d", b.Resource, b.ID)
}

// Form is the add/deduct form. The heading shows the balance as last read
// from the backend.
func (b Balance) Form(direction, amount string) *view.Form {
	f := &view.Form{
		Heading: fmt.Sprintf("Balance of %s: %s", b.Name, b.Current.String()),
		Action:  b.path(),
		Cancel:  b.Cancel,
		Submit:  "Apply",
	}
	if direction == "" {
		direction = string(mutations.Add)
	}
	f.Field("direction", "Action", view.InputSelect, direction).Select(string(mutations.Add), string(mutations.Deduct))
	f.Field("amount", "Amount", view.InputNumber, amount).Require().Hint = "Whole number greater than zero"
	return f
}

func balanceSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"direction", "amount"},
		Properties: map[string]validation.Property{
			"direction": {Type: "string", Label: "Action", Enum: []string{string(mutations.Add), string(mutations.Deduct)}},
			"amount":    {Type: "string", Label: "Amount"},
		},
	}
}

// SubmitBalance applies a posted balance form. The new balance comes from
// the entity the backend returns and is decoded with balanceOf.
func SubmitBalance[T any](c *gin.Context, d *Deps, b Balance, balanceOf func(T) decimal.Decimal) {
	values := Values(c, "direction", "amount")
	form := b.Form(values["direction"].(string), values["amount"].(string))
	if result := validation.ValidateInput(values, balanceSchema()); !result.Valid {
		Invalid(c, "Balance", form, result)
		return
	}

	dir, _ := mutations.ParseDirection(values["direction"].(string))
	res, err := d.Mutations.AdjustBalance(c.Request.Context(), b.Resource, b.ID, dir, values["amount"].(string))
	switch {
	case errors.HasCode(err, errors.ErrCodeInvalidAmount):
		form.Fields[1].Error = errors.UserMessage(err)
		view.Render(c, http.StatusUnprocessableEntity, view.PageForm, "Balance", form)
		return
	case err != nil || !res.OK:
		d.Redisplay(c, "Balance", form, res, err)
		return
	}

	msg := fmt.Sprintf("Balance of %s updated successfully.", b.Name)
	var updated T
	if err := res.Decode(&updated); err == nil {
		msg += " New balance: " + balanceOf(updated).String() + "."
	}
	notify.Flash(c, notify.Success(msg))
	SeeOther(c, b.path())
}
