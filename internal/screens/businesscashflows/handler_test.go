package businesscashflows

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-console/internal/screens/screentest"
)

const topup = `{"id":21,"type":"add","amount_added":"500.00","amount_deducted":"0","remark":"topup",` +
	`"business_id":7,"admin_id":5,"business":{"id":7,"name":"Acme"},"admin":{"id":5,"name":"Hari"},"created_at":"2023-03-05T09:30:00Z"}`

func newBrowser(t *testing.T, backend *screentest.Backend) *screentest.Browser {
	h, err := NewHandler(HandlerOptions{Deps: screentest.Deps(t, backend)})
	require.NoError(t, err)
	return screentest.NewBrowser(t, func(r gin.IRouter) { h.Register(r) })
}

func TestList(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/business-cashflows", 200, `{"business_cashflows":[`+topup+`],"total":1}`)

	w := newBrowser(t, backend).Get("/business-cashflows?orderBy=created_at&order=desc")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<a href="/business-admins/show/5">Hari</a>`)
	assert.Contains(t, body, "March 05, 2023, 9:30 AM")
	assert.Contains(t, body, `href="/business-cashflows/update-remark/21"`)

	calls := backend.Calls(http.MethodGet, "/api/business-cashflows")
	require.Len(t, calls, 1)
	assert.Equal(t, "created_at", calls[0].Query.Get("orderBy"))
	assert.Equal(t, "desc", calls[0].Query.Get("order"))
}

func TestNestedLedgers(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/business-cashflows/7/of-business", 200, `{"business_cashflows":[`+topup+`],"total":1}`).
		On(http.MethodGet, "/api/business-cashflows/5/by-admin", 200, `{"business_cashflows":[],"total":0}`)
	b := newBrowser(t, backend)

	w := b.Get("/business-cashflows/7/of-business")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cashflows of business #7")

	w = b.Get("/business-cashflows/5/by-admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data found")

	w = b.Get("/business-cashflows/3/of-user")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data found")
	assert.Len(t, backend.Calls(http.MethodGet, "/api/business-cashflows/3/of-user"), 1)
}

func TestUpdateRemark(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/business-cashflows/21", 200, topup).
		On(http.MethodPatch, "/api/business-cashflows/21/update-remark", 200, topup)
	b := newBrowser(t, backend)

	w := b.Post("/business-cashflows/update-remark/21", url.Values{"remark": {"refund for order 88"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/business-cashflows/show/21", w.Header().Get("Location"))

	calls := backend.Calls(http.MethodPatch, "/api/business-cashflows/21/update-remark")
	require.Len(t, calls, 1)
	assert.Equal(t, "refund for order 88", calls[0].Body["remark"])

	assert.Contains(t, b.Follow(w).Body.String(), "Remark updated successfully.")
}

func TestUpdateRemark_Empty(t *testing.T) {
	backend := screentest.NewBackend(t).On(http.MethodGet, "/api/business-cashflows/21", 200, topup)

	w := newBrowser(t, backend).Post("/business-cashflows/update-remark/21", url.Values{"remark": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Remark is required")
}

func TestShow_BackendRejected(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/business-cashflows/21", 500, `{"message":"ledger offline"}`)

	w := newBrowser(t, backend).Get("/business-cashflows/show/21")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load cashflow")
}
