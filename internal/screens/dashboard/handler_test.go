package dashboard

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-console/internal/screens/screentest"
)

func newBrowser(t *testing.T, backend *screentest.Backend) *screentest.Browser {
	h, err := NewHandler(HandlerOptions{Deps: screentest.Deps(t, backend)})
	require.NoError(t, err)
	return screentest.NewBrowser(t, func(r gin.IRouter) { h.Register(r) })
}

func TestDashboard_ShowsTotals(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/businesses", 200, `{"businesses":[],"total":12}`).
		On(http.MethodGet, "/api/business-admins", 200, `{"business_admins":[],"total":"7"}`).
		On(http.MethodGet, "/api/business-users", 200, `{"business_users":[],"total":40}`).
		On(http.MethodGet, "/baa/applicants", 200, `{"applicants":[],"total":3}`)

	w := newBrowser(t, backend).Get("/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<span class="card-value">7</span><span class="card-label">Admins</span>`)
	assert.Contains(t, body, `<span class="card-value">40</span><span class="card-label">Users</span>`)
	assert.Contains(t, body, `<span class="card-value">3</span><span class="card-label">Applicants</span>`)

	calls := backend.Calls(http.MethodGet, "/api/businesses")
	require.Len(t, calls, 2)
	var actives []string
	for _, c := range calls {
		actives = append(actives, c.Query.Get("active"))
	}
	assert.ElementsMatch(t, []string{"yes", "no"}, actives)
}

func TestDashboard_RejectedCountIsReported(t *testing.T) {
	backend := screentest.NewBackend(t).
		On(http.MethodGet, "/api/businesses", 200, `{"total":1}`).
		On(http.MethodGet, "/api/business-admins", 200, `{"total":1}`).
		On(http.MethodGet, "/api/business-users", 500, `{"message":"boom"}`).
		On(http.MethodGet, "/baa/applicants", 200, `{"total":1}`)

	w := newBrowser(t, backend).Get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Some totals could not be loaded: Users")
}

func TestDashboard_TransportFailureRendersFallback(t *testing.T) {
	backend := screentest.NewBackend(t)
	b := newBrowser(t, backend)
	backend.Close()

	w := b.Get("/")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Please check your internet and try again...")
}
