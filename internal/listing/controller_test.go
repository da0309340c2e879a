package listing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/models"
	"business-console/internal/query"
)

// ==========================
// Mocks
// ==========================

type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) Call(ctx context.Context, svc gateway.Service, path, method string, body interface{}) (*gateway.Response, error) {
	args := m.Called(ctx, svc, path, method, body)
	if resp := args.Get(0); resp != nil {
		return resp.(*gateway.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func respond(status int, body string) *gateway.Response {
	return &gateway.Response{Status: status, Body: json.RawMessage(body)}
}

func applicantController(caller gateway.Caller) *Controller[models.Applicant] {
	return New[models.Applicant](caller, Options{
		Resource:     "applicants",
		Service:      gateway.Applicant,
		Path:         "/applicants",
		EnvelopeKey:  "applicants",
		DefaultLimit: 10,
	})
}

// ==========================
// Load
// ==========================

func TestLoad_AppliesDefaultsAndFilters(t *testing.T) {
	caller := new(MockCaller)
	caller.On("Call", mock.Anything, gateway.Applicant, "/applicants?approved=yes&limit=10&page=1", http.MethodGet, nil).
		Return(respond(200, `{"applicants":[{"id":1,"name":"Sita","approved":1}],"currentPage":1,"limit":10,"pages":1,"total":1}`), nil)

	f, err := query.Decode(url.Values{"approved": {"yes"}}, query.Spec{Fields: []query.Field{{Name: "approved", Kind: query.Tri}}})
	require.NoError(t, err)

	page, err := applicantController(caller).Load(context.Background(), f, 0, 0)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sita", page.Items[0].Name)
	assert.Equal(t, 1, page.Total)
	caller.AssertExpectations(t)
}

func TestLoad_RejectedYieldsEmptyPage(t *testing.T) {
	caller := new(MockCaller)
	caller.On("Call", mock.Anything, gateway.Applicant, mock.Anything, http.MethodGet, nil).
		Return(respond(500, `{"message":"boom"}`), nil)

	page, err := applicantController(caller).Load(context.Background(), query.Filters{}, 3, 25)
	require.NoError(t, err)

	assert.Equal(t, &models.Page[models.Applicant]{Items: []models.Applicant{}, CurrentPage: 3, Limit: 25}, page)
}

func TestLoad_TransportFailure(t *testing.T) {
	caller := new(MockCaller)
	caller.On("Call", mock.Anything, gateway.Applicant, mock.Anything, http.MethodGet, nil).
		Return(nil, errors.NewFetchError("/applicants", assert.AnError))

	page, err := applicantController(caller).Load(context.Background(), query.Filters{}, 1, 10)
	assert.Nil(t, page)
	assert.True(t, errors.IsFetchError(err))
}

func TestLoad_MalformedEnvelope(t *testing.T) {
	caller := new(MockCaller)
	caller.On("Call", mock.Anything, gateway.Applicant, mock.Anything, http.MethodGet, nil).
		Return(respond(200, `{"applicants":"nope"}`), nil)

	_, err := applicantController(caller).Load(context.Background(), query.Filters{}, 1, 10)
	assert.True(t, errors.IsFetchError(err))
}

func TestLoadFrom_NestedPath(t *testing.T) {
	caller := new(MockCaller)
	caller.On("Call", mock.Anything, gateway.Primary, "/businesses/7/users?limit=20&name=ram&page=2", http.MethodGet, nil).
		Return(respond(200, `{"business_users":[],"total":0}`), nil)

	ctrl := New[models.BusinessUser](caller, Options{Resource: "business-users", Path: "/business-users"})
	f := query.Filters{Text: map[string]string{"name": "ram"}}

	page, err := ctrl.LoadFrom(context.Background(), "/businesses/7/users", f, 2, 0)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.CurrentPage, "missing envelope fields fall back to the request")
	assert.Equal(t, 20, page.Limit)
	caller.AssertExpectations(t)
}

// ==========================
// Pagination
// ==========================

func TestPagination(t *testing.T) {
	tests := []struct {
		name    string
		current int
		pages   int
		want    Pager
	}{
		{"no pages", 1, 0, Pager{Current: 1}},
		{"single", 1, 1, Pager{Current: 1, Pages: 1, Numbers: []int{1}}},
		{"first of many", 1, 9, Pager{Current: 1, Pages: 9, Next: 2, Numbers: []int{1, 2, 3}}},
		{"middle", 5, 9, Pager{Current: 5, Pages: 9, Prev: 4, Next: 6, Numbers: []int{3, 4, 5, 6, 7}}},
		{"last", 9, 9, Pager{Current: 9, Pages: 9, Prev: 8, Numbers: []int{7, 8, 9}}},
		{"beyond last keeps server page", 12, 3, Pager{Current: 12, Pages: 3, Prev: 3, Numbers: []int{1, 2, 3}}},
		{"zero keeps server page", 0, 4, Pager{Current: 0, Pages: 4, Numbers: []int{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pagination(tt.current, tt.pages))
		})
	}
}
