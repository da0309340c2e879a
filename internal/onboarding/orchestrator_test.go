package onboarding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"business-console/internal/common/database"
	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/models"
	"business-console/internal/notify"
)

// ==========================
// Fake backend
// ==========================

type recorded struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type route struct {
	status int
	body   string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]route
	srv      *httptest.Server
}

func newFakeBackend(t *testing.T, routes map[string]route) *fakeBackend {
	fb := &fakeBackend{routes: routes}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)

		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: body})
		rt, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no route"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) client(t *testing.T) *gateway.Client {
	c, err := gateway.New(gateway.Options{BaseURLs: map[gateway.Service]string{
		gateway.Primary:   fb.srv.URL + "/api",
		gateway.Applicant: fb.srv.URL + "/baa",
	}})
	require.NoError(t, err)
	return c
}

func (fb *fakeBackend) calls(method, path string) []recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []recorded
	for _, r := range fb.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

type fixedPlaceholders struct{}

func (fixedPlaceholders) For(a models.Applicant) Placeholders {
	return Placeholders{
		Email:          "acme.a1b2c3@placeholder.invalid",
		Phone:          "9812345678",
		Address:        "lalitpur",
		PanNo:          "123456789",
		RegisteredDate: a.CreatedAt,
	}
}

// ==========================
// Mocks
// ==========================

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enrolled(ctx context.Context, e notify.Enrollment) error {
	return m.Called(ctx, e).Error(0)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(ctx context.Context, out *Outcome) error {
	return m.Called(ctx, out).Error(0)
}

func approvedApplicant() models.Applicant {
	return models.Applicant{
		ID:            42,
		Name:          "Sita Sharma",
		Phone:         "9841000000",
		BusinessName:  "Acme",
		BusinessEmail: "sita@acme.test",
		Approved:      true,
		CreatedAt:     "2024-03-01T10:00:00Z",
	}
}

const enrolledReply = `{"id":42,"name":"Sita Sharma","phone":"9841000000","business_name":"Acme","business_email":"sita@acme.test","approved":1,"enrolled":1,"created_at":"2024-03-01T10:00:00Z"}`

func newOrchestrator(t *testing.T, fb *fakeBackend, opts Options) *Orchestrator {
	opts.Gateway = fb.client(t)
	opts.Placeholders = fixedPlaceholders{}
	opts.Logger = logger.NewTestLogger(t)
	o, err := New(opts)
	require.NoError(t, err)
	return o
}

// ==========================
// Enroll
// ==========================

func TestEnroll_FullSuccess(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"PATCH /baa/applicants/42/change-enrolled": {200, enrolledReply},
		"POST /api/businesses":                     {200, `{"id":7,"name":"Acme"}`},
		"POST /api/business-admins":                {200, `{"id":11,"name":"Sita Sharma","email":"sita@acme.test","business_id":7}`},
	})

	notifier := new(MockNotifier)
	notifier.On("Enrolled", mock.Anything, mock.MatchedBy(func(e notify.Enrollment) bool {
		return e.BusinessID == 7 && e.AdminID == 11 && e.AdminEmail == "sita@acme.test"
	})).Return(nil)

	out, err := newOrchestrator(t, fb, Options{Notifier: notifier}).Enroll(context.Background(), approvedApplicant())
	require.NoError(t, err)

	assert.True(t, out.OK())
	assert.Equal(t, "/businesses/show/7", out.RedirectPath())
	require.Len(t, out.Steps, 3)
	assert.Equal(t, []string{StepEnrollApplicant, StepCreateBusiness, StepCreateAdmin},
		[]string{out.Steps[0].Step, out.Steps[1].Step, out.Steps[2].Step})

	enrolls := fb.calls(http.MethodPatch, "/baa/applicants/42/change-enrolled")
	require.Len(t, enrolls, 1)
	assert.Equal(t, true, enrolls[0].Body["enrolled"])

	businesses := fb.calls(http.MethodPost, "/api/businesses")
	require.Len(t, businesses, 1)
	b := businesses[0].Body
	assert.Equal(t, "Acme", b["name"])
	assert.Equal(t, "acme.a1b2c3@placeholder.invalid||change", b["email"])
	assert.Equal(t, "9812345678||change", b["phone"])
	assert.Equal(t, "lalitpur||change", b["address"])
	assert.Equal(t, "123456789||change", b["pan_no"])
	assert.Equal(t, "2024-03-01T10:00:00Z||change", b["registered_date"])
	assert.Equal(t, true, b["active"])

	admins := fb.calls(http.MethodPost, "/api/business-admins")
	require.Len(t, admins, 1)
	a := admins[0].Body
	assert.Equal(t, "Sita Sharma", a["name"])
	assert.Equal(t, "sita@acme.test", a["email"])
	assert.Equal(t, "9841000000", a["phone"])
	assert.Equal(t, true, a["is_super_admin"])
	assert.Equal(t, float64(7), a["business_id"])

	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Business account created for Acme.", out.Notifications[0].Message)
	notifier.AssertExpectations(t)
}

func TestEnroll_BusinessRejectedStopsBeforeAdmin(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"PATCH /baa/applicants/42/change-enrolled": {200, enrolledReply},
		"POST /api/businesses":                     {422, `{"message":"name already taken"}`},
		"POST /api/business-admins":                {200, `{"id":11}`},
	})

	notifier := new(MockNotifier)
	out, err := newOrchestrator(t, fb, Options{Notifier: notifier}).Enroll(context.Background(), approvedApplicant())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeWorkflowStepFailed))
	assert.False(t, out.OK())
	assert.Empty(t, out.RedirectPath())

	assert.Len(t, fb.calls(http.MethodPost, "/api/businesses"), 1)
	assert.Empty(t, fb.calls(http.MethodPost, "/api/business-admins"))

	require.Len(t, out.Steps, 2)
	assert.True(t, out.Steps[0].OK, "enrollment is kept")
	assert.Equal(t, StepCreateBusiness, out.Failed().Step)
	assert.Equal(t, 422, out.Failed().Status)

	require.Len(t, out.Notifications, 1)
	assert.Equal(t, notify.LevelError, out.Notifications[0].Level)
	assert.Equal(t, "Can not create the business account for Acme because name already taken.", out.Notifications[0].Message)
	notifier.AssertNotCalled(t, "Enrolled", mock.Anything, mock.Anything)
}

func TestEnroll_AdminRejected(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"PATCH /baa/applicants/42/change-enrolled": {200, enrolledReply},
		"POST /api/businesses":                     {200, `{"id":7,"name":"Acme"}`},
		"POST /api/business-admins":                {400, `{"message":"email exists"}`},
	})

	out, err := newOrchestrator(t, fb, Options{}).Enroll(context.Background(), approvedApplicant())
	require.Error(t, err)

	require.NotNil(t, out.Business)
	assert.Equal(t, int64(7), out.Business.ID)
	assert.Nil(t, out.Admin)
	assert.Equal(t, StepCreateAdmin, out.Failed().Step)
	assert.Equal(t, "Can not create the business account for Acme because email exists.", out.Notifications[0].Message)
}

func TestEnroll_BackendDidNotEnroll(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"PATCH /baa/applicants/42/change-enrolled": {200, `{"id":42,"business_name":"Acme","approved":1,"enrolled":0}`},
	})

	out, err := newOrchestrator(t, fb, Options{}).Enroll(context.Background(), approvedApplicant())
	require.Error(t, err)

	assert.Equal(t, StepEnrollApplicant, out.Failed().Step)
	assert.Empty(t, fb.calls(http.MethodPost, "/api/businesses"))
}

func TestEnroll_TransportFailure(t *testing.T) {
	fb := newFakeBackend(t, nil)
	o := newOrchestrator(t, fb, Options{})
	fb.srv.Close()

	out, err := o.Enroll(context.Background(), approvedApplicant())
	require.Error(t, err)

	require.Len(t, out.Steps, 1)
	assert.True(t, errors.IsFetchError(out.Steps[0].Err))
	assert.Equal(t, 0, out.Steps[0].Status)
	assert.Equal(t, "Please check your internet and try again...", out.Notifications[0].Message)
}

func TestEnroll_RejectedTransitionSendsNothing(t *testing.T) {
	fb := newFakeBackend(t, nil)
	o := newOrchestrator(t, fb, Options{})

	pending := approvedApplicant()
	pending.Approved = false

	out, err := o.Enroll(context.Background(), pending)
	assert.Nil(t, out)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
	assert.Empty(t, fb.requests)
}

func TestEnroll_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"PATCH /baa/applicants/42/change-enrolled": {200, enrolledReply},
		"POST /api/businesses":                     {200, `{"id":7}`},
		"POST /api/business-admins":                {200, `{}`},
	})

	audit := new(MockAudit)
	audit.On("Record", mock.Anything, mock.Anything).Return(assert.AnError)

	out, err := newOrchestrator(t, fb, Options{Audit: audit}).Enroll(context.Background(), approvedApplicant())
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Equal(t, int64(7), out.Admin.BusinessID)
	audit.AssertExpectations(t)
}

// ==========================
// Provision
// ==========================

func TestProvision(t *testing.T) {
	fb := newFakeBackend(t, map[string]route{
		"POST /api/businesses":      {200, `{"id":9,"name":"Acme"}`},
		"POST /api/business-admins": {200, `{"id":3,"name":"Sita Sharma","business_id":9}`},
	})

	a := approvedApplicant()
	a.Enrolled = true

	out, err := newOrchestrator(t, fb, Options{}).Provision(context.Background(), a)
	require.NoError(t, err)

	assert.Empty(t, fb.calls(http.MethodPatch, "/baa/applicants/42/change-enrolled"))
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, "Business Acme created successfully.", out.Notifications[0].Message)
	assert.Equal(t, "Admin Sita Sharma added successfully to business Acme.", out.Notifications[1].Message)

	_, err = newOrchestrator(t, fb, Options{}).Provision(context.Background(), approvedApplicant())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
}

// ==========================
// Transitions
// ==========================

func TestCheckTransition(t *testing.T) {
	pending := models.Applicant{BusinessName: "Acme"}
	approved := models.Applicant{BusinessName: "Acme", Approved: true}
	enrolled := models.Applicant{BusinessName: "Acme", Approved: true, Enrolled: true}

	tests := []struct {
		name      string
		applicant models.Applicant
		change    Change
		wantErr   bool
	}{
		{"approve pending", pending, Approve, false},
		{"approve approved", approved, Approve, false},
		{"unapprove approved", approved, Unapprove, false},
		{"unapprove enrolled", enrolled, Unapprove, true},
		{"enroll pending", pending, Enroll, true},
		{"enroll approved", approved, Enroll, false},
		{"enroll enrolled", enrolled, Enroll, true},
		{"unenroll enrolled", enrolled, Unenroll, true},
		{"unenroll approved", approved, Unenroll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.applicant, tt.change)
			if tt.wantErr {
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusPending, StatusOf(models.Applicant{}))
	assert.Equal(t, StatusApproved, StatusOf(models.Applicant{Approved: true}))
	assert.Equal(t, StatusEnrolled, StatusOf(models.Applicant{Approved: true, Enrolled: true}))
}

// ==========================
// Placeholders
// ==========================

func TestRandomPlaceholders(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("a1b2c3f5-0102-0304-0506-070809000000"),
		uuid.MustParse("00010203-0405-0607-0809-0a0b0c0d0e0f"),
	}
	p := NewRandomPlaceholders("lalitpur", "placeholder.invalid")
	p.newID = func() uuid.UUID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	got := p.For(models.Applicant{BusinessName: "Acme Traders & Co.", CreatedAt: "2024-03-01"})

	assert.Equal(t, "acmetradersco.a1b2c3@placeholder.invalid", got.Email)
	assert.Regexp(t, `^9[678]\d{8}$`, got.Phone)
	assert.Equal(t, "9812345678", got.Phone)
	assert.Regexp(t, `^\d{9}$`, got.PanNo)
	assert.Equal(t, "012345678", got.PanNo)
	assert.Equal(t, "lalitpur", got.Address)
	assert.Equal(t, "2024-03-01", got.RegisteredDate)
}

func TestRandomPlaceholders_DefaultsRegisteredDate(t *testing.T) {
	p := NewRandomPlaceholders("lalitpur", "x.invalid")
	p.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }

	got := p.For(models.Applicant{})
	assert.Equal(t, "2025-06-02", got.RegisteredDate)
	assert.Contains(t, got.Email, "business.")
}

// ==========================
// Audit
// ==========================

func TestPostgresAudit_Record(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	audit := NewPostgresAudit(database.NewPostgresFromDB(db))
	audit.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	out := &Outcome{
		Applicant: approvedApplicant(),
		Steps: []StepResult{
			{Step: StepEnrollApplicant, Status: 200, OK: true},
			{Step: StepCreateBusiness, Status: 422, Message: "taken"},
		},
	}

	sqlMock.ExpectExec("INSERT INTO onboarding_audit").
		WithArgs(int64(42), "Acme", StepCreateBusiness, nil, nil,
			`[{"step":"enroll-applicant","status":200,"ok":true,"duration_ms":0},{"step":"create-business","status":422,"ok":false,"message":"taken","duration_ms":0}]`,
			time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, audit.Record(context.Background(), out))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestPostgresAudit_EnsureSchemaError(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectExec("CREATE TABLE IF NOT EXISTS onboarding_audit").WillReturnError(assert.AnError)

	err = NewPostgresAudit(database.NewPostgresFromDB(db)).EnsureSchema(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
