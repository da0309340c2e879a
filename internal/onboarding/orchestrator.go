package onboarding

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/common/metrics"
	"business-console/internal/models"
	"business-console/internal/notify"
)

// EnrollmentNotifier is told about every fully successful run.
type EnrollmentNotifier interface {
	Enrolled(ctx context.Context, e notify.Enrollment) error
}

// Recorder receives one measurement per run.
type Recorder interface {
	RecordOnboarding(ctx context.Context, duration time.Duration, status string)
}

type Options struct {
	Gateway      gateway.Caller
	Placeholders PlaceholderSource
	Audit        AuditSink
	Notifier     EnrollmentNotifier
	Recorder     Recorder
	Logger       logger.Logger
}

type Orchestrator struct {
	gateway      gateway.Caller
	placeholders PlaceholderSource
	audit        AuditSink
	notifier     EnrollmentNotifier
	recorder     Recorder
	logger       logger.Logger
	now          func() time.Time
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if opts.Placeholders == nil {
		return nil, fmt.Errorf("placeholder source is required")
	}
	if opts.Audit == nil {
		opts.Audit = NopAudit{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Orchestrator{
		gateway:      opts.Gateway,
		placeholders: opts.Placeholders,
		audit:        opts.Audit,
		notifier:     opts.Notifier,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		now:          time.Now,
	}, nil
}

// Enroll marks an approved applicant enrolled and provisions its business
// and super admin. The applicant snapshot is checked against the lifecycle
// before anything is sent; a rejected transition returns no outcome.
//
// A failing step stops the run. Earlier steps are not undone, so an
// enrolled applicant may be left without a business.
func (o *Orchestrator) Enroll(ctx context.Context, current models.Applicant) (*Outcome, error) {
	if err := CheckTransition(current, Enroll); err != nil {
		return nil, err
	}

	start := o.now()
	out := &Outcome{Applicant: current}

	enrolled, ok := o.enrollApplicant(ctx, out)
	if ok {
		out.Applicant = enrolled
		if o.createBusiness(ctx, out) && o.createAdmin(ctx, out) {
			out.Notifications = append(out.Notifications,
				notify.Success(fmt.Sprintf("Business account created for %s.", out.Applicant.BusinessName)))
		}
	}

	return out, o.finish(ctx, out, start)
}

// Provision runs the business and admin steps for an applicant the backend
// already reports as enrolled, as happens when one is added pre-enrolled.
func (o *Orchestrator) Provision(ctx context.Context, applicant models.Applicant) (*Outcome, error) {
	if !applicant.Enrolled.Bool() {
		return nil, errors.NewInvalidTransitionError(fmt.Sprintf("Applicant for business %s is not enrolled.", applicant.BusinessName))
	}

	start := o.now()
	out := &Outcome{Applicant: applicant}

	if o.createBusiness(ctx, out) {
		out.Notifications = append(out.Notifications,
			notify.Success(fmt.Sprintf("Business %s created successfully.", out.Business.Name)))
		if o.createAdmin(ctx, out) {
			out.Notifications = append(out.Notifications,
				notify.Success(fmt.Sprintf("Admin %s added successfully to business %s.", out.Admin.Name, out.Business.Name)))
		}
	}

	return out, o.finish(ctx, out, start)
}

// ==========================
// Steps
// ==========================

func (o *Orchestrator) enrollApplicant(ctx context.Context, out *Outcome) (models.Applicant, bool) {
	a := out.Applicant
	path := fmt.Sprintf("/applicants/%d/change-enrolled", a.ID)

	res, resp := o.run(ctx, StepEnrollApplicant, gateway.Applicant, path, http.MethodPatch, map[string]bool{"enrolled": true})
	if resp == nil {
		o.fail(out, res)
		return a, false
	}

	var reply models.Applicant
	if err := resp.Decode(&reply); err != nil {
		res.OK = false
		res.Message = "Fetch Error"
		res.Err = errors.NewFetchError(path, err)
		o.fail(out, res)
		return a, false
	}
	if !reply.Enrolled.Bool() {
		res.OK = false
		res.Message = fmt.Sprintf("Applicant for business %s was not enrolled.", a.BusinessName)
		res.Err = errors.NewWorkflowStepFailedError(StepEnrollApplicant, res.Message)
		o.fail(out, res)
		return a, false
	}

	out.Steps = append(out.Steps, res)
	if reply.BusinessName == "" {
		reply.BusinessName = a.BusinessName
	}
	if reply.Name == "" {
		reply.Name, reply.Phone, reply.BusinessEmail = a.Name, a.Phone, a.BusinessEmail
	}
	if reply.CreatedAt == "" {
		reply.CreatedAt = a.CreatedAt
	}
	return reply, true
}

type businessPayload struct {
	Name           string                    `json:"name"`
	Email          models.Reviewable[string] `json:"email"`
	Phone          models.Reviewable[string] `json:"phone"`
	Address        models.Reviewable[string] `json:"address"`
	RegisteredDate models.Reviewable[string] `json:"registered_date"`
	PanNo          models.Reviewable[string] `json:"pan_no"`
	Active         bool                      `json:"active"`
}

func (o *Orchestrator) createBusiness(ctx context.Context, out *Outcome) bool {
	a := out.Applicant
	p := o.placeholders.For(a)
	body := businessPayload{
		Name:           a.BusinessName,
		Email:          models.Placeholder(p.Email),
		Phone:          models.Placeholder(p.Phone),
		Address:        models.Placeholder(p.Address),
		RegisteredDate: models.Placeholder(p.RegisteredDate),
		PanNo:          models.Placeholder(p.PanNo),
		Active:         true,
	}

	res, resp := o.run(ctx, StepCreateBusiness, gateway.Primary, "/businesses", http.MethodPost, body)
	if resp == nil {
		if !errors.IsFetchError(res.Err) {
			res.Message = o.cannotCreate(a, res.Message)
		}
		o.fail(out, res)
		return false
	}

	var business models.Business
	if err := resp.Decode(&business); err != nil || business.ID == 0 {
		res.OK = false
		res.Message = o.cannotCreate(a, "the backend did not return the new business")
		res.Err = errors.NewWorkflowStepFailedError(StepCreateBusiness, res.Message)
		o.fail(out, res)
		return false
	}
	if business.Name == "" {
		business.Name = a.BusinessName
	}

	out.Business = &business
	out.Steps = append(out.Steps, res)
	return true
}

type adminPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Active       bool   `json:"active"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	BusinessID   int64  `json:"business_id"`
}

func (o *Orchestrator) createAdmin(ctx context.Context, out *Outcome) bool {
	a := out.Applicant
	body := adminPayload{
		Name:         a.Name,
		Email:        a.BusinessEmail,
		Phone:        a.Phone,
		Active:       true,
		IsSuperAdmin: true,
		BusinessID:   out.Business.ID,
	}

	res, resp := o.run(ctx, StepCreateAdmin, gateway.Primary, "/business-admins", http.MethodPost, body)
	if resp == nil {
		if !errors.IsFetchError(res.Err) {
			res.Message = o.cannotCreate(a, res.Message)
		}
		o.fail(out, res)
		return false
	}

	admin := models.BusinessAdmin{
		Name:         body.Name,
		Email:        body.Email,
		Phone:        body.Phone,
		IsSuperAdmin: true,
		Active:       true,
		BusinessID:   body.BusinessID,
	}
	if len(resp.Body) > 0 {
		_ = resp.Decode(&admin)
	}
	if admin.BusinessID == 0 {
		admin.BusinessID = out.Business.ID
	}

	out.Admin = &admin
	out.Steps = append(out.Steps, res)
	return true
}

// run issues one step request. It returns the response only for a 2xx
// answer; otherwise the result carries the failure.
func (o *Orchestrator) run(ctx context.Context, step string, svc gateway.Service, path, method string, body interface{}) (StepResult, *gateway.Response) {
	res := StepResult{Step: step, StartedAt: o.now()}
	resp, err := o.gateway.Call(ctx, svc, path, method, body)
	res.Duration = o.now().Sub(res.StartedAt)

	if err != nil {
		res.Err = err
		res.Message = errors.UserMessage(err)
		return res, nil
	}

	res.Status = resp.Status
	if !resp.OK() {
		res.Message = resp.Message()
		if res.Message == "" {
			res.Message = fmt.Sprintf("request failed with status %d", resp.Status)
		}
		res.Err = errors.NewWorkflowStepFailedError(step, res.Message).WithMetadata("status", resp.Status)
		return res, nil
	}

	res.OK = true
	return res, resp
}

func (o *Orchestrator) fail(out *Outcome, res StepResult) {
	res.OK = false
	out.Steps = append(out.Steps, res)
	out.Notifications = append(out.Notifications, notify.Error(res.Message))
}

func (o *Orchestrator) cannotCreate(a models.Applicant, reason string) string {
	return fmt.Sprintf("Can not create the business account for %s because %s.", a.BusinessName, reason)
}

// finish records metrics, audits and notifies. None of these can change
// the outcome; their failures are only logged.
func (o *Orchestrator) finish(ctx context.Context, out *Outcome, start time.Time) error {
	for _, s := range out.Steps {
		metrics.OnboardingStepsTotal.WithLabelValues(s.Step, metrics.Result(s.OK)).Inc()
	}
	if o.recorder != nil {
		o.recorder.RecordOnboarding(ctx, o.now().Sub(start), out.status())
	}

	fields := map[string]interface{}{
		"applicantId":  out.Applicant.ID,
		"businessName": out.Applicant.BusinessName,
		"status":       out.status(),
	}

	if err := o.audit.Record(ctx, out); err != nil {
		o.logger.Warn("Failed to write onboarding audit", map[string]interface{}{
			"applicantId": out.Applicant.ID,
			"error":       err.Error(),
		})
	}

	failed := out.Failed()
	if failed != nil {
		fields["step"] = failed.Step
		fields["stepStatus"] = failed.Status
		fields["message"] = failed.Message
		o.logger.Warn("Onboarding stopped", fields)
		return errors.NewWorkflowStepFailedError(failed.Step, failed.Message).
			WithMetadata("applicantId", strconv.FormatInt(out.Applicant.ID, 10))
	}

	if out.Business != nil {
		fields["businessId"] = out.Business.ID
	}
	o.logger.Info("Onboarding completed", fields)

	if o.notifier != nil {
		if err := o.notifier.Enrolled(ctx, out.enrollment()); err != nil {
			o.logger.Warn("Failed to send enrollment notice", map[string]interface{}{
				"applicantId": out.Applicant.ID,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
