// Package mutations issues the single-request state changes behind every
// toggle, balance form, settings form and edit form.
package mutations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/common/metrics"
	"business-console/internal/models"
	"business-console/internal/onboarding"
)

// Gateway is the transport used by the service.
type Gateway interface {
	gateway.Caller
	gateway.Uploader
}

// Result is the backend's answer to a mutation. A non-2xx answer is a
// Result with OK false, not an error; errors are transport failures and
// local rejections.
type Result struct {
	Status  int
	OK      bool
	Message string
	Body    json.RawMessage
}

// Decode unmarshals the returned entity.
func (r *Result) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body (status %d)", r.Status)
	}
	return json.Unmarshal(r.Body, v)
}

// Target addresses a collection on one of the backends.
type Target struct {
	Service gateway.Service
	Path    string
}

// Document kinds accepted by UploadDocument.
const (
	DocumentPAN          = "pan"
	DocumentRegistration = "registration"
)

var (
	statusResources  = map[string]bool{"businesses": true, "business-admins": true, "business-users": true}
	balanceResources = map[string]bool{"businesses": true, "business-users": true}
)

type Service struct {
	gateway Gateway
	logger  logger.Logger
}

func New(gw Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{gateway: gw, logger: log}
}

func (s *Service) SetStatus(ctx context.Context, resource string, id int64, active bool) (*Result, error) {
	if !statusResources[resource] {
		return nil, errors.NewInternalError(fmt.Errorf("%s has no status", resource))
	}
	return s.send(ctx, "update-status", gateway.Primary,
		fmt.Sprintf("/%s/%d/update-status", resource, id), http.MethodPatch, map[string]bool{"active": active})
}

func (s *Service) SetLive(ctx context.Context, businessID int64, live bool) (*Result, error) {
	return s.send(ctx, "update-is-live", gateway.Primary,
		fmt.Sprintf("/businesses/%d/update-is-live", businessID), http.MethodPatch, map[string]bool{"is_live": live})
}

func (s *Service) SetRole(ctx context.Context, adminID int64, superAdmin bool) (*Result, error) {
	return s.send(ctx, "update-role", gateway.Primary,
		fmt.Sprintf("/business-admins/%d/update-role", adminID), http.MethodPatch, map[string]bool{"is_super_admin": superAdmin})
}

// SetApproval toggles approval after checking the applicant lifecycle.
func (s *Service) SetApproval(ctx context.Context, applicant models.Applicant, approved bool) (*Result, error) {
	change := onboarding.Approve
	if !approved {
		change = onboarding.Unapprove
	}
	if err := onboarding.CheckTransition(applicant, change); err != nil {
		metrics.MutationsTotal.WithLabelValues("change-approved", "rejected").Inc()
		return nil, err
	}
	return s.send(ctx, "change-approved", gateway.Applicant,
		fmt.Sprintf("/applicants/%d/change-approved", applicant.ID), http.MethodPatch, map[string]bool{"approved": approved})
}

func (s *Service) SetRemarks(ctx context.Context, applicantID int64, remarks string) (*Result, error) {
	return s.send(ctx, "change-remarks", gateway.Applicant,
		fmt.Sprintf("/applicants/%d/change-remarks", applicantID), http.MethodPatch, map[string]string{"remarks": remarks})
}

func (s *Service) UpdateCashflowRemark(ctx context.Context, cashflowID int64, remark string) (*Result, error) {
	return s.send(ctx, "update-remark", gateway.Primary,
		fmt.Sprintf("/business-cashflows/%d/update-remark", cashflowID), http.MethodPatch, map[string]string{"remark": remark})
}

func (s *Service) UpdatePassword(ctx context.Context, adminID int64, password string) (*Result, error) {
	if password == "" {
		return nil, errors.NewValidationFailedError([]string{"password is required"})
	}
	return s.send(ctx, "update-password", gateway.Primary,
		fmt.Sprintf("/business-admins/%d/update-password", adminID), http.MethodPatch, map[string]string{"password": password})
}

func (s *Service) RegenerateToken(ctx context.Context, adminID int64) (*Result, error) {
	return s.send(ctx, "regenerate-token", gateway.Primary,
		fmt.Sprintf("/business-admins/%d/regenerate-token", adminID), http.MethodPatch, nil)
}

// AdjustBalance validates rawAmount before any request is sent. The
// returned entity carries the new balance; callers must not compute it.
func (s *Service) AdjustBalance(ctx context.Context, resource string, id int64, dir Direction, rawAmount string) (*Result, error) {
	if !balanceResources[resource] {
		return nil, errors.NewInternalError(fmt.Errorf("%s has no balance", resource))
	}
	if dir != Add && dir != Deduct {
		return nil, errors.NewInternalError(fmt.Errorf("unknown balance direction %q", dir))
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(string(dir)+"-balance", "rejected").Inc()
		return nil, err
	}
	return s.send(ctx, string(dir)+"-balance", gateway.Primary,
		fmt.Sprintf("/%s/%d/%s-balance", resource, id, dir), http.MethodPatch, map[string]int64{"amount": amount})
}

func (s *Service) UploadDocument(ctx context.Context, businessID int64, kind, filename string, content io.Reader) (*Result, error) {
	if kind != DocumentPAN && kind != DocumentRegistration {
		return nil, errors.NewValidationFailedError([]string{fmt.Sprintf("unknown document %q", kind)})
	}
	action := "upload-" + kind
	resp, err := s.gateway.Upload(ctx, gateway.Primary, fmt.Sprintf("/businesses/upload/%d/%s", businessID, kind), "image", filename, content)
	return s.result(action, resp, err)
}

func (s *Service) Create(ctx context.Context, target Target, payload interface{}) (*Result, error) {
	return s.send(ctx, "create", target.Service, target.Path, http.MethodPost, payload)
}

func (s *Service) Update(ctx context.Context, target Target, id int64, payload interface{}) (*Result, error) {
	return s.send(ctx, "update", target.Service, fmt.Sprintf("%s/%d", target.Path, id), http.MethodPut, payload)
}

func (s *Service) send(ctx context.Context, action string, svc gateway.Service, path, method string, body interface{}) (*Result, error) {
	resp, err := s.gateway.Call(ctx, svc, path, method, body)
	return s.result(action, resp, err)
}

func (s *Service) result(action string, resp *gateway.Response, err error) (*Result, error) {
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(action, "error").Inc()
		return nil, err
	}

	res := &Result{Status: resp.Status, OK: resp.OK(), Message: resp.Message(), Body: resp.Body}
	if !res.OK {
		if res.Message == "" {
			res.Message = fmt.Sprintf("request failed with status %d", resp.Status)
		}
		s.logger.Warn("Mutation rejected by backend", map[string]interface{}{
			"action":  action,
			"status":  resp.Status,
			"message": res.Message,
		})
	}
	metrics.MutationsTotal.WithLabelValues(action, metrics.Result(res.OK)).Inc()
	return res, nil
}
