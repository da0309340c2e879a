package applicants

import (
	"context"
	"fmt"

	"business-console/internal/common/gateway"
	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/mutations"
	"business-console/internal/onboarding"
	"business-console/internal/query"
	"business-console/internal/screens/base"
)

const resource = "applicants"

var target = mutations.Target{Service: gateway.Applicant, Path: "/applicants"}

// Service reads and changes applicants on the applicant backend.
type Service struct {
	deps *base.Deps
	list *listing.Controller[models.Applicant]
	spec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	return &Service{
		deps: deps,
		list: listing.New[models.Applicant](deps.Gateway, opts),
		spec: spec,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Applicant, error) {
	return base.Fetch[models.Applicant](ctx, s.deps.Gateway, gateway.Applicant,
		fmt.Sprintf("/applicants/%d", id), "Applicant", id)
}

// Create submits a new application. When the backend reports the new
// applicant enrolled, its business and admin are provisioned right away.
func (s *Service) Create(ctx context.Context, in Input) (*mutations.Result, *onboarding.Outcome, error) {
	payload := in.Payload()
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, nil, err
	}
	res, err := s.deps.Mutations.Create(ctx, target, payload)
	if err != nil || !res.OK {
		return res, nil, err
	}

	var created models.Applicant
	if err := res.Decode(&created); err != nil || !created.Enrolled.Bool() {
		return res, nil, nil
	}
	if created.BusinessName == "" {
		created.BusinessName = in.BusinessName
	}
	if created.Name == "" {
		created.Name, created.Phone, created.BusinessEmail = in.Name, in.Phone, in.BusinessEmail
	}
	out, err := s.deps.Onboarding.Provision(ctx, created)
	if out == nil {
		return res, nil, err
	}
	return res, out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*mutations.Result, error) {
	payload := in.editPayload()
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, err
	}
	return s.deps.Mutations.Update(ctx, target, id, payload)
}

func (s *Service) SetRemarks(ctx context.Context, id int64, remarks string) (*mutations.Result, error) {
	return s.deps.Mutations.SetRemarks(ctx, id, remarks)
}

// SetApproval reads the current applicant so the lifecycle check runs on
// server state.
func (s *Service) SetApproval(ctx context.Context, id int64, approved bool) (*models.Applicant, *mutations.Result, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.deps.Mutations.SetApproval(ctx, *a, approved)
	return a, res, err
}

func (s *Service) Enroll(ctx context.Context, id int64) (*onboarding.Outcome, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.deps.Onboarding.Enroll(ctx, *a)
}
