package businessusers

import (
	"context"
	"fmt"

	"business-console/internal/common/gateway"
	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/mutations"
	"business-console/internal/query"
	"business-console/internal/screens/base"
)

const resource = "business-users"

var target = mutations.Target{Service: gateway.Primary, Path: "/business-users"}

type Service struct {
	deps *base.Deps
	list *listing.Controller[models.BusinessUser]
	spec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, list: listing.New[models.BusinessUser](deps.Gateway, opts), spec: spec}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.BusinessUser, error) {
	return base.Fetch[models.BusinessUser](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/business-users/%d", id), "User", id)
}

func (s *Service) BusinessName(ctx context.Context, id int64) string {
	if id == 0 {
		return ""
	}
	b, err := base.Fetch[models.Business](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/businesses/%d", id), "Business", id)
	if err != nil {
		return ""
	}
	return b.Name
}

func (s *Service) Create(ctx context.Context, in Input) (*mutations.Result, *models.BusinessUser, error) {
	payload := in.Payload(true)
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, nil, err
	}
	res, err := s.deps.Mutations.Create(ctx, target, payload)
	if err != nil || !res.OK {
		return res, nil, err
	}
	created := models.BusinessUser{Name: in.Name, Phone: in.Phone, Gender: in.Gender, BusinessID: in.BusinessID}
	_ = res.Decode(&created)
	return res, &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*mutations.Result, error) {
	payload := in.Payload(false)
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, err
	}
	return s.deps.Mutations.Update(ctx, target, id, payload)
}

func (s *Service) SetStatus(ctx context.Context, id int64, active bool) (*mutations.Result, error) {
	return s.deps.Mutations.SetStatus(ctx, resource, id, active)
}
