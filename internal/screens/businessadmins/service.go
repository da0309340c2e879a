package businessadmins

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

const resource = "business-admins"

var target = mutations.Target{Service: gateway.Primary, Path: "/business-admins"}

type Service struct {
	deps *base.Deps
	list *listing.Controller[models.BusinessAdmin]
	spec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, list: listing.New[models.BusinessAdmin](deps.Gateway, opts), spec: spec}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.BusinessAdmin, error) {
	return base.Fetch[models.BusinessAdmin](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/business-admins/%d", id), "Admin", id)
}

// BusinessName looks up the label of a business for notifications and
// the picker. It falls back to the id when the lookup fails.
func (s *Service) BusinessName(ctx context.Context, id int64) string {
	b, err := base.Fetch[models.Business](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/businesses/%d", id), "Business", id)
	if err != nil || b.Name == "" {
		return fmt.Sprintf("#%d", id)
	}
	return b.Name
}

func (s *Service) Create(ctx context.Context, in Input) (*mutations.Result, *models.BusinessAdmin, error) {
	payload := in.Payload()
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, nil, err
	}
	res, err := s.deps.Mutations.Create(ctx, target, payload)
	if err != nil || !res.OK {
		return res, nil, err
	}
	created := models.BusinessAdmin{Name: in.Name, Email: in.Email, Phone: in.Phone, BusinessID: in.BusinessID}
	_ = res.Decode(&created)
	return res, &created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*mutations.Result, error) {
	payload := in.values()
	if err := s.deps.ValidatePayload(resource, payload); err != nil {
		return nil, err
	}
	return s.deps.Mutations.Update(ctx, target, id, payload)
}

func (s *Service) SetStatus(ctx context.Context, id int64, active bool) (*mutations.Result, error) {
	return s.deps.Mutations.SetStatus(ctx, resource, id, active)
}

func (s *Service) SetRole(ctx context.Context, id int64, superAdmin bool) (*mutations.Result, error) {
	return s.deps.Mutations.SetRole(ctx, id, superAdmin)
}

func (s *Service) UpdatePassword(ctx context.Context, id int64, password string) (*mutations.Result, error) {
	return s.deps.Mutations.UpdatePassword(ctx, id, password)
}

func (s *Service) RegenerateToken(ctx context.Context, id int64) (*mutations.Result, error) {
	return s.deps.Mutations.RegenerateToken(ctx, id)
}
