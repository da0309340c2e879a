package businesscashflows

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

const resource = "business-cashflows"

type Service struct {
	deps *base.Deps
	list *listing.Controller[models.BusinessCashflow]
	spec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, list: listing.New[models.BusinessCashflow](deps.Gateway, opts), spec: spec}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.BusinessCashflow, error) {
	return base.Fetch[models.BusinessCashflow](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/business-cashflows/%d", id), "Cashflow", id)
}

func (s *Service) UpdateRemark(ctx context.Context, id int64, remark string) (*mutations.Result, error) {
	if err := s.deps.ValidatePayload(resource, map[string]interface{}{"remark": remark}); err != nil {
		return nil, err
	}
	return s.deps.Mutations.UpdateCashflowRemark(ctx, id, remark)
}
