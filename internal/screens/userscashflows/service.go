package userscashflows

import (
	"context"
	"fmt"

	"business-console/internal/common/gateway"
	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/query"
	"business-console/internal/screens/base"
)

const resource = "users-cashflows"

// Service reads the purchase ledger. Rows are never written from the
// console.
type Service struct {
	deps *base.Deps
	list *listing.Controller[models.UsersCashflow]
	spec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, list: listing.New[models.UsersCashflow](deps.Gateway, opts), spec: spec}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.UsersCashflow, error) {
	return base.Fetch[models.UsersCashflow](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/users-cashflows/%d", id), "Purchase", id)
}
