package businesses

import (
	"context"
	"fmt"
	"mime/multipart"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/listing"
	"business-console/internal/models"
	"business-console/internal/mutations"
	"business-console/internal/query"
	"business-console/internal/screens/base"
)

const resource = "businesses"

// Multipart fields of the create and upload forms.
const (
	fieldPAN          = "pan_image"
	fieldRegistration = "registration_image"
)

var documentKinds = []struct {
	field string
	kind  string
	label string
}{
	{fieldPAN, mutations.DocumentPAN, "PAN document"},
	{fieldRegistration, mutations.DocumentRegistration, "Registration document"},
}

var target = mutations.Target{Service: gateway.Primary, Path: "/businesses"}

type Service struct {
	deps *base.Deps

	list      *listing.Controller[models.Business]
	spec      query.Spec
	users     *listing.Controller[models.BusinessUser]
	userSpec  query.Spec
	admins    *listing.Controller[models.BusinessAdmin]
	adminSpec query.Spec
}

func NewService(deps *base.Deps, limit int) (*Service, error) {
	s := &Service{deps: deps}

	opts, spec, err := deps.Collection(resource, limit)
	if err != nil {
		return nil, err
	}
	s.list, s.spec = listing.New[models.Business](deps.Gateway, opts), spec

	if opts, spec, err = deps.Collection("business-users", 0); err != nil {
		return nil, err
	}
	s.users, s.userSpec = listing.New[models.BusinessUser](deps.Gateway, opts), spec

	if opts, spec, err = deps.Collection("business-admins", 0); err != nil {
		return nil, err
	}
	s.admins, s.adminSpec = listing.New[models.BusinessAdmin](deps.Gateway, opts), spec

	return s, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Business, error) {
	return base.Fetch[models.Business](ctx, s.deps.Gateway, gateway.Primary,
		fmt.Sprintf("/businesses/%d", id), "Business", id)
}

// Create submits a new business. Every field is entered by an operator, so
// none is flagged for review.
func (s *Service) Create(ctx context.Context, in Input) (*mutations.Result, *models.Business, error) {
	if err := s.deps.ValidatePayload(resource, in.document()); err != nil {
		return nil, nil, err
	}
	res, err := s.deps.Mutations.Create(ctx, target, in.Payload(nil))
	if err != nil || !res.OK {
		return res, nil, err
	}
	var created models.Business
	if err := res.Decode(&created); err != nil || created.ID == 0 {
		return res, nil, errors.NewFetchError(target.Path, fmt.Errorf("backend did not return the new business"))
	}
	return res, &created, nil
}

// Update replaces the editable fields of current. Untouched placeholder
// values keep their review flag.
func (s *Service) Update(ctx context.Context, current models.Business, in Input) (*mutations.Result, error) {
	if err := s.deps.ValidatePayload(resource, in.document()); err != nil {
		return nil, err
	}
	return s.deps.Mutations.Update(ctx, target, current.ID, in.Payload(&current))
}

func (s *Service) SetStatus(ctx context.Context, id int64, active bool) (*mutations.Result, error) {
	return s.deps.Mutations.SetStatus(ctx, resource, id, active)
}

func (s *Service) SetLive(ctx context.Context, id int64, live bool) (*mutations.Result, error) {
	return s.deps.Mutations.SetLive(ctx, id, live)
}

func (s *Service) Upload(ctx context.Context, id int64, kind string, fh *multipart.FileHeader) (*mutations.Result, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("open upload %s: %w", fh.Filename, err))
	}
	defer f.Close()
	return s.deps.Mutations.UploadDocument(ctx, id, kind, fh.Filename, f)
}
