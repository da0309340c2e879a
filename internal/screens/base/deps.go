// Package base holds what every console screen shares: its dependencies,
// list rendering and the post/redirect/get helpers.
package base

import (
	"fmt"

	"business-console/internal/common/config"
	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/listing"
	"business-console/internal/mutations"
	"business-console/internal/onboarding"
	"business-console/internal/query"
	"business-console/pkg/registry"
)

// Deps is handed to every screen handler.
type Deps struct {
	Config     *config.Config
	Gateway    mutations.Gateway
	Mutations  *mutations.Service
	Onboarding *onboarding.Orchestrator
	Registry   *registry.ResourceRegistry
	Logger     logger.Logger

	errors *errors.ErrorHandler
}

func (d *Deps) Validate() error {
	switch {
	case d.Config == nil:
		return fmt.Errorf("config is required")
	case d.Gateway == nil:
		return fmt.Errorf("gateway is required")
	case d.Registry == nil:
		return fmt.Errorf("resource registry is required")
	}
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}
	if d.Mutations == nil {
		d.Mutations = mutations.New(d.Gateway, d.Logger)
	}
	return nil
}

// Errors is the shared error handler.
func (d *Deps) Errors() *errors.ErrorHandler {
	if d.errors == nil {
		d.errors = errors.NewErrorHandler(d.Logger)
	}
	return d.errors
}

// Collection resolves a registry resource into list controller options and
// its filter surface. limit overrides the registry default when positive.
func (d *Deps) Collection(resource string, limit int) (listing.Options, query.Spec, error) {
	res, ok := d.Registry.Resource(resource)
	if !ok {
		return listing.Options{}, query.Spec{}, fmt.Errorf("resource %q is not in the registry", resource)
	}
	opts := listing.Options{
		Resource:     res.ID,
		Service:      gateway.Service(res.Service),
		Path:         res.Path,
		EnvelopeKey:  res.EnvelopeKey,
		DefaultLimit: res.DefaultLimit,
		Logger:       d.Logger,
	}
	if limit > 0 {
		opts.DefaultLimit = limit
	}
	return opts, res.QuerySpec(d.Config.Vocabulary), nil
}

// ValidatePayload checks a create or update body against the registry
// schema of resource.
func (d *Deps) ValidatePayload(resource string, doc map[string]interface{}) error {
	res, ok := d.Registry.Resource(resource)
	if !ok {
		return errors.NewInternalError(fmt.Errorf("resource %q is not in the registry", resource))
	}
	return res.ValidatePayload(doc)
}
