// Package listing loads paginated, filtered collections from the backend.
package listing

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/common/metrics"
	"business-console/internal/models"
	"business-console/internal/query"
)

const (
	DefaultLimit = 20
	DefaultPage  = 1
)

// Options describes one backend collection.
type Options struct {
	Resource     string
	Service      gateway.Service
	Path         string
	EnvelopeKey  string
	DefaultLimit int
	Logger       logger.Logger
}

type Controller[T any] struct {
	caller gateway.Caller
	opts   Options
	logger logger.Logger
}

func New[T any](caller gateway.Caller, opts Options) *Controller[T] {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.Service == "" {
		opts.Service = gateway.Primary
	}
	if opts.EnvelopeKey == "" {
		opts.EnvelopeKey = strings.ReplaceAll(opts.Resource, "-", "_")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Controller[T]{caller: caller, opts: opts, logger: log}
}

// Resource is the registry id of the collection.
func (c *Controller[T]) Resource() string {
	return c.opts.Resource
}

// Load fetches one page of the controller's own collection.
func (c *Controller[T]) Load(ctx context.Context, f query.Filters, page, limit int) (*models.Page[T], error) {
	return c.LoadFrom(ctx, c.opts.Path, f, page, limit)
}

// LoadFrom fetches one page of a nested collection such as
// /businesses/7/users. A non-2xx answer yields an empty page; only a
// transport failure is returned as an error.
func (c *Controller[T]) LoadFrom(ctx context.Context, path string, f query.Filters, page, limit int) (*models.Page[T], error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = c.opts.DefaultLimit
	}

	params := query.Encode(f)
	params.Set(query.KeyPage, strconv.Itoa(page))
	params.Set(query.KeyLimit, strconv.Itoa(limit))

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	target := path + sep + params.Encode()

	resp, err := c.caller.Call(ctx, c.opts.Service, target, http.MethodGet, nil)
	if err != nil {
		metrics.ListLoadsTotal.WithLabelValues(c.opts.Resource, "fetch_error").Inc()
		return nil, err
	}

	if !resp.OK() {
		metrics.ListLoadsTotal.WithLabelValues(c.opts.Resource, "rejected").Inc()
		c.logger.Warn("List request rejected by backend", map[string]interface{}{
			"resource": c.opts.Resource,
			"path":     target,
			"status":   resp.Status,
			"message":  resp.Message(),
		})
		return models.EmptyPage[T](page, limit), nil
	}

	result, err := models.DecodePage[T](resp.Body, c.opts.EnvelopeKey)
	if err != nil {
		metrics.ListLoadsTotal.WithLabelValues(c.opts.Resource, "fetch_error").Inc()
		return nil, errors.NewFetchError(target, err)
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	if result.Limit == 0 {
		result.Limit = limit
	}

	metrics.ListLoadsTotal.WithLabelValues(c.opts.Resource, "success").Inc()
	return result, nil
}
