package dashboard

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"business-console/internal/common/errors"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/models"
)

type Service struct {
	caller gateway.Caller
	logger logger.Logger
}

func NewService(caller gateway.Caller, log logger.Logger) *Service {
	return &Service{caller: caller, logger: log}
}

// Totals fetches every count concurrently. A rejected count is left at zero
// and reported in the returned list; a transport failure aborts the page.
func (s *Service) Totals(ctx context.Context) (*Totals, []string, error) {
	var totals Totals
	rejected := make([]bool, len(counters))

	g, gctx := errgroup.WithContext(ctx)
	for i, ctr := range counters {
		g.Go(func() error {
			resp, err := s.caller.Call(gctx, ctr.service, ctr.path, http.MethodGet, nil)
			if err != nil {
				return err
			}
			if !resp.OK() {
				s.logger.Warn("Dashboard count rejected", map[string]interface{}{
					"path":   ctr.path,
					"status": resp.Status,
				})
				rejected[i] = true
				return nil
			}
			n, err := models.Count(resp.Body)
			if err != nil {
				return errors.NewFetchError(ctr.path, err)
			}
			*ctr.target(&totals) = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var missing []string
	for i, r := range rejected {
		if r {
			missing = append(missing, counters[i].label)
		}
	}
	return &totals, missing, nil
}
