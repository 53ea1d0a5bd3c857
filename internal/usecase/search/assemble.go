package search

import (
	"time"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

// assemble builds the response for one computed page.
// Suggestions are only kept when nothing matched.
func (s *Service) assemble(
	req *request.Request, page []result.Entry, total int, suggestions []string, start time.Time,
) result.Result {
	if total > 0 {
		suggestions = nil
	}
	return result.New(
		page, total, req.Page(), req.PageSize(),
		req.Query(), s.now().Sub(start), suggestions,
	)
}

// publish hands the analytics event to the recorder. The recorder never blocks.
func (s *Service) publish(p domain.Principal, req *request.Request, res *result.Result) {
	if s.events == nil {
		return
	}
	e := analytics.NewSearchEvent(
		req.TenantID(), p.UserID, req.Query(), res.Total(),
		res.ExecutionTime(), req.Filters(), res.Cached(), s.now(),
	)
	s.events.RecordSearchEvent(&e)
}
