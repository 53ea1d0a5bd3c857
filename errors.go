package dirsearch

import "github.com/kailas-cloud/dirsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation          = domain.ErrValidation
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrSearchTimeout       = domain.ErrSearchTimeout
)
