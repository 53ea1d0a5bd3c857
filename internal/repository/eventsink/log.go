package eventsink

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain/analytics"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs the event. It never fails.
func (s *LogSink) Record(_ context.Context, e *analytics.SearchEvent) error {
	s.logger.Info("search_event",
		zap.String("event_id", e.ID),
		zap.String("tenant_id", e.TenantID),
		zap.String("user_id", e.UserID),
		zap.String("query", e.Query),
		zap.Int("result_count", e.ResultCount),
		zap.Int64("execution_time_ms", e.ExecutionTimeMs),
		zap.String("department", e.Filters.Department),
		zap.String("title", e.Filters.Title),
		zap.Strings("skills", e.Filters.Skills),
		zap.Bool("include_inactive", e.Filters.IncludeInactive),
		zap.Bool("cached", e.Cached),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return nil
}
