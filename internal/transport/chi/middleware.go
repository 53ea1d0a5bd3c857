package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	logpkg "github.com/kailas-cloud/dirsearch/internal/logger"
)

// JSONRecoverer turns a handler panic into a 500 ErrorResponse.
func JSONRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logpkg.FromContextOr(r.Context(), logger).Error("Handler panicked",
					zap.Any("panic", rvr),
					zap.String("path", r.URL.Path),
					zap.Stack("stacktrace"),
				)
				writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEvent collects request attributes learned by inner middleware.
type wideEvent struct {
	tenantID string
	userID   string
}

type wideEventKey struct{}

// annotatePrincipal records who made the request on the canonical log line.
func annotatePrincipal(ctx context.Context, p domain.Principal) {
	if ev, ok := ctx.Value(wideEventKey{}).(*wideEvent); ok {
		ev.tenantID = p.TenantID
		ev.userID = p.UserID
	}
}

// WideEventMiddleware emits one http_request log line per request and echoes X-Request-ID.
// Handlers and services log through the request-scoped logger it puts in the context.
func WideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ev := &wideEvent{}
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := context.WithValue(r.Context(), wideEventKey{}, ev)
			ctx = logpkg.ContextWithLogger(ctx, reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("tenant_id", ev.tenantID),
				zap.String("user_id", ev.userID),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
