package middleware

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/pkg/httpcontext"
)

// AccessLog writes one structured line per request.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.String("request_id", reqID),
				zap.String("method", string(ctx.Method())),
				zap.String("path", string(ctx.Path())),
				zap.String("route", matchedRoute(ctx)),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
			}
			if userID := httpcontext.UserID(ctx); userID != "" {
				fields = append(fields, zap.String("user_id", userID))
			}

			switch {
			case status >= fasthttp.StatusInternalServerError:
				logger.Error("http request", fields...)
			case status >= fasthttp.StatusBadRequest:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
		}
	}
}

// matchedRoute returns the registered route pattern, keeping ids out of labels.
func matchedRoute(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	return "unmatched"
}
