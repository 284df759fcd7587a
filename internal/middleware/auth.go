package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	appLogger "github.com/fastygo/todo/pkg/logger"
)

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*domain.Identity, error)
}

// JWTAuth rejects requests without a usable bearer token and stores the identity on the request.
func JWTAuth(auth Authenticator, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := httpcontext.BearerToken(ctx)
			if raw == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			identity, err := auth.Authenticate(stdCtx, raw)
			if err != nil {
				var dErr *domain.Error
				if errors.As(err, &dErr) && dErr.Code == domain.ErrCodeUnauthenticated {
					appLogger.FromContext(stdCtx, logger).Debug("rejected bearer token", zap.Error(err))
					cancel()
					unauthorized(ctx, dErr.Message)
					return
				}
				appLogger.FromContext(stdCtx, logger).Error("authentication failed", zap.Error(err))
				cancel()
				writeEnvelope(ctx, http.StatusInternalServerError, transport.NewError(string(domain.ErrCodeInternal), "internal server error"))
				return
			}
			cancel()

			httpcontext.SetIdentity(ctx, identity)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.Set("WWW-Authenticate", `Bearer realm="todo"`)
	writeEnvelope(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthenticated), message))
}

func writeEnvelope(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	body, _ := json.Marshal(payload)
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
