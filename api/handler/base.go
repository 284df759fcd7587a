package handler

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

const internalErrorMessage = "internal server error"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, message string) {
	h.respondSuccess(ctx, http.StatusOK, transport.MessageResponse{Message: message})
}

// respondError maps domain errors to HTTP statuses. Anything else is logged and hidden.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code, message := mapError(err)
	if status == http.StatusInternalServerError {
		appLogger.FromContext(stdCtx, h.logger).Error("request failed",
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message))
}

// decode unmarshals the request body into dst, responding 400 on malformed JSON.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeBadRequest), "invalid payload"))
		return false
	}
	return true
}

// userID returns the authenticated user, responding 401 if the route was reached anonymously.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := httpcontext.UserID(ctx)
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthenticated), "authentication required"))
	}
	return userID
}

func (h baseHandler) pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

func mapError(err error) (int, string, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), internalErrorMessage
	}
	switch dErr.Code {
	case domain.ErrCodeUnauthenticated:
		return http.StatusUnauthorized, string(dErr.Code), dErr.Message
	case domain.ErrCodeForbidden:
		return http.StatusForbidden, string(dErr.Code), dErr.Message
	case domain.ErrCodeBadRequest:
		return http.StatusBadRequest, string(dErr.Code), dErr.Message
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, string(dErr.Code), dErr.Message
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), internalErrorMessage
	}
}
