package httpcontext

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/domain"
)

const identityValue = "httpcontext.identity"

// SetIdentity stores the authenticated identity on the request.
func SetIdentity(ctx *fasthttp.RequestCtx, identity *domain.Identity) {
	ctx.SetUserValue(identityValue, identity)
}

// Identity returns the authenticated identity, or nil for anonymous requests.
func Identity(ctx *fasthttp.RequestCtx) *domain.Identity {
	if ctx == nil {
		return nil
	}
	identity, _ := ctx.UserValue(identityValue).(*domain.Identity)
	return identity
}

// UserID is a shorthand for Identity(ctx).UserID.
func UserID(ctx *fasthttp.RequestCtx) string {
	if identity := Identity(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
