package httpcontext

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/domain"
	appLogger "github.com/fastygo/todo/pkg/logger"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc", want: "abc"},
		{header: "Basic dXNlcjpwYXNz", want: ""},
		{header: "abc.def.ghi", want: ""},
		{header: "", want: ""},
	}
	for _, tt := range tests {
		var ctx fasthttp.RequestCtx
		if tt.header != "" {
			ctx.Request.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(&ctx); got != tt.want {
			t.Fatalf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRequestIDIsStablePerRequest(t *testing.T) {
	var ctx fasthttp.RequestCtx
	first := RequestID(&ctx)
	if first == "" || RequestID(&ctx) != first {
		t.Fatal("request id changed within a request")
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got != first {
		t.Fatalf("response header = %q, want %q", got, first)
	}

	var incoming fasthttp.RequestCtx
	incoming.Request.Header.Set("X-Request-ID", "from-client")
	if got := RequestID(&incoming); got != "from-client" {
		t.Fatalf("request id = %q, want from-client", got)
	}
}

func TestAttachCarriesIdentityAndDeadline(t *testing.T) {
	var ctx fasthttp.RequestCtx
	SetIdentity(&ctx, &domain.Identity{UserID: "u1"})

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	if got := appLogger.UserIDFromContext(stdCtx); got != "u1" {
		t.Fatalf("user id = %q, want u1", got)
	}
	if _, ok := stdCtx.Deadline(); !ok {
		t.Fatal("attached context has no deadline")
	}
	if UserID(&ctx) != "u1" {
		t.Fatalf("UserID = %q", UserID(&ctx))
	}
}
