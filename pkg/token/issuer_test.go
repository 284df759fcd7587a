package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(Config{
		Secret: "test-secret",
		Issuer: "todo-test",
		TTL:    time.Hour,
		Now:    clock.Now,
	})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return issuer
}

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 750_000_000, time.UTC)}
	issuer := newTestIssuer(t, clock)
	avatar := "https://example.com/a.png"

	issued, err := issuer.Issue(Subject{UserID: "u1", Email: "tim@example.com", Avatar: &avatar})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	wantExp := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
	if !issued.ExpiresAt.Equal(wantExp) {
		t.Fatalf("expires_at = %v, want %v", issued.ExpiresAt, wantExp)
	}
	if issued.ID == "" {
		t.Fatal("issued token has no id")
	}

	claims, err := issuer.Verify(issued.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "tim@example.com" || claims.ID != issued.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Avatar == nil || *claims.Avatar != avatar {
		t.Fatalf("avatar = %v, want %q", claims.Avatar, avatar)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	issued, err := issuer.Issue(Subject{UserID: "u1", Email: "tim@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.now = issued.ExpiresAt.Add(-time.Second)
	if _, err := issuer.Verify(issued.Value); err != nil {
		t.Fatalf("verify just before expiry: %v", err)
	}

	clock.now = issued.ExpiresAt
	if _, err := issuer.Verify(issued.Value); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("verify at expiry err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyExpiryCountsFromIssueSecond(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 750_000_000, time.UTC)}
	issuer := newTestIssuer(t, clock)

	issued, err := issuer.Issue(Subject{UserID: "u1", Email: "tim@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(issued.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(issued.IssuedAt) || !issued.IssuedAt.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("iat = %v, issued at = %v, want the issue second", claims.IssuedAt, issued.IssuedAt)
	}

	clock.now = issued.IssuedAt.Add(time.Hour - time.Millisecond)
	if _, err := issuer.Verify(issued.Value); err != nil {
		t.Fatalf("verify just before iat+ttl: %v", err)
	}
	clock.now = issued.IssuedAt.Add(time.Hour)
	if _, err := issuer.Verify(issued.Value); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("verify at iat+ttl err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	issued, err := issuer.Issue(Subject{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(issued.Value, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if _, err := issuer.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered err = %v, want ErrInvalidToken", err)
	}

	other, err := NewIssuer(Config{Secret: "other-secret", Issuer: "todo-test", TTL: time.Hour, Now: clock.Now})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	if _, err := other.Verify(issued.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "todo-test",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := issuer.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none err = %v, want ErrInvalidToken", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(Config{TTL: time.Hour}); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}
	if _, err := NewIssuer(Config{Secret: "s"}); !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("err = %v, want ErrInvalidTTL", err)
	}
}
