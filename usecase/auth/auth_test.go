package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/testkit"
)

func newTestUseCase(t *testing.T) (*UseCase, *testkit.Env) {
	t.Helper()
	env := testkit.New(t)
	return New(env.Users, env.Tx, env.Issuer, env.Hasher, env.Revocations, nil), env
}

func TestRegisterThenLogin(t *testing.T) {
	uc, env := newTestUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "  Tim@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "tim@example.com" {
		t.Fatalf("email = %q, want normalized", registered.User.Email)
	}
	if registered.Token == "" || registered.User.ID == "" {
		t.Fatalf("incomplete auth token: %+v", registered)
	}
	if want := env.Clock.Now().Add(testkit.TTL); !registered.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", registered.ExpiresAt, want)
	}

	loggedIn, err := uc.Login(ctx, "TIM@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login user = %q, want %q", loggedIn.User.ID, registered.User.ID)
	}

	identity, err := uc.Authenticate(ctx, loggedIn.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.UserID != registered.User.ID || identity.TokenID == "" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc, env := newTestUseCase(t)
	ctx := context.Background()

	if _, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := uc.Register(ctx, RegisterInput{Username: "tim2", Email: "TIM@example.com", Password: "secret456"})
	if !domain.IsDomainError(err, domain.ErrCodeBadRequest) {
		t.Fatalf("duplicate register err = %v, want BAD_REQUEST", err)
	}

	var count int
	if err := env.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("user count = %d, want 1", count)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	uc, _ := newTestUseCase(t)
	cases := []RegisterInput{
		{Username: "", Email: "a@example.com", Password: "secret123"},
		{Username: "a", Email: " ", Password: "secret123"},
		{Username: "a", Email: "a@example.com", Password: "short"},
	}
	for _, in := range cases {
		if _, err := uc.Register(context.Background(), in); !domain.IsDomainError(err, domain.ErrCodeBadRequest) {
			t.Fatalf("register(%+v) err = %v, want BAD_REQUEST", in, err)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	if _, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := uc.Login(ctx, "tim@example.com", "not-it")
	_, unknownEmail := uc.Login(ctx, "nobody@example.com", "secret123")

	for _, err := range []error{wrongPassword, unknownEmail} {
		if !errors.Is(err, domain.ErrInvalidLogin) {
			t.Fatalf("login err = %v, want ErrInvalidLogin", err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	uc, env := newTestUseCase(t)
	ctx := context.Background()

	auth, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	env.Clock.Advance(testkit.TTL - time.Second)
	if _, err := uc.Authenticate(ctx, auth.Token); err != nil {
		t.Fatalf("authenticate before expiry: %v", err)
	}

	env.Clock.Advance(time.Second)
	if _, err := uc.Authenticate(ctx, auth.Token); !domain.IsDomainError(err, domain.ErrCodeUnauthenticated) {
		t.Fatalf("authenticate at expiry err = %v, want UNAUTHENTICATED", err)
	}
}

func TestAuthenticateRejectsGarbageAndDeletedUser(t *testing.T) {
	uc, env := newTestUseCase(t)
	ctx := context.Background()

	if _, err := uc.Authenticate(ctx, "not-a-token"); !domain.IsDomainError(err, domain.ErrCodeUnauthenticated) {
		t.Fatalf("garbage token err = %v", err)
	}

	auth, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := env.Users.Delete(ctx, auth.User.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := uc.Authenticate(ctx, auth.Token); !domain.IsDomainError(err, domain.ErrCodeUnauthenticated) {
		t.Fatalf("deleted user err = %v, want UNAUTHENTICATED", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	auth, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	identity, err := uc.Authenticate(ctx, auth.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := uc.Logout(ctx, identity); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := uc.Authenticate(ctx, auth.Token); !domain.IsDomainError(err, domain.ErrCodeUnauthenticated) {
		t.Fatalf("revoked token err = %v, want UNAUTHENTICATED", err)
	}

	// Other sessions of the same user stay valid.
	other, err := uc.Login(ctx, "tim@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := uc.Authenticate(ctx, other.Token); err != nil {
		t.Fatalf("second token rejected: %v", err)
	}
}

func TestValidateSwallowsFailuresAndReissues(t *testing.T) {
	uc, env := newTestUseCase(t)
	ctx := context.Background()

	if got := uc.Validate(ctx, ""); got != nil {
		t.Fatalf("validate empty = %+v, want nil", got)
	}
	if got := uc.Validate(ctx, "garbage"); got != nil {
		t.Fatalf("validate garbage = %+v, want nil", got)
	}

	auth, err := uc.Register(ctx, RegisterInput{Username: "tim", Email: "tim@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	avatar := "https://example.com/tim.png"
	user := auth.User
	user.Avatar = &avatar
	if err := env.Users.Update(ctx, &user); err != nil {
		t.Fatalf("update avatar: %v", err)
	}

	env.Clock.Advance(time.Second)
	fresh := uc.Validate(ctx, auth.Token)
	if fresh == nil {
		t.Fatal("validate returned nil for a valid token")
	}
	if fresh.User.Avatar == nil || *fresh.User.Avatar != avatar {
		t.Fatalf("re-issued user avatar = %v, want %q", fresh.User.Avatar, avatar)
	}
	if !fresh.ExpiresAt.After(auth.ExpiresAt) {
		t.Fatalf("fresh expiry %v not after %v", fresh.ExpiresAt, auth.ExpiresAt)
	}
}
