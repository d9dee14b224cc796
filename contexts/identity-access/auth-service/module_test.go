package authservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authservice "bookshelf/contexts/identity-access/auth-service"
	jwtadapter "bookshelf/contexts/identity-access/auth-service/adapters/jwt"
	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
	httptransport "bookshelf/contexts/identity-access/auth-service/transport/http"

	"golang.org/x/crypto/bcrypt"
)

type recordedEvent struct {
	kind    string
	message string
	payload map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, kind string, message string, payload map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: kind, message: message, payload: payload})
}

func (p *recordingPublisher) snapshot() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func newTestModule(t *testing.T, events *recordingPublisher) authservice.Module {
	t.Helper()
	module, err := authservice.NewInMemoryModule(authservice.Settings{
		SecretKey:    "secret_key",
		Algorithm:    "HS256",
		TokenTTL:     30 * time.Minute,
		DemoUsername: "admin",
		DemoPassword: "admin123",
		BcryptCost:   bcrypt.MinCost,
	}, events, nil)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestLoginIssuesBearerToken(t *testing.T) {
	events := &recordingPublisher{}
	module := newTestModule(t, events)

	resp, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected token response %+v", resp)
	}

	principal, err := module.Handler.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if principal.Username != "admin" {
		t.Fatalf("unexpected principal %+v", principal)
	}

	got := events.snapshot()
	if len(got) != 1 || got[0].kind != "auth-success" || got[0].message != "User logged in successfully: admin" {
		t.Fatalf("unexpected events %+v", got)
	}
	if got[0].payload["username"] != "admin" {
		t.Fatalf("unexpected payload %+v", got[0].payload)
	}
}

func TestLoginFailuresPublishAuthFailed(t *testing.T) {
	events := &recordingPublisher{}
	module := newTestModule(t, events)

	for _, req := range []httptransport.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "ghost", Password: "admin123"},
	} {
		_, err := module.Handler.LoginHandler(context.Background(), req)
		if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %q, got %v", req.Username, err)
		}
	}

	got := events.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected two events, got %d", len(got))
	}
	if got[1].kind != "auth-failed" || got[1].message != "Login failed for username: ghost" {
		t.Fatalf("unexpected event %+v", got[1])
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	events := &recordingPublisher{}
	module := newTestModule(t, events)

	_, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{Username: "admin"})
	if !errors.Is(err, domainerrors.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials, got %v", err)
	}
	if len(events.snapshot()) != 0 {
		t.Fatalf("expected no events for malformed login")
	}
}

func TestAuthenticateExpiredTokenPublishesEvent(t *testing.T) {
	events := &recordingPublisher{}
	module := newTestModule(t, events)

	manager, err := jwtadapter.NewManager("secret_key", "HS256")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := manager.Issue("admin", time.Now().Add(-2*time.Hour), time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = module.Handler.Authenticate(context.Background(), token)
	if !errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
	got := events.snapshot()
	if len(got) != 1 || got[0].kind != "auth-token-expired" || got[0].message != "Token has expired" {
		t.Fatalf("unexpected events %+v", got)
	}
	if len(got[0].payload) != 0 {
		t.Fatalf("expected empty payload, got %+v", got[0].payload)
	}
}

func TestAuthenticateRejectsMissingAndInvalidTokens(t *testing.T) {
	events := &recordingPublisher{}
	module := newTestModule(t, events)

	if _, err := module.Handler.Authenticate(context.Background(), ""); !errors.Is(err, domainerrors.ErrTokenMissing) {
		t.Fatalf("expected missing token, got %v", err)
	}
	if _, err := module.Handler.Authenticate(context.Background(), "abc.def.ghi"); !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if len(events.snapshot()) != 0 {
		t.Fatalf("expected no events for invalid tokens")
	}
}

func TestNewInMemoryModuleRejectsUnsupportedAlgorithm(t *testing.T) {
	_, err := authservice.NewInMemoryModule(authservice.Settings{
		SecretKey:    "secret_key",
		Algorithm:    "none",
		DemoUsername: "admin",
		DemoPassword: "admin123",
		BcryptCost:   bcrypt.MinCost,
	}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}
