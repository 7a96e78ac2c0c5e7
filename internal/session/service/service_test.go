package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/revalya/revalya/internal/config"
	"github.com/revalya/revalya/internal/session/domain"
	"github.com/revalya/revalya/internal/session/repository"
	"github.com/revalya/revalya/internal/session/store"
	tenantdomain "github.com/revalya/revalya/internal/tenant/domain"
	tenantrepository "github.com/revalya/revalya/internal/tenant/repository"
	tenantservice "github.com/revalya/revalya/internal/tenant/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sessionEnv struct {
	svc     domain.Service
	store   *store.MemoryStore
	tenants tenantdomain.Service
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&domain.User{},
		&domain.Membership{},
		&tenantdomain.Tenant{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	log := zap.NewNop()
	tenants := tenantservice.NewService(tenantservice.Params{
		DB:    dbConn,
		Log:   log,
		GenID: node,
		Repo:  tenantrepository.Provide(),
	})

	memStore := store.NewMemoryStore()
	svc := NewService(Params{
		Cfg:     config.Config{Session: config.SessionConfig{TTL: time.Hour}},
		DB:      dbConn,
		Log:     log,
		GenID:   node,
		Repo:    repository.Provide(),
		Store:   memStore,
		Tenants: tenants,
	})

	return &sessionEnv{svc: svc, store: memStore, tenants: tenants}
}

func TestRegisterLoginAuthenticateLogout(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	user, err := env.svc.Register(ctx, domain.RegisterRequest{
		Email:    "Ana@Example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "hunter2hunter2" {
		t.Fatal("expected password stored hashed")
	}

	if _, err := env.svc.Register(ctx, domain.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	tenant, err := env.tenants.Create(ctx, tenantdomain.CreateTenantRequest{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}

	login := domain.LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2", TenantSlug: "acme"}

	if _, err := env.svc.Login(ctx, login); !errors.Is(err, domain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember before membership, got %v", err)
	}

	if err := env.svc.AddMember(ctx, tenant.ID, user.ID, tenantdomain.RoleAdmin); err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	result, err := env.svc.Login(ctx, login)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected a session token")
	}
	if result.TenantID != tenant.ID || result.UserID != user.ID || result.Role != tenantdomain.RoleAdmin {
		t.Fatalf("unexpected login result: %+v", result)
	}

	session, err := env.svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.TenantID != tenant.ID || session.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.TokenHash == result.RawToken {
		t.Fatal("expected only the token hash stored server side")
	}

	if err := env.svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, result.RawToken); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession after logout, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	user, err := env.svc.Register(ctx, domain.RegisterRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	tenant, err := env.tenants.Create(ctx, tenantdomain.CreateTenantRequest{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	if err := env.svc.AddMember(ctx, tenant.ID, user.ID, tenantdomain.RoleMember); err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	tests := []struct {
		name string
		req  domain.LoginRequest
		want error
	}{
		{
			name: "wrong password",
			req:  domain.LoginRequest{Email: "bob@example.com", Password: "not-the-password", TenantSlug: "acme"},
			want: domain.ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			req:  domain.LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2", TenantSlug: "acme"},
			want: domain.ErrInvalidCredentials,
		},
		{
			name: "unknown tenant",
			req:  domain.LoginRequest{Email: "bob@example.com", Password: "hunter2hunter2", TenantSlug: "ghost"},
			want: domain.ErrNotMember,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.svc.Login(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Register(ctx, domain.RegisterRequest{Email: "not-an-email", Password: "hunter2hunter2"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}
	if _, err := env.svc.Register(ctx, domain.RegisterRequest{Email: "ok@example.com", Password: "short"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	user, err := env.svc.Register(ctx, domain.RegisterRequest{
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	tenant, err := env.tenants.Create(ctx, tenantdomain.CreateTenantRequest{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}

	if err := env.svc.AddMember(ctx, tenant.ID, user.ID, "superuser"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthenticateExpiredAndRevoked(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	expired := &domain.Session{
		ID:         node.Generate(),
		TokenHash:  hashToken("expired-token"),
		ExpiresAt:  now.Add(-time.Minute),
		CreatedAt:  now.Add(-time.Hour),
		LastSeenAt: now.Add(-time.Hour),
	}
	if err := env.store.Put(ctx, expired); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, "expired-token"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	revokedAt := now.Add(-time.Minute)
	revoked := &domain.Session{
		ID:         node.Generate(),
		TokenHash:  hashToken("revoked-token"),
		ExpiresAt:  now.Add(time.Hour),
		RevokedAt:  &revokedAt,
		CreatedAt:  now.Add(-time.Hour),
		LastSeenAt: now.Add(-time.Hour),
	}
	if err := env.store.Put(ctx, revoked); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, "revoked-token"); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
