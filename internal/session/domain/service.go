package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantSlug string `json:"tenant_slug"`
}

type LoginResult struct {
	RawToken  string       `json:"token"`
	TenantID  uuid.UUID    `json:"tenant_id"`
	UserID    snowflake.ID `json:"user_id"`
	Role      string       `json:"role"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw bearer token to its live session.
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	AddMember(ctx context.Context, tenantID uuid.UUID, userID snowflake.ID, role string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserExists         = errors.New("user_already_exists")
	ErrNotMember          = errors.New("not_a_tenant_member")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrInvalidRole        = errors.New("invalid_role")
)
