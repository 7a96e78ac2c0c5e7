package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/config"
	"github.com/revalya/revalya/internal/session/domain"
	"github.com/revalya/revalya/internal/session/password"
	tenantdomain "github.com/revalya/revalya/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	minPasswordLength = 8
)

type Params struct {
	fx.In

	Cfg     config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.UserRepository
	Store   domain.Store
	Tenants tenantdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.UserRepository
	store   domain.Store
	tenants tenantdomain.Service
	ttl     time.Duration
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("session.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		store:   p.Store,
		tenants: p.Tenants,
		ttl:     p.Cfg.Session.TTL,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user into one tenant. The resulting token is
// valid only for that tenant; acting on another tenant requires a second
// login.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	tenant, err := s.tenants.GetBySlug(ctx, strings.TrimSpace(req.TenantSlug))
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}

	membership, err := s.repo.FindMembership(ctx, s.db, user.ID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, domain.ErrNotMember
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:         s.genID.Generate(),
		TokenHash:  hashToken(rawToken),
		UserID:     user.ID,
		TenantID:   tenant.ID,
		Role:       membership.Role,
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	if removed, err := s.store.DeleteExpired(ctx, now); err == nil && removed > 0 {
		s.log.Debug("pruned expired sessions", zap.Int64("removed", removed))
	}

	return &domain.LoginResult{
		RawToken:  rawToken,
		TenantID:  tenant.ID,
		UserID:    user.ID,
		Role:      membership.Role,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}
	return s.store.Delete(ctx, hashToken(token))
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.store.Get(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidSession
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.store.Touch(ctx, session.TokenHash, now); err != nil {
		s.log.Warn("failed to update session last_seen_at", zap.Error(err))
	}
	return session, nil
}

func (s *Service) AddMember(ctx context.Context, tenantID uuid.UUID, userID snowflake.ID, role string) error {
	switch role {
	case tenantdomain.RoleOwner, tenantdomain.RoleAdmin, tenantdomain.RoleMember:
	default:
		return domain.ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidCredentials
	}

	return s.repo.UpsertMembership(ctx, s.db, &domain.Membership{
		UserID:    userID,
		TenantID:  tenantID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
