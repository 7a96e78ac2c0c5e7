package store

import (
	"context"
	"time"

	"github.com/revalya/revalya/internal/session/domain"
	"gorm.io/gorm"
)

// GormStore persists sessions in the sessions table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, session *domain.Session) error {
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO sessions (
			id, token_hash, user_id, tenant_id, role, expires_at, revoked_at,
			created_at, last_seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.TokenHash,
		session.UserID,
		session.TenantID,
		session.Role,
		session.ExpiresAt,
		session.RevokedAt,
		session.CreatedAt,
		session.LastSeenAt,
	).Error
}

func (s *GormStore) Get(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var item domain.Session
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, token_hash, user_id, tenant_id, role, expires_at, revoked_at,
			created_at, last_seen_at
		 FROM sessions
		 WHERE token_hash = ?
		 LIMIT 1`,
		tokenHash,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (s *GormStore) Delete(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).Exec(
		`DELETE FROM sessions WHERE token_hash = ?`,
		tokenHash,
	).Error
}

func (s *GormStore) Touch(ctx context.Context, tokenHash string, seenAt time.Time) error {
	return s.db.WithContext(ctx).Exec(
		`UPDATE sessions SET last_seen_at = ? WHERE token_hash = ?`,
		seenAt,
		tokenHash,
	).Error
}

func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Exec(
		`DELETE FROM sessions WHERE expires_at < ?`,
		now,
	)
	return res.RowsAffected, res.Error
}
