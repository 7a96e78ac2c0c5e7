package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/session/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.UserRepository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO users (
			id, email, display_name, password_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var item domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users
		 WHERE email = ?
		 LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var item domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users
		 WHERE id = ?
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) UpsertMembership(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tenant_members (user_id, tenant_id, role, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = excluded.role`,
		membership.UserID,
		membership.TenantID,
		membership.Role,
		membership.CreatedAt,
	).Error
}

func (r *repo) FindMembership(ctx context.Context, db *gorm.DB, userID snowflake.ID, tenantID uuid.UUID) (*domain.Membership, error) {
	var item domain.Membership
	err := db.WithContext(ctx).Raw(
		`SELECT user_id, tenant_id, role, created_at
		 FROM tenant_members
		 WHERE user_id = ? AND tenant_id = ?
		 LIMIT 1`,
		userID,
		tenantID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.UserID == 0 {
		return nil, nil
	}
	return &item, nil
}
