package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type User struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Email        string       `json:"email" gorm:"uniqueIndex"`
	DisplayName  string       `json:"display_name"`
	PasswordHash *string      `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Membership grants a user a role inside one tenant. A user may belong
// to many tenants with different roles.
type Membership struct {
	UserID    snowflake.ID `json:"user_id" gorm:"index:idx_members_key,unique"`
	TenantID  uuid.UUID    `json:"tenant_id" gorm:"index:idx_members_key,unique"`
	Role      string       `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Membership) TableName() string { return "tenant_members" }

// Session is one tenant-scoped login. Only the SHA-256 hash of the raw
// token is stored; the raw value exists client-side only.
type Session struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	TokenHash  string       `json:"-" gorm:"uniqueIndex"`
	UserID     snowflake.ID `json:"user_id" gorm:"index"`
	TenantID   uuid.UUID    `json:"tenant_id"`
	Role       string       `json:"role"`
	ExpiresAt  time.Time    `json:"expires_at" gorm:"index"`
	RevokedAt  *time.Time   `json:"revoked_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	LastSeenAt time.Time    `json:"last_seen_at"`
}

func (Session) TableName() string { return "sessions" }
