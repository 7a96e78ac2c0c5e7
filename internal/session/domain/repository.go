package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	UpsertMembership(ctx context.Context, db *gorm.DB, membership *Membership) error
	FindMembership(ctx context.Context, db *gorm.DB, userID snowflake.ID, tenantID uuid.UUID) (*Membership, error)
}

// Store persists sessions keyed by token hash. Implementations must be
// safe for concurrent use; the memory store backs tests and single-node
// development, the gorm store backs production.
type Store interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, tokenHash string) error
	Touch(ctx context.Context, tokenHash string, seenAt time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
