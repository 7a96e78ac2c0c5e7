package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Entry is a pending audit record. Detail is marshalled to JSON before
// persistence; a nil Detail is stored as an empty object.
type Entry struct {
	TenantID uuid.UUID
	ActorID  snowflake.ID
	Action   string
	Resource string
	Detail   map[string]any
}

// Service records audit entries. Record is best-effort: persistence
// failures are logged and swallowed so they never break the operation
// being audited.
type Service interface {
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]AuditLog, error)
}
