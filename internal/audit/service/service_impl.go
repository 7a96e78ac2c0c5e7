package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record persists an audit entry. Failures are logged and swallowed; an
// audit write must never fail the operation it describes.
func (s *Service) Record(ctx context.Context, entry domain.Entry) {
	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		s.log.Warn("failed to marshal audit detail",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		raw = []byte("{}")
	}

	row := domain.AuditLog{
		ID:        s.genID.Generate(),
		TenantID:  entry.TenantID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Resource:  entry.Resource,
		Detail:    raw,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &row); err != nil {
		s.log.Warn("failed to persist audit entry",
			zap.String("tenant_id", entry.TenantID.String()),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.AuditLog, error) {
	filter.TenantID = tenantID
	return s.repo.List(ctx, s.db, filter)
}
