package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/charge/domain"
	"github.com/revalya/revalya/pkg/db"
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
		log:   p.Log.Named("charge.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateChargeRequest) (*domain.Charge, error) {
	if req.ChargedAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	charge := domain.Charge{
		ID:              s.genID.Generate(),
		TenantID:        req.TenantID,
		CustomerID:      req.CustomerID,
		GatewayChargeID: strings.TrimSpace(req.GatewayChargeID),
		Status:          domain.StatusPending,
		BillingType:     strings.TrimSpace(req.BillingType),
		ChargedAmount:   req.ChargedAmount,
		DueDate:         req.DueDate,
		Description:     strings.TrimSpace(req.Description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrGatewayIDExists
		}
		return nil, err
	}
	return &charge, nil
}

func (s *Service) GetByID(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*domain.Charge, error) {
	charge, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, domain.ErrNotFound
	}
	return charge, nil
}

func (s *Service) GetByGatewayID(ctx context.Context, tenantID uuid.UUID, gatewayChargeID string) (*domain.Charge, error) {
	charge, err := s.repo.FindByGatewayID(ctx, s.db, tenantID, gatewayChargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, domain.ErrNotFound
	}
	return charge, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter domain.ListFilter) ([]domain.Charge, error) {
	filter.TenantID = tenantID
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) ApplySettlement(ctx context.Context, tenantID uuid.UUID, id snowflake.ID, update domain.SettlementUpdate) error {
	if !domain.KnownStatus(update.Status) {
		return domain.ErrInvalidStatus
	}
	if update.InterestFeeDelta < 0 {
		update.InterestFeeDelta = 0
	}
	return s.repo.ApplySettlement(ctx, s.db, tenantID, id, update)
}
