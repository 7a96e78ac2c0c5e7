package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/customer/domain"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:                s.genID.Generate(),
		TenantID:          req.TenantID,
		Name:              name,
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		Document:          strings.TrimSpace(req.Document),
		GatewayCustomerID: strings.TrimSpace(req.GatewayCustomerID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *Service) GetByID(ctx context.Context, tenantID uuid.UUID, id snowflake.ID) (*domain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, search string) ([]domain.Customer, error) {
	return s.repo.List(ctx, s.db, domain.ListFilter{TenantID: tenantID, Search: search})
}

// EnrichFromGateway backfills customer fields from metadata observed on a
// gateway event. Missing customers are not created here; charge ownership
// stays with the tenant's own CRUD flows.
func (s *Service) EnrichFromGateway(ctx context.Context, tenantID uuid.UUID, gatewayCustomerID string, data domain.EnrichmentData) error {
	customer, err := s.repo.FindByGatewayID(ctx, s.db, tenantID, gatewayCustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return nil
	}

	changed := false
	if name := strings.TrimSpace(data.Name); name != "" && customer.Name != name {
		customer.Name = name
		changed = true
	}
	if email := strings.TrimSpace(data.Email); email != "" && customer.Email == "" {
		customer.Email = email
		changed = true
	}
	if phone := strings.TrimSpace(data.Phone); phone != "" && customer.Phone == "" {
		customer.Phone = phone
		changed = true
	}
	if document := strings.TrimSpace(data.Document); document != "" && customer.Document == "" {
		customer.Document = document
		changed = true
	}
	if !changed {
		return nil
	}

	customer.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		s.log.Warn("failed to enrich customer from gateway event",
			zap.String("tenant_id", tenantID.String()),
			zap.String("gateway_customer_id", gatewayCustomerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
