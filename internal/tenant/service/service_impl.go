package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/revalya/revalya/internal/tenant/domain"
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
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, domain.ErrInvalidSlug
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &tenant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugExists
		}
		return nil, err
	}

	s.log.Info("tenant created", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", slug))
	return &tenant, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	tenant, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenant.Active {
		return tenant, nil
	}
	tenant.Active = false
	tenant.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *Service) UpsertIntegration(ctx context.Context, req domain.UpsertIntegrationRequest) (*domain.Integration, error) {
	if req.TenantID == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	integrationType := strings.ToUpper(strings.TrimSpace(req.IntegrationType))
	if integrationType == "" {
		return nil, domain.ErrInvalidIntegration
	}
	if _, err := s.GetByID(ctx, req.TenantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	integration := domain.Integration{
		ID:              s.genID.Generate(),
		TenantID:        req.TenantID,
		IntegrationType: integrationType,
		APIKey:          strings.TrimSpace(req.APIKey),
		WebhookSecret:   strings.TrimSpace(req.WebhookSecret),
		Active:          req.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.UpsertIntegration(ctx, s.db, &integration); err != nil {
		return nil, err
	}
	return &integration, nil
}

func (s *Service) ActiveIntegration(ctx context.Context, tenantID uuid.UUID, integrationType string) (*domain.Integration, error) {
	if tenantID == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	integration, err := s.repo.FindActiveIntegration(ctx, s.db, tenantID, strings.ToUpper(strings.TrimSpace(integrationType)))
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, domain.ErrIntegrationNotFound
	}
	return integration, nil
}
