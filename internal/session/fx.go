package session

import (
	"github.com/revalya/revalya/internal/session/domain"
	"github.com/revalya/revalya/internal/session/repository"
	"github.com/revalya/revalya/internal/session/service"
	"github.com/revalya/revalya/internal/session/store"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func provideStore(db *gorm.DB) domain.Store {
	return store.NewGormStore(db)
}

var Module = fx.Module("session.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideStore),
	fx.Provide(service.NewService),
)
