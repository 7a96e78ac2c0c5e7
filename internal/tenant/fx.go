package tenant

import (
	"github.com/revalya/revalya/internal/tenant/repository"
	"github.com/revalya/revalya/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
