package reconciliation

import (
	"github.com/revalya/revalya/internal/reconciliation/repository"
	"github.com/revalya/revalya/internal/reconciliation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconciliation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
