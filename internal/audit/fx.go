package audit

import (
	"github.com/revalya/revalya/internal/audit/repository"
	"github.com/revalya/revalya/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
