package charge

import (
	"github.com/revalya/revalya/internal/charge/repository"
	"github.com/revalya/revalya/internal/charge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
