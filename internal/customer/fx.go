package customer

import (
	"github.com/revalya/revalya/internal/customer/repository"
	"github.com/revalya/revalya/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
