package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	return reg
}

func provideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

func provideGatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(provideRegistry),
	fx.Provide(provideRegisterer),
	fx.Provide(provideGatherer),
	fx.Provide(New),
)
