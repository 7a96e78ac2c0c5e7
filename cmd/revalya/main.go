package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/revalya/revalya/internal/audit"
	"github.com/revalya/revalya/internal/charge"
	"github.com/revalya/revalya/internal/config"
	"github.com/revalya/revalya/internal/customer"
	"github.com/revalya/revalya/internal/logger"
	"github.com/revalya/revalya/internal/migration"
	"github.com/revalya/revalya/internal/observability/metrics"
	"github.com/revalya/revalya/internal/ratelimit"
	"github.com/revalya/revalya/internal/reconciliation"
	"github.com/revalya/revalya/internal/server"
	"github.com/revalya/revalya/internal/session"
	"github.com/revalya/revalya/internal/tenant"
	"github.com/revalya/revalya/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		metrics.Module,
		ratelimit.Module,

		tenant.Module,
		customer.Module,
		charge.Module,
		audit.Module,
		reconciliation.Module,
		session.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
