package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/config"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/migration"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/observability/metrics"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/server"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/statement"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/db"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		metrics.Module,

		// Functional domains
		audit.Module,
		patient.Module,
		billing.Module,
		statement.Module,

		// HTTP surface
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
