package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
	"github.com/convodash/convodash/internal/migration"
	"github.com/convodash/convodash/internal/observability"
	"github.com/convodash/convodash/internal/scheduler"
	"github.com/convodash/convodash/internal/server"
	"github.com/convodash/convodash/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("snowflake node: %v", err)
	}
	return node
}
