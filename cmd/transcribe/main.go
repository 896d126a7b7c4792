package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/katapod/transcribe/internal/config"
	"github.com/katapod/transcribe/internal/metrics"
	"github.com/katapod/transcribe/internal/migration"
	"github.com/katapod/transcribe/internal/server"
	"github.com/katapod/transcribe/pkg/db"
	"github.com/katapod/transcribe/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		metrics.Module,
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
