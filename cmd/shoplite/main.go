package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shoplite/shoplite/config"
	"github.com/shoplite/shoplite/internal/app"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("c", "/etc/shoplite.yml", "config file path")
	initDB     = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	application.StartSchedulers()
	zap.L().Info("shoplite started", zap.String("workdir", cfg.System.Workdir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("shutdown signal received")
}
