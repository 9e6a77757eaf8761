package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ordercard/internal/config"
	"ordercard/internal/infrastructure/logger"
	"ordercard/internal/infrastructure/mysql"
	"ordercard/internal/registry"
	"ordercard/internal/registry/repository"
	"ordercard/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("ORDERCARD_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := mysql.NewConnection(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := repository.NewMySQLRedemptionRepository(db).EnsureSchema(ctx); err != nil {
		zapLogger.Fatal("preparing schema", zap.Error(err))
	}

	redeemCtrl := registry.NewModule(db, cfg, zapLogger)
	router := server.NewRouter(redeemCtrl, zapLogger)
	srv := server.New(cfg.Server, router, zapLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
	zapLogger.Info("server stopped gracefully")
}
