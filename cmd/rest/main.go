package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"greenregu-be/internal/bootstrap"
	"greenregu-be/internal/config"
	"greenregu-be/internal/server"
	"greenregu-be/internal/tracer"
	"greenregu-be/pkg/database"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()
	appLog := container.Logger.Named("Main")

	shutdownTracer := tracer.InitTracer(cfg.Tracing, appLog)
	defer func() { _ = shutdownTracer(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		appLog.Fatal("Failed to start consumer", zap.Error(err))
	}
	if err := container.SyncService.Start(ctx, cfg.App.SyncSchedule); err != nil {
		appLog.Fatal("Failed to schedule sync", zap.Error(err))
	}
	if container.EventListenerService != nil {
		if err := container.EventListenerService.Start(ctx); err != nil {
			appLog.Warn("Event listener not started", zap.Error(err))
		}
	}

	// 5. Initialize and run Server
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Server stopped", zap.Error(err))
	}
}
