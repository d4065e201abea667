package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	ledgergrpc "github.com/dwikikusuma/storefront-bot/internal/ledger/grpc"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/seed"
	"github.com/dwikikusuma/storefront-bot/pkg/config"
	"github.com/dwikikusuma/storefront-bot/pkg/logger"
	"github.com/dwikikusuma/storefront-bot/pkg/shutdown"
	"github.com/dwikikusuma/storefront-bot/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "ledger", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	if err := run(cfg, log); err != nil {
		log.Error("ledger exited", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracing, err := telemetry.Setup(ctx, "ledger", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := stopTracing(flushCtx); err != nil {
			log.Warn("trace flush failed", slog.Any("err", err))
		}
	}()

	defaults, err := seed.Load(cfg.SeedPath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Storage, cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage, err)
	}

	ledger, err := app.Open(ctx, store, defaults, log)
	if err != nil {
		_ = store.Close()
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		_ = ledger.Close(context.Background())
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	ledgergrpc.RegisterLedgerServiceServer(grpcServer, ledgergrpc.NewServer(ledger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ledgergrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("grpc starting",
			slog.String("addr", addr),
			slog.String("storage", cfg.Storage),
			slog.String("path", cfg.DataPath),
		)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthServer.Shutdown()

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		timer := time.NewTimer(10 * time.Second)
		defer timer.Stop()
		select {
		case <-timer.C:
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}

		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		return ledger.Close(closeCtx)
	})

	return g.Wait()
}
