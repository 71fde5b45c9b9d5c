package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/translation-backend/internal/app"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	svc "github.com/joseph-ayodele/translation-backend/internal/server"
)

func main() {
	logger := app.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	addr := cfg.Server.GRPCAddr
	if !strings.HasPrefix(addr, ":") && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, app.Options{Ledger: true, Cache: true}, logger)
	if err != nil {
		logger.Error("failed to build translation stack", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(svc.UnaryLogging(logger)))

	translator := svc.NewTranslatorService(svc.Config{
		MaxImageBytes:  cfg.Server.MaxImageBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
		DefaultEngine:  cfg.Translation.DefaultEngine,
	}, a.Processor, a.Exporter, logger)
	svc.RegisterTranslatorServer(grpcServer, translator)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	go probeEngines(ctx, a, healthServer, logger)

	logger.Info("translationd listening", "addr", addr, "engines", len(a.Dispatcher.Engines()))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	healthServer.Shutdown()
	grpcServer.GracefulStop()
}

// probeEngines reports the translator service as NOT_SERVING while any
// engine probe fails.
func probeEngines(ctx context.Context, a *app.App, hs *health.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.Health(pctx)
		cancel()
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			logger.Warn("engines.health", "error", err)
		}
		hs.SetServingStatus(svc.ServiceName, status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
