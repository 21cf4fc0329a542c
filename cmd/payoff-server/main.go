package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/payoff-forecast/internal/cache"
	"github.com/iwvelando/payoff-forecast/internal/config"
	"github.com/iwvelando/payoff-forecast/internal/scenario/sqlite"
	"github.com/iwvelando/payoff-forecast/internal/server"
	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := config.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := sqlite.New(logger, cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open scenario store",
			zap.String("op", "main"),
			zap.String("path", cfg.DatabasePath),
			zap.Error(err),
		)
	}
	defer func() {
		_ = store.Close()
	}()

	var responses cache.Cache = cache.NewMemory(cfg.CacheTTLDuration())
	if cfg.RedisAddress != "" {
		redisCache := cache.NewRedis(logger, cfg.RedisAddress, cfg.CacheTTLDuration())
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable; cache misses will fall through to the engine",
				zap.String("op", "main"),
				zap.String("address", cfg.RedisAddress),
				zap.Error(err),
			)
		}
		cancel()
		defer func() {
			_ = redisCache.Close()
		}()
		responses = redisCache
	}

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		MaxMonths:     cfg.MaxMonths,
		Cache:         responses,
		Store:         store,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Error("failed to listen",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.Error(err),
		)
		return
	}

	logger.Info("server starting",
		zap.String("op", "main"),
		zap.String("address", listener.Addr().String()),
		zap.String("version", version),
	)
	if err := serve(ctx, logger, srv, listener, shutdownTimeout); err != nil {
		logger.Error("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	}
	logger.Info("server stopped", zap.String("op", "main"))
}

const shutdownTimeout = 10 * time.Second

// serve runs srv on listener until ctx is done, then returns only after
// in-flight requests have drained or timeout has elapsed.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server, listener net.Listener, timeout time.Duration) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}
