package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notesync/internal/discovery"
	"github.com/iudanet/notesync/internal/logging"
	"github.com/iudanet/notesync/internal/server"
	"github.com/iudanet/notesync/internal/server/broker"
	"github.com/iudanet/notesync/internal/server/config"
	"github.com/iudanet/notesync/internal/server/hub"
	"github.com/iudanet/notesync/internal/server/storage"
	"github.com/iudanet/notesync/internal/server/storage/postgres"
	"github.com/iudanet/notesync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run запускает сервер и блокируется до отмены ctx
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.InstanceID == "" {
		cfg.InstanceID = "server-" + uuid.NewString()
	}

	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()
	logger.Info("Storage opened", "driver", cfg.Storage.Driver)

	// hub.Broker как интерфейс: nil-указатель на Redis не должен попасть в хаб
	var b hub.Broker
	if cfg.Redis.Addr != "" {
		redisBroker, err := broker.NewRedis(ctx, cfg.Redis.Addr, cfg.InstanceID, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisBroker.Close(); err != nil {
				logger.Error("Failed to close redis broker", "error", err)
			}
		}()
		b = redisBroker
		logger.Info("Redis fan-out enabled", "addr", cfg.Redis.Addr)
	}

	h := hub.New(store, b, hub.Config{
		InstanceID: cfg.InstanceID,
		Awareness:  cfg.AwarenessSettings(),
	}, logger)

	handler, stopLimits := server.NewRouter(h, logger, server.Options{
		Version:       Version,
		APIRateLimit:  cfg.RateLimit.API,
		SyncRateLimit: cfg.RateLimit.Sync,
	})
	defer stopLimits()

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	if cfg.Discovery.Enabled {
		adv, err := advertise(cfg, ln.Addr(), logger)
		if err != nil {
			// сервер работает и без mDNS
			logger.Warn("Local network discovery disabled", "error", err)
		} else {
			defer adv.Shutdown()
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started",
			"addr", ln.Addr().String(),
			"instance_id", cfg.InstanceID,
			"version", Version)
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		h.Close()
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown не ждет websocket соединений: их закрывает и дожидается хаб,
	// хранилище закрывается только после этого
	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := h.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	if shutdownErr != nil {
		return fmt.Errorf("failed to shutdown server: %w", shutdownErr)
	}

	logger.Info("Server stopped")
	return nil
}

// closableStorage журнал операций, который нужно закрыть при остановке
type closableStorage interface {
	storage.OperationStorage
	io.Closer
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (closableStorage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DSN)
	default:
		return sqlite.New(ctx, cfg.DSN)
	}
}

func advertise(cfg config.Config, addr net.Addr, logger *slog.Logger) (*discovery.Advertiser, error) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected listener address %s", addr)
	}

	instance := cfg.Discovery.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			host = cfg.InstanceID
		}
		instance = "notesync-" + host
	}

	return discovery.Advertise(instance, tcp.Port, Version, logger)
}

func printVersion() {
	fmt.Printf("notesync server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
