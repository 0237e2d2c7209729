package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/notesync/internal/client/cli"
	"github.com/iudanet/notesync/internal/client/iocli"
	"github.com/iudanet/notesync/internal/client/replica"
	"github.com/iudanet/notesync/internal/client/storage/boltdb"
	"github.com/iudanet/notesync/internal/discovery"
	"github.com/iudanet/notesync/internal/logging"
	"github.com/iudanet/notesync/internal/transport"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "ws://localhost:8080", "Sync server URL, or \"auto\" to find one on the local network")
	dbPath := flag.String("db", "notesync.db", "Path to local database")
	name := flag.String("name", "", "Name shown to other editors")
	timeout := flag.Duration("timeout", 10*time.Second, "Sync timeout")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	logger, err := logging.New(*logLevel, logging.FormatText, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Ctrl+C завершает watch и прерывает sync
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serverURL == "auto" {
		findCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		found, err := discovery.Find(findCtx, logger)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to discover server: %v\n", err)
			os.Exit(1)
		}
		logger.Info("Using discovered server", "url", found)
		*serverURL = found
	}

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	cfg := replica.Config{
		ServerURL: *serverURL,
		Reconnect: transport.DefaultReconnectConfig(),
	}
	open := func(ctx context.Context, docID string) (cli.Document, error) {
		return replica.Open(ctx, docID, boltStorage, boltStorage, cfg, logger)
	}

	c := cli.New(iocli.NewStdio(), boltStorage, open, cli.Options{Name: *name, SyncTimeout: *timeout})

	runErr := c.Run(ctx, args)

	if err := boltStorage.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("notesync client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
