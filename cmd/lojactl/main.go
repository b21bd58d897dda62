package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/loja/internal/client"
	"github.com/erazemk/loja/internal/config"
	"github.com/erazemk/loja/internal/console"
)

const (
	maxRetries   = 2
	retryBackoff = 200 * time.Millisecond
)

// setupLogger returns a debug logger writing to logPath, or one that
// discards everything when logPath is empty.
func setupLogger(logPath string) (*slog.Logger, func(), error) {
	if logPath == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseConsole(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := client.New(cfg.ServerURL,
		client.WithTimeout(cfg.Timeout),
		client.WithRetry(maxRetries, retryBackoff),
		client.WithRequestLogging(logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := console.New(c, os.Stdin, os.Stdout, logger)
	if err := app.Login(ctx, cfg.Username); err != nil {
		return err
	}
	app.Init(ctx)
	return app.Run(ctx)
}
