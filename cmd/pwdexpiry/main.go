package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/config"
	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/internal/cli"
	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/ldaps"
)

func main() {
	flags := cli.Parse()

	// Initialize structured logger early so we can log config errors.
	// Logs go to stderr; stdout carries only the report and prompts.
	logger, lerr := newLogger(flags.Verbose)
	if lerr != nil {
		panic("failed to initialize logger: " + lerr.Error())
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", err)
		}
	}()

	// Optional .env file for local use; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	client, err := ldaps.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("ldaps client init failed", zap.Error(err))
	}

	// Ctrl-C cancels in-flight directory calls.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.New(cfg, flags, logger, client)
	if err := app.Run(ctx); err != nil {
		stop()
		logger.Fatal("run failed", zap.Error(err))
	}
}

// newLogger builds a console logger on stderr. Warn level by default so
// the terminal stays quiet; --verbose drops it to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
