package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/giftlab/secretsanta/internal/config"
	"github.com/giftlab/secretsanta/internal/database"
	"github.com/giftlab/secretsanta/internal/logging"
	"github.com/giftlab/secretsanta/internal/mail"
	"github.com/giftlab/secretsanta/internal/migrations"
	"github.com/giftlab/secretsanta/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(stdout, cfg.LogLevel, cfg.LogFormat)

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	store := server.NewSQLiteStore(db)

	// --- Notifier ---
	var notifier server.Notifier
	if cfg.SMTPHost == "" {
		logger.Warn("smtp not configured, notifications will only be logged")
		notifier = mail.LogNotifier{Logger: logger}
	} else {
		m, err := mail.New(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		})
		if err != nil {
			return fmt.Errorf("configuring mailer: %w", err)
		}
		notifier = m
		logger.Info("mailer configured", "host", cfg.SMTPHost)
	}

	// Pairings only need to be unpredictable to participants, not
	// cryptographically strong, but seeding from the entropy pool costs
	// nothing.
	rng := rand.New(rand.NewPCG(randomSeed(), randomSeed()))

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, db, store, notifier, rng)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func randomSeed() uint64 {
	var b [8]byte
	cryptorand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
