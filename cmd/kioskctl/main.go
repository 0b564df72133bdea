package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"kioskdesk/internal/command"
	"kioskdesk/internal/config"
	"kioskdesk/internal/database"
	"kioskdesk/internal/database/migration"
	"kioskdesk/internal/logging"
	"kioskdesk/internal/repository/postgres"
	"kioskdesk/internal/service"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "kioskctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.Load()
	// Logs go to stderr so exports piped from stdout stay clean.
	level := slog.LevelInfo
	if cfg.Debug() {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Location(), level))

	open := func(ctx context.Context) (*command.Backend, error) {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		kiosks := postgres.NewKioskPostgres(db)
		tickets := postgres.NewTicketPostgres(db)
		workspaces := postgres.NewWorkspacePostgres(db)
		metrics := service.NewMetrics(prometheus.NewRegistry())

		return &command.Backend{
			Transfer: service.NewTransferService(kiosks, tickets, workspaces, metrics, service.TransferLimits{
				MaxBytes: cfg.Limits.CSVMaxBytes,
				MaxRows:  cfg.Limits.CSVMaxRows,
			}),
			Users: postgres.NewUserPostgres(db),
			Migrate: func(ctx context.Context) error {
				return migration.EnsureMigrated(ctx, db, cfg.Database.Host)
			},
			Close: db.Close,
		}, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return command.NewFactory(open, os.Stdout, os.Stderr).Root().Run(ctx, args)
}
