package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kioskdesk/internal/auth"
	"kioskdesk/internal/config"
	"kioskdesk/internal/database"
	"kioskdesk/internal/database/migration"
	handlers "kioskdesk/internal/http/handler"
	"kioskdesk/internal/http/middleware"
	"kioskdesk/internal/logging"
	"kioskdesk/internal/otel"
	"kioskdesk/internal/repository/postgres"
	"kioskdesk/internal/service"
	"kioskdesk/internal/storage"
)

// multipart framing on top of the largest accepted file
const bodyHeadroom = 1 << 20

// @title Kiosk Maintenance Helpdesk API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logging.Init(cfg.Location(), cfg.Debug())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}

// run serves the API until ctx is done. Everything it opens is closed before it returns.
func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	users := postgres.NewUserPostgres(db)
	workspaceRepo := postgres.NewWorkspacePostgres(db)
	kioskRepo := postgres.NewKioskPostgres(db)
	ticketRepo := postgres.NewTicketPostgres(db)
	commentRepo := postgres.NewCommentPostgres(db)
	attachmentRepo := postgres.NewAttachmentPostgres(db)

	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	attachmentService := service.NewAttachmentService(objStore, attachmentRepo, ticketRepo,
		cfg.Limits.UploadMaxBytes, cfg.Limits.AttachmentURLExpiry())
	transferService := service.NewTransferService(kioskRepo, ticketRepo, workspaceRepo, metrics, service.TransferLimits{
		MaxBytes: cfg.Limits.CSVMaxBytes,
		MaxRows:  cfg.Limits.CSVMaxRows,
	})

	services := handlers.Services{
		Auth:        service.NewAuthService(users, tokens),
		Workspaces:  service.NewWorkspaceService(workspaceRepo, users, objStore),
		Kiosks:      service.NewKioskService(kioskRepo),
		Tickets:     service.NewTicketService(ticketRepo, kioskRepo, workspaceRepo, objStore, metrics),
		Comments:    service.NewCommentService(commentRepo, ticketRepo),
		Attachments: attachmentService,
		Transfer:    transferService,
		Tokens:      tokens,
		Cookie:      handlers.CookieOptions{Secure: cfg.Auth.CookieSecure},
	}

	bodyLimit := cfg.Limits.UploadMaxBytes
	if cfg.Limits.CSVMaxBytes > bodyLimit {
		bodyLimit = cfg.Limits.CSVMaxBytes
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(bodyLimit) + bodyHeadroom,
	})

	prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(cfg.Location()))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	handlers.RegisterRoutes(app, db, services)

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("server_starting", "addr", ":"+cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
