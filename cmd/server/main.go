package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/beijingsoftware/QR-Code-Database/config"
	appmodel "github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	apprepository "github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	appserver "github.com/beijingsoftware/QR-Code-Database/internal/app/server"
	appservice "github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	inframail "github.com/beijingsoftware/QR-Code-Database/internal/infra/mail"
	"github.com/beijingsoftware/QR-Code-Database/internal/infra/logger"
	infraNATS "github.com/beijingsoftware/QR-Code-Database/internal/infra/nats"
	infraPostgres "github.com/beijingsoftware/QR-Code-Database/internal/infra/postgres"
	infraPrometheus "github.com/beijingsoftware/QR-Code-Database/internal/infra/prometheus"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("listen_addr", cfg.App.ListenAddr),
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("scan_timezone", cfg.App.ScanTimezone),
		zap.Bool("audit_malformed", cfg.App.AuditMalformed),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// Idempotent schema setup for the Links and Scans tables.
	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}, &appmodel.Scan{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	scanRepo := apprepository.NewScanRepository(gormDB)

	scanLog, err := appservice.NewScanLogger(scanRepo, log, appservice.ScanLoggerOptions{
		Timezone:       cfg.App.ScanTimezone,
		AuditMalformed: cfg.App.AuditMalformed,
	})
	if err != nil {
		log.Fatal("Failed to build scan logger", zap.Error(err))
	}

	resolver := appservice.NewResolveService(linkRepo, log)
	issuer := appservice.NewIssueService(linkRepo, appservice.NewIssuePublisher(js), log)

	if cfg.SMTP.Host != "" {
		mailer, err := inframail.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to build SMTP sender", zap.Error(err))
		}
		consumer := appservice.NewNotifyConsumer(js, log, mailer, cfg.App.BaseURL)
		if err := consumer.Start(); err != nil {
			log.Fatal("Failed to start QR mail consumer", zap.Error(err))
		}
		log.Info("QR mail consumer started", zap.String("smtp_host", cfg.SMTP.Host))
	} else {
		log.Info("SMTP not configured, QR mail delivery disabled")
	}

	server := appserver.New(appserver.Dependencies{
		Logger:    log,
		Postgres:  pool,
		NATS:      natsConn,
		JetStream: js,
		Links:     linkRepo,
		Scans:     scanRepo,
		Resolver:  resolver,
		Issuer:    issuer,
		ScanLog:   scanLog,
		BaseURL:   cfg.App.BaseURL,
		QRAPIURL:  cfg.App.QRAPIURL,
	})

	if err := server.Listen(cfg.App.ListenAddr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
