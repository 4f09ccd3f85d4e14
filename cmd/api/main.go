package main

// @title VaultMail API
// @version 1.0
// @description Сервис одноразовых почтовых ящиков: приём писем через вебхук и SMTP, чтение ящика, скачивание и админка.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "github.com/yasirarism/vaultmail/docs"
	"github.com/yasirarism/vaultmail/internal/attachment"
	"github.com/yasirarism/vaultmail/internal/config"
	"github.com/yasirarism/vaultmail/internal/handler"
	"github.com/yasirarism/vaultmail/internal/logging"
	"github.com/yasirarism/vaultmail/internal/notify"
	"github.com/yasirarism/vaultmail/internal/repository"
	"github.com/yasirarism/vaultmail/internal/scheduler"
	"github.com/yasirarism/vaultmail/internal/service"
	smtpserver "github.com/yasirarism/vaultmail/internal/smtp"
	"github.com/yasirarism/vaultmail/internal/whois"
)

const (
	loginLimiterPrefix = "admin-auth"
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := repository.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	rdb, err := repository.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Создаём репозитории
	messageRepo := repository.NewMessageRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	expirationRepo := repository.NewDomainExpirationRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(rdb)
	limiter := repository.NewLoginLimiter(rdb, loginLimiterPrefix, cfg.Admin.LoginMaxAttempts, cfg.Admin.LoginLockout)

	// Внешние клиенты
	var slackSink service.ChatSender
	if slack := notify.NewSlack(cfg.External.SlackWebhookURL, cfg.External.Timeout); slack != nil {
		slackSink = slack
	}
	telegram := notify.NewTelegram(cfg.External.TelegramAPIURL, cfg.External.Timeout)
	whoisClient := whois.NewClient(cfg.External.WhoisURL, cfg.External.Timeout, logger)

	// Создаём сервисы
	stats := service.NewStats()
	notifyService := service.NewNotifyService(settingsRepo, telegram, slackSink, logger)
	ingestService := service.NewIngestService(messageRepo, attachment.NewProcessor(cfg.Mail.AttachmentMaxBytes), notifyService, stats, logger)
	messageService := service.NewMessageService(messageRepo, stats, logger)
	retentionService := service.NewRetentionService(settingsRepo, messageRepo, repository.NewRetentionRepository(db.DB), cfg.Mail.RetentionSeconds, stats, logger)
	sessionService := service.NewSessionService(sessionRepo, limiter, cfg.Admin.Password, logger)
	domainService := service.NewDomainService(settingsRepo, expirationRepo, whoisClient, cfg.Mail.DefaultDomains, logger)

	if err := retentionService.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create TTL index", zap.Error(err))
	}

	jobs, err := scheduler.New(cfg.Jobs, retentionService, domainService, logger)
	if err != nil {
		logger.Fatal("Failed to schedule jobs", zap.Error(err))
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:               "VaultMail API",
		BodyLimit:             cfg.Server.MaxRequestBytes,
		DisableStartupMessage: true,
	})

	handler.SetupRoutes(app, handler.Handlers{
		Webhook:  handler.NewWebhookHandler(ingestService, logger),
		Messages: handler.NewMessageHandler(messageService, logger),
		Admin:    handler.NewAdminHandler(sessionService, retentionService, messageService, notifyService, domainService, logger),
		Domains:  handler.NewDomainHandler(domainService, cfg.Admin.CronSecret, logger),
		Sessions: sessionService,
		Checks: map[string]handler.ReadinessCheck{
			"postgres": db.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
		Logger: logger,
	})

	var smtpServer *smtpserver.Server
	if cfg.Server.SMTPEnabled {
		smtpServer = smtpserver.NewServer(cfg.Server, cfg.Mail.DefaultDomains[0], ingestService, logger)
		go func() {
			if err := smtpServer.Start(); err != nil {
				logger.Error("SMTP server stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	jobs.Stop()
	if smtpServer != nil {
		smtpServer.Close()
	}
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
}
