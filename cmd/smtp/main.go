package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/attachment"
	"github.com/yasirarism/vaultmail/internal/config"
	"github.com/yasirarism/vaultmail/internal/logging"
	"github.com/yasirarism/vaultmail/internal/notify"
	"github.com/yasirarism/vaultmail/internal/repository"
	"github.com/yasirarism/vaultmail/internal/service"
	smtpserver "github.com/yasirarism/vaultmail/internal/smtp"
)

// Отдельный SMTP-приёмник. Очистка и админка работают в cmd/api.
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

	messageRepo := repository.NewMessageRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)

	var slackSink service.ChatSender
	if slack := notify.NewSlack(cfg.External.SlackWebhookURL, cfg.External.Timeout); slack != nil {
		slackSink = slack
	}
	notifyService := service.NewNotifyService(settingsRepo, notify.NewTelegram(cfg.External.TelegramAPIURL, cfg.External.Timeout), slackSink, logger)
	ingestService := service.NewIngestService(messageRepo, attachment.NewProcessor(cfg.Mail.AttachmentMaxBytes), notifyService, service.NewStats(), logger)

	server := smtpserver.NewServer(cfg.Server, cfg.Mail.DefaultDomains[0], ingestService, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down")
		server.Close()
	}()

	if err := server.Start(); err != nil {
		logger.Info("SMTP server stopped", zap.Error(err))
	}
}
