package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	shopcfg "github.com/Skotchmaster/autoparts_shop/internal/config"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
	"github.com/Skotchmaster/autoparts_shop/pkg/mykafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := shopcfg.LoadNotifier()

	logger := logging.New(cfg.LogLevel).With("service", "notifier")
	slog.SetDefault(logger)

	var sender notify.Sender = &notify.LogSender{Log: logger}
	if cfg.SMTPAddr != "" {
		sender = &notify.SMTPSender{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}
	} else {
		logger.Warn("SMTP_ADDR not set, messages are only logged")
	}

	consumer, err := mykafka.NewConsumer(cfg.KafkaBrokers, cfg.GroupID, cfg.OrderTopic, logger)
	if err != nil {
		log.Fatalf("kafka consumer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier consuming", "topic", cfg.OrderTopic, "group", cfg.GroupID)
	if err := consumer.Run(ctx, notify.Deliver(sender)); err != nil {
		logger.Error("consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	logger.Info("notifier stopped")
}
