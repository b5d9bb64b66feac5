package config

import (
	"os"
	"time"

	"github.com/Skotchmaster/autoparts_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config

	RedisAddr     string
	WebhookSecret []byte

	CartTopic  string
	OrderTopic string

	ReservationTTL           time.Duration
	ReservationSweepInterval time.Duration

	CheckoutAttempts int

	SecureCookies bool
}

type NotifierConfig struct {
	config.Config

	OrderTopic string
	GroupID    string

	SMTPAddr     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string
}

func fromEnv() ServiceConfig {
	return ServiceConfig{
		Config: config.Load(),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		WebhookSecret: []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET")),

		CartTopic:  config.EnvDefault("CART_TOPIC", "cart_events"),
		OrderTopic: config.EnvDefault("ORDER_TOPIC", "order_notifications"),

		ReservationTTL:           config.EnvDurationDefault("RESERVATION_TTL", 24*time.Hour),
		ReservationSweepInterval: config.EnvDurationDefault("RESERVATION_SWEEP_INTERVAL", 10*time.Minute),

		CheckoutAttempts: config.EnvIntDefault("CHECKOUT_ATTEMPTS", 5),

		SecureCookies: config.EnvDefault("COOKIE_SECURE", "false") == "true",
	}
}

func Load() ServiceConfig {
	cfg := fromEnv()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}

func LoadNotifier() NotifierConfig {
	cfg := NotifierConfig{
		Config: config.Load(),

		OrderTopic: config.EnvDefault("ORDER_TOPIC", "order_notifications"),
		GroupID:    config.EnvDefault("NOTIFIER_GROUP_ID", "shop-notifier"),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPFrom:     config.EnvDefault("SMTP_FROM", "noreply@autoparts.local"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	config.MustNonEmptyList(cfg.KafkaBrokers, "KAFKA_BROKERS")

	return cfg
}
