package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	shopcfg "github.com/Skotchmaster/autoparts_shop/internal/config"
	"github.com/Skotchmaster/autoparts_shop/internal/httpserver"
	"github.com/Skotchmaster/autoparts_shop/internal/idempotency"
	"github.com/Skotchmaster/autoparts_shop/internal/metrics"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
	"github.com/Skotchmaster/autoparts_shop/internal/repo"
	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/worker"
	pkgdb "github.com/Skotchmaster/autoparts_shop/pkg/db"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
	"github.com/Skotchmaster/autoparts_shop/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/autoparts_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/autoparts_shop/pkg/mykafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := shopcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var events service.EventPublisher
	var notifier service.Notifier = &notify.LogSender{Log: logger.With("component", "notify")}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = producer
		notifier = &notify.KafkaSender{Publisher: producer, Topic: cfg.OrderTopic}
	} else {
		logger.Warn("KAFKA_BROKERS not set, notifications go to the log")
	}

	var replay idempotency.Store = idempotency.Nop{}
	var redisStore *idempotency.RedisStore
	if cfg.RedisAddr != "" {
		rctx, rcancel := context.WithTimeout(context.Background(), 3*time.Second)
		redisStore, err = idempotency.NewRedisStore(rctx, cfg.RedisAddr)
		rcancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		replay = redisStore
	}

	if len(cfg.WebhookSecret) == 0 {
		logger.Warn("PAYMENT_WEBHOOK_SECRET not set, payment callbacks are accepted unsigned")
	}

	catalogSvc := &service.CatalogService{Store: store}
	cartSvc := &service.CartService{Store: store, Events: events, Topic: cfg.CartTopic, Metrics: m}
	orderSvc := &service.OrderService{Store: store, Notifier: notifier, Metrics: m, Attempts: cfg.CheckoutAttempts}
	paymentSvc := &service.PaymentService{Store: store, Notifier: notifier, Replay: replay, Metrics: m}
	profileSvc := &service.ProfileService{Store: store}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, m.ObserveHTTP))
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.SecureCookies

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: paymentSvc, Secret: cfg.WebhookSecret},
		ProfileHandler: &httpserver.ProfileHTTP{Svc: profileSvc},
		JWTSecret:      cfg.JWTAccessSecret,
		CSRF:           csrf.Middleware(csrfCfg),
		Ready:          store.Ping,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	releaser := &worker.ReservationReleaser{
		Carts:    cartSvc,
		TTL:      cfg.ReservationTTL,
		Interval: cfg.ReservationSweepInterval,
		Log:      logger,
	}
	go releaser.Run(workerCtx)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("shop listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	stopWorker()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	if redisStore != nil {
		_ = redisStore.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("shop stopped")
}
