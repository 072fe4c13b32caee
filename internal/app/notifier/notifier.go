// Package notifier собирает приложение, публикующее напоминания о продлении.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/renewal-tracker/internal/config"
	"github.com/magabrotheeeer/renewal-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/renewal-tracker/internal/metrics"
	"github.com/magabrotheeeer/renewal-tracker/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/renewal-tracker/internal/services/notifier"
	"github.com/magabrotheeeer/renewal-tracker/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App представляет приложение планировщика напоминаний.
type App struct {
	notifierService *notifierservice.NotifierService
	db              *repository.Storage
	conn            *amqp.Connection
	ch              *amqp.Channel
	metricsServer   *http.Server
	interval        time.Duration
	logger          *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range dbReadyAttempts {
		if err = db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ReminderQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewPublisher(ch, rabbitmq.ExchangeRenewals)
	m := metrics.New(prometheus.DefaultRegisterer)
	svc := notifierservice.NewNotifierService(db, publisher, m, logger, cfg.HorizonDays)

	app := &App{
		notifierService: svc,
		db:              db,
		conn:            conn,
		ch:              ch,
		interval:        cfg.ScanInterval,
		logger:          logger,
	}
	if cfg.MetricsAddress != "" {
		router := chi.NewRouter()
		router.Handle("/metrics", promhttp.Handler())
		app.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return app, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает периодическое сканирование и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if a.metricsServer != nil {
		go a.serveMetrics()
	}

	a.notifierService.Run(ctx, a.interval)

	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to stop metrics server", sl.Err(err))
		}
	}

	a.logger.Info("shutting down notifier")
	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}

func (a *App) serveMetrics() {
	a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
	if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("metrics server failed", sl.Err(err))
	}
}
