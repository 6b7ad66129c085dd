package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/user-service/internal/config"
	"github.com/prperemyshlev/user-service/pkg/database"
	"github.com/prperemyshlev/user-service/pkg/messaging"
	"github.com/prperemyshlev/user-service/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	// Publisher is nil when no broker is configured
	Publisher() *messaging.Publisher
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	publisher      *messaging.Publisher
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(cfg.Postgres.URL(), logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	postgres, err := database.NewPostgres(cfg.Postgres.DSN(), database.PoolOptions{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	redis, err := database.NewRedis(ctx, database.RedisOptions{
		Addr:        cfg.Redis.Address(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout.Duration,
	})
	if err != nil {
		_ = i.postgres.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	if cfg.RabbitMQ.Enabled() {
		publisher, err := messaging.NewPublisher(cfg.RabbitMQ.URL, messaging.Topology{
			Exchange:   cfg.RabbitMQ.Exchange,
			Queue:      cfg.RabbitMQ.Queue,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
		})
		if err != nil {
			_ = i.postgres.Close()
			_ = i.redis.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		i.publisher = publisher
	} else {
		logger.Warn("RABBITMQ_URL not set, status change events will only be logged")
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry(observability.ServiceName)
	if err != nil {
		i.closeConnections()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	return i, nil
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Publisher() *messaging.Publisher {
	return i.publisher
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) closeConnections() error {
	errs := []error{i.postgres.Close(), i.redis.Close()}
	if i.publisher != nil {
		errs = append(errs, i.publisher.Close())
	}
	return errors.Join(errs...)
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 2)

	go func() { errs <- i.closeConnections() }()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	err := errors.Join(<-errs, <-errs)
	_ = i.logger.Sync()
	return err
}
