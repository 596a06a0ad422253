package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vaxcert/internal/authn"
	"vaxcert/internal/platform/config"
	"vaxcert/internal/platform/database"
	"vaxcert/internal/platform/health"
	"vaxcert/internal/platform/kafka/producer"
	"vaxcert/internal/platform/redis"
	"vaxcert/internal/registry/service"
	"vaxcert/internal/registry/store"
	"vaxcert/pkg/platform/circuit"
	"vaxcert/pkg/platform/outbox"
	outboxMetrics "vaxcert/pkg/platform/outbox/metrics"
	"vaxcert/pkg/platform/outbox/worker"
)

// backend bundles the transactional registry store with the outbox view of
// the same storage.
type backend struct {
	tx     service.StoreTx
	outbox outbox.Store
	checks map[string]health.CheckFunc
	close  func()
}

func openBackend(ctx context.Context, cfg config.Config, reg prometheus.Registerer, log *slog.Logger) (*backend, error) {
	txOpts := []service.TxOption{service.WithTxTimeout(cfg.TxTimeout)}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := store.NewSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("using sqlite store", "path", s.Path())
		return &backend{
			tx:     service.NewStoreTx(s.RunInTx, txOpts...),
			outbox: s,
			checks: map[string]health.CheckFunc{"sqlite": s.Ping},
			close:  func() { _ = s.Close() },
		}, nil

	case config.BackendPostgres:
		pool, err := database.New(ctx, database.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, pool.DB()); err != nil {
				_ = pool.Close()
				return nil, err
			}
		}
		reg.MustRegister(collectors.NewDBStatsCollector(pool.DB(), "vaxcert"))
		log.Info("using postgres store")
		s := store.NewPostgres(pool.DB())
		return &backend{
			tx:     service.NewStoreTx(s.RunInTx, txOpts...),
			outbox: s,
			checks: map[string]health.CheckFunc{"postgres": pool.Health},
			close:  func() { _ = pool.Close() },
		}, nil

	default:
		log.Warn("using in-memory store; state is lost on restart")
		s := store.NewInMemory()
		return &backend{
			tx:     service.NewStoreTx(s.RunInTx, txOpts...),
			outbox: s,
			close:  func() {},
		}, nil
	}
}

type ownerCache struct {
	client *redis.Client
	owners *store.GuardedOwnerCache
}

// openOwnerCache returns nil when Redis is not configured.
func openOwnerCache(ctx context.Context, cfg config.Config, reg prometheus.Registerer, log *slog.Logger) (*ownerCache, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}
	client, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
	if err != nil {
		return nil, err
	}
	log.Info("owner cache enabled", "ttl", cfg.Redis.OwnerCacheTTL)
	return &ownerCache{
		client: client,
		owners: store.NewGuardedOwnerCache(
			store.NewRedisOwnerCache(client, cfg.Redis.OwnerCacheTTL),
			circuit.New("owner-cache"),
			log,
		),
	}, nil
}

type publisher interface {
	worker.Publisher
	Close() error
	Healthy(ctx context.Context) bool
}

func openPublisher(cfg config.Config, log *slog.Logger) (publisher, error) {
	if cfg.Kafka.Brokers == "" {
		log.Info("kafka not configured; registry events are discarded")
		return producer.NewNoopProducer(log), nil
	}
	p, err := producer.New(producer.Config{
		Brokers:         cfg.Kafka.Brokers,
		ClientID:        cfg.Kafka.ClientID,
		Acks:            cfg.Kafka.Acks,
		Retries:         cfg.Kafka.Retries,
		DeliveryTimeout: cfg.Kafka.DeliveryTimeout,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("publishing registry events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return p, nil
}

func newOutboxWorker(cfg config.Config, s outbox.Store, pub worker.Publisher, reg prometheus.Registerer, log *slog.Logger) *worker.Worker {
	return worker.New(s, pub,
		worker.WithTopic(cfg.Kafka.Topic),
		worker.WithBatchSize(cfg.Outbox.BatchSize),
		worker.WithPollInterval(cfg.Outbox.PollInterval),
		worker.WithRetention(cfg.Outbox.Retention),
		worker.WithMetrics(outboxMetrics.New(reg)),
		worker.WithLogger(log),
	)
}

func newAuthenticator(cfg config.Config) service.Authenticator {
	if cfg.Auth.Mode == config.AuthJWT {
		return authn.NewJWTAuthenticator(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	}
	return authn.NewSignatureAuthenticator()
}
