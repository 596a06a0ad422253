package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vaxcert/internal/platform/config"
	"vaxcert/internal/platform/health"
	"vaxcert/internal/platform/logger"
	"vaxcert/internal/platform/metrics"
	"vaxcert/internal/platform/tracer"
	registryHandler "vaxcert/internal/registry/handler"
	registryMetrics "vaxcert/internal/registry/metrics"
	"vaxcert/internal/registry/service"
	"vaxcert/pkg/platform/middleware/request"
	"vaxcert/pkg/validation"
)

// main wires the registry service to its store, cache, publisher and HTTP
// surface, then runs until SIGINT/SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log := logger.New(level)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing vaxcert",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"backend", cfg.Storage.Backend,
		"auth_mode", cfg.Auth.Mode,
	)

	reg := metrics.NewRegistry(health.Version, cfg.Storage.Backend)
	healthHandler := health.New(cfg.Environment, cfg.Storage.Backend)

	be, err := openBackend(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer be.close()
	for name, check := range be.checks {
		healthHandler.RegisterCheck(name, check)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(registryMetrics.New(reg)),
		service.WithTracer(newTracer(cfg)),
	}

	cache, err := openOwnerCache(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.client.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("redis", cache.client.Health)
		opts = append(opts, service.WithOwnerCache(cache.owners))
	}

	registry := service.New(be.tx, newAuthenticator(cfg), opts...)

	pub, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer pub.Close() //nolint:errcheck // shutdown path
	if cfg.Kafka.Brokers != "" {
		healthHandler.RegisterCheck("kafka", func(ctx context.Context) error {
			if !pub.Healthy(ctx) {
				return errors.New("brokers unreachable")
			}
			return nil
		})
	}
	outboxWorker := newOutboxWorker(cfg, be.outbox, pub, reg, log)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.RequestTime)
	r.Use(request.Logger(log))
	r.Use(request.Latency(request.NewMetrics(reg)))
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = validation.MaxBodySize
	}
	r.Use(request.BodyLimit(maxBody))
	r.Use(request.ContentTypeJSON)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(cfg.RequestTimeout))
		registryHandler.New(registry, log, cfg.BootstrapTokenHash).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	outboxWorker.Start()

	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := outboxWorker.UpdateMetrics(gctx); err != nil {
					log.WarnContext(gctx, "failed to update outbox metrics", "error", err)
				}
				if cache != nil {
					cache.client.RecordPoolStats()
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := outboxWorker.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newTracer(cfg config.Config) tracer.Tracer {
	if cfg.TracingEnabled {
		return tracer.NewOTel()
	}
	return tracer.NewNoop()
}
