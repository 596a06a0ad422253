package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks -exclude_interfaces=Store,StoreTx

import (
	"context"
	"log/slog"
	"time"

	"vaxcert/internal/platform/tracer"
	"vaxcert/internal/registry/metrics"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
	"vaxcert/pkg/platform/outbox"
)

// Store is the registry keyspace as seen from inside one transaction.
// Error Contract:
//   - ReadRegistry, ReadOwner and ReadAttrs return sentinel.ErrNotFound when the key is unset
//   - ReadCounter and ReadNonce return 0 when the value was never written
//   - Write methods overwrite unconditionally
type Store interface {
	ReadRegistry(ctx context.Context) (*models.Registry, error)
	WriteRegistry(ctx context.Context, reg *models.Registry) error
	ReadCounter(ctx context.Context) (uint64, error)
	WriteCounter(ctx context.Context, n uint64) error
	ReadOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	WriteOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	ReadAttrs(ctx context.Context, tokenID id.TokenID) (*models.VaccineAttrs, error)
	WriteAttrs(ctx context.Context, tokenID id.TokenID, attrs *models.VaccineAttrs) error
	ReadNonce(ctx context.Context, identity id.Identity) (uint64, error)
	WriteNonce(ctx context.Context, identity id.Identity, n uint64) error
	AppendOutbox(ctx context.Context, entry *outbox.Entry) error
}

// StoreTx runs one registry call. Writes made through store commit only when
// fn returns nil, and calls never interleave.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// OwnerCache fronts owner_of lookups. GetOwner returns sentinel.ErrNotFound on a miss.
type OwnerCache interface {
	GetOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	SetOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	InvalidateOwner(ctx context.Context, tokenID id.TokenID) error
}

// Authenticator checks that call was authorized by identity.
type Authenticator interface {
	Verify(ctx context.Context, identity id.Identity, call models.Call) error
}

type Option func(*Service)

// Service is the registry facade. Every operation runs in one store
// transaction and either commits all of its writes or none.
type Service struct {
	tx      StoreTx
	auth    Authenticator
	cache   OwnerCache
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

func New(tx StoreTx, auth Authenticator, opts ...Option) *Service {
	svc := &Service{
		tx:     tx,
		auth:   auth,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithOwnerCache enables read-through caching for OwnerOf.
func WithOwnerCache(c OwnerCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// instrument opens a span and returns the func that closes it and records
// the call outcome.
func (s *Service) instrument(ctx context.Context, span, operation string, attrs ...tracer.Attribute) (context.Context, func(error)) {
	start := time.Now()
	ctx, sp := s.tracer.Start(ctx, span, attrs...)
	return ctx, func(err error) {
		outcome := outcomeOf(err)
		sp.SetAttributes(tracer.String(tracer.AttrOutcome, outcome))
		sp.End(err)
		if s.metrics != nil {
			s.metrics.ObserveCall(operation, outcome, time.Since(start).Seconds())
		}
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return string(dErrors.CodeOf(err))
}
