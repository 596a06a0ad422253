package store

import (
	"context"
	"errors"
	"log/slog"

	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/circuit"
	"vaxcert/pkg/platform/sentinel"
)

// ErrCacheBypassed is returned while the breaker keeps the cache out of the
// request path. Callers treat it like any other cache failure.
var ErrCacheBypassed = errors.New("owner cache bypassed: circuit open")

type ownerCache interface {
	GetOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	SetOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	InvalidateOwner(ctx context.Context, tokenID id.TokenID) error
}

// GuardedOwnerCache stops calling a failing cache until a probe succeeds.
// Invalidations always reach the cache so no stale owner outlives a reconnect.
type GuardedOwnerCache struct {
	inner   ownerCache
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedOwnerCache(inner ownerCache, breaker *circuit.Breaker, logger *slog.Logger) *GuardedOwnerCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GuardedOwnerCache{inner: inner, breaker: breaker, logger: logger}
}

func (c *GuardedOwnerCache) GetOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	if !c.breaker.Allow() {
		return "", ErrCacheBypassed
	}
	owner, err := c.inner.GetOwner(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		c.record(ctx, nil)
		return "", err
	}
	c.record(ctx, err)
	return owner, err
}

func (c *GuardedOwnerCache) SetOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	if !c.breaker.Allow() {
		return ErrCacheBypassed
	}
	err := c.inner.SetOwner(ctx, tokenID, owner)
	c.record(ctx, err)
	return err
}

func (c *GuardedOwnerCache) InvalidateOwner(ctx context.Context, tokenID id.TokenID) error {
	err := c.inner.InvalidateOwner(ctx, tokenID)
	c.record(ctx, err)
	return err
}

func (c *GuardedOwnerCache) record(ctx context.Context, err error) {
	var change circuit.StateChange
	if err != nil {
		change = c.breaker.RecordFailure()
	} else {
		change = c.breaker.RecordSuccess()
	}
	switch {
	case change.Opened:
		c.logger.WarnContext(ctx, "owner cache circuit opened", "breaker", c.breaker.Name(), "error", err)
	case change.Closed:
		c.logger.InfoContext(ctx, "owner cache circuit closed", "breaker", c.breaker.Name())
	}
}
