package service

import (
	"context"
	"errors"
	"fmt"

	"vaxcert/internal/platform/tracer"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/sentinel"
)

// OwnerOf reports the owner of tokenID. Absence is not an error: ok is false
// for ids that were never issued.
func (s *Service) OwnerOf(ctx context.Context, tokenID id.TokenID) (owner id.Identity, ok bool, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanOwnerOf, "owner_of", tracer.Uint64(tracer.AttrTokenID, uint64(tokenID)))
	defer func() { done(err) }()

	if owner, hit := s.cachedOwner(ctx, tokenID); hit {
		return owner, true, nil
	}

	// The fill happens under the store lock so no transfer can commit between
	// the read and the cache write.
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		o, err := store.ReadOwner(ctx, tokenID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		owner, ok = o, true
		s.fillOwner(ctx, tokenID, owner)
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return owner, ok, nil
}

// cachedOwner never fails the call: cache errors count as misses.
func (s *Service) cachedOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, bool) {
	if s.cache == nil {
		return "", false
	}
	owner, err := s.cache.GetOwner(ctx, tokenID)
	switch {
	case err == nil:
		s.cacheLookup("hit")
		return owner, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.cacheLookup("miss")
	default:
		s.cacheLookup("error")
		s.logger.WarnContext(ctx, "owner cache lookup failed", "token_id", tokenID.String(), "error", err)
	}
	return "", false
}

func (s *Service) cacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.IncrementCacheLookup(result)
	}
}

func (s *Service) fillOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOwner(ctx, tokenID, owner); err != nil {
		s.logger.WarnContext(ctx, "failed to cache owner", "token_id", tokenID.String(), "error", err)
	}
}

// invalidateOwner runs inside the mutating transaction. A failure aborts the
// mutation so a committed owner change never leaves a stale entry behind.
func (s *Service) invalidateOwner(ctx context.Context, tokenID id.TokenID) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.InvalidateOwner(ctx, tokenID); err != nil {
		return fmt.Errorf("invalidate cached owner %s: %w", tokenID, err)
	}
	return nil
}

// MintWithAttrs issues a new certificate to `to`. Only the stored admin can
// authorize it; the new id is the counter plus one.
func (s *Service) MintWithAttrs(ctx context.Context, to id.Identity, attrs models.VaccineAttrs) (tokenID id.TokenID, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanMint, "mint_with_attrs")
	defer func() { done(err) }()

	if _, err := id.ParseIdentity(to.String()); err != nil {
		return 0, err
	}

	call := models.MintCall(to, attrs)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		if err := s.requireAdmin(ctx, store, call); err != nil {
			return err
		}
		next, err := allocateNext(ctx, store)
		if err != nil {
			return err
		}
		if err := store.WriteOwner(ctx, next, to); err != nil {
			return err
		}
		if err := store.WriteAttrs(ctx, next, &attrs); err != nil {
			return err
		}
		if err := s.invalidateOwner(ctx, next); err != nil {
			return err
		}
		tokenID = next
		return appendEvent(ctx, store, models.AggregateCertificate, next.String(), models.Event{
			Type:    models.EventMinted,
			TokenID: next,
			To:      to,
			Attrs:   &attrs,
		})
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.IncrementMinted()
	}
	s.logger.InfoContext(ctx, "certificate minted",
		"token_id", tokenID.String(),
		"owner_hash", tracer.HashIdentity(to.String()),
	)
	return tokenID, nil
}

// GetAttrs returns the payload of tokenID or ErrTokenNotFound.
func (s *Service) GetAttrs(ctx context.Context, tokenID id.TokenID) (attrs *models.VaccineAttrs, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanGetAttrs, "get_attrs", tracer.Uint64(tracer.AttrTokenID, uint64(tokenID)))
	defer func() { done(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		a, err := store.ReadAttrs(ctx, tokenID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ErrTokenNotFound
		}
		if err != nil {
			return err
		}
		attrs = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

// UpdateAttrs replaces the whole payload of tokenID. caller must be the
// current owner and must prove it.
func (s *Service) UpdateAttrs(ctx context.Context, caller id.Identity, tokenID id.TokenID, attrs models.VaccineAttrs) (err error) {
	ctx, done := s.instrument(ctx, tracer.SpanUpdateAttrs, "update_attrs",
		tracer.Uint64(tracer.AttrTokenID, uint64(tokenID)),
		tracer.String(tracer.AttrCaller, tracer.HashIdentity(caller.String())),
	)
	defer func() { done(err) }()

	call := models.UpdateAttrsCall(caller, tokenID, attrs)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		if err := s.requireOwner(ctx, store, caller, tokenID, call); err != nil {
			return err
		}
		if err := store.WriteAttrs(ctx, tokenID, &attrs); err != nil {
			return err
		}
		return appendEvent(ctx, store, models.AggregateCertificate, tokenID.String(), models.Event{
			Type:    models.EventAttrsUpdated,
			TokenID: tokenID,
			Attrs:   &attrs,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementAttrUpdates()
	}
	s.logger.InfoContext(ctx, "certificate attrs updated", "token_id", tokenID.String())
	return nil
}

// Transfer moves tokenID from `from` to `to`. Self-transfers are allowed.
func (s *Service) Transfer(ctx context.Context, from, to id.Identity, tokenID id.TokenID) (err error) {
	ctx, done := s.instrument(ctx, tracer.SpanTransfer, "transfer",
		tracer.Uint64(tracer.AttrTokenID, uint64(tokenID)),
		tracer.String(tracer.AttrCaller, tracer.HashIdentity(from.String())),
	)
	defer func() { done(err) }()

	if _, err := id.ParseIdentity(to.String()); err != nil {
		return err
	}

	call := models.TransferCall(from, to, tokenID)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		if err := s.requireOwner(ctx, store, from, tokenID, call); err != nil {
			return err
		}
		if err := store.WriteOwner(ctx, tokenID, to); err != nil {
			return err
		}
		if err := s.invalidateOwner(ctx, tokenID); err != nil {
			return err
		}
		return appendEvent(ctx, store, models.AggregateCertificate, tokenID.String(), models.Event{
			Type:    models.EventTransferred,
			TokenID: tokenID,
			From:    from,
			To:      to,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransfers()
	}
	s.logger.InfoContext(ctx, "certificate transferred",
		"token_id", tokenID.String(),
		"from_hash", tracer.HashIdentity(from.String()),
		"to_hash", tracer.HashIdentity(to.String()),
	)
	return nil
}

// Verify reports whether tokenID exists, with its owner and payload when it does.
func (s *Service) Verify(ctx context.Context, tokenID id.TokenID) (v *models.Verification, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanVerify, "verify", tracer.Uint64(tracer.AttrTokenID, uint64(tokenID)))
	defer func() { done(err) }()

	v = &models.Verification{TokenID: tokenID}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		owner, err := store.ReadOwner(ctx, tokenID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		attrs, err := store.ReadAttrs(ctx, tokenID)
		if err != nil {
			return err
		}
		v.Valid, v.Owner, v.Attrs = true, owner, attrs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
