package service

import (
	"context"
	"errors"
	"math"

	"vaxcert/internal/platform/tracer"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
	"vaxcert/pkg/platform/sentinel"
)

// loadRegistry translates a missing registry into ErrUninitialized.
func loadRegistry(ctx context.Context, store Store) (*models.Registry, error) {
	reg, err := store.ReadRegistry(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, models.ErrUninitialized
	}
	return reg, err
}

// loadOwner translates a missing owner into ErrTokenNotFound.
func loadOwner(ctx context.Context, store Store, tokenID id.TokenID) (id.Identity, error) {
	owner, err := store.ReadOwner(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", models.ErrTokenNotFound
	}
	return owner, err
}

// requireAdmin demands a proof from the stored admin. There is no way to
// act as any other admin.
func (s *Service) requireAdmin(ctx context.Context, store Store, call models.Call) error {
	reg, err := loadRegistry(ctx, store)
	if err != nil {
		return err
	}
	return s.verify(ctx, store, reg.Admin, call)
}

// requireOwner checks claimed against the stored owner before asking for a proof.
func (s *Service) requireOwner(ctx context.Context, store Store, claimed id.Identity, tokenID id.TokenID, call models.Call) error {
	owner, err := loadOwner(ctx, store, tokenID)
	if err != nil {
		return err
	}
	if owner != claimed {
		s.rejected(call, dErrors.CodeNotOwner)
		return models.ErrNotOwner
	}
	return s.verify(ctx, store, claimed, call)
}

// verify binds call to the signer's current nonce and consumes it in the same
// transaction, so a proof cannot be replayed once the call commits.
func (s *Service) verify(ctx context.Context, store Store, identity id.Identity, call models.Call) error {
	nonce, err := store.ReadNonce(ctx, identity)
	if err != nil {
		return err
	}
	if nonce == math.MaxUint64 {
		return dErrors.New(dErrors.CodeInternal, "nonce space exhausted")
	}
	call = call.WithNonce(nonce)
	if err := s.auth.Verify(ctx, identity, call); err != nil {
		s.rejected(call, dErrors.CodeUnauthenticated)
		s.logger.WarnContext(ctx, "authorization proof rejected",
			"operation", call.Operation,
			"identity_hash", tracer.HashIdentity(identity.String()),
			"error", err,
		)
		// The code is forced: a verifier failure of any kind is a rejected proof.
		return &dErrors.Error{Code: dErrors.CodeUnauthenticated, Message: models.ErrUnauthenticated.Error(), Err: err}
	}
	return store.WriteNonce(ctx, identity, nonce+1)
}

func (s *Service) rejected(call models.Call, reason dErrors.Code) {
	if s.metrics != nil {
		s.metrics.IncrementAuthRejection(string(call.Operation), string(reason))
	}
}

// Nonce returns the nonce identity must sign its next gated call over.
func (s *Service) Nonce(ctx context.Context, identity id.Identity) (nonce uint64, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanNonce, "nonce")
	defer func() { done(err) }()

	if _, err := id.ParseIdentity(identity.String()); err != nil {
		return 0, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		n, err := store.ReadNonce(ctx, identity)
		nonce = n
		return err
	})
	return nonce, err
}
