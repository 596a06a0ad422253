package service

import (
	"context"
	"errors"

	"vaxcert/internal/platform/tracer"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/sentinel"
)

// Initialize writes the registry singleton once. A second call changes
// nothing and reports AlreadyInitialized.
func (s *Service) Initialize(ctx context.Context, admin id.Identity, name, symbol string) (result *models.InitResult, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanInitialize, "initialize")
	defer func() { done(err) }()

	if _, err := id.ParseIdentity(admin.String()); err != nil {
		return nil, err
	}

	result = &models.InitResult{}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		_, err := store.ReadRegistry(ctx)
		switch {
		case err == nil:
			result.AlreadyInitialized = true
			return nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return err
		}

		if err := store.WriteRegistry(ctx, &models.Registry{Admin: admin, Name: name, Symbol: symbol}); err != nil {
			return err
		}
		if err := store.WriteCounter(ctx, 0); err != nil {
			return err
		}
		return appendEvent(ctx, store, models.AggregateRegistry, symbol, models.Event{
			Type:  models.EventRegistryInitialized,
			Admin: admin,
		})
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyInitialized {
		s.logger.WarnContext(ctx, "registry already initialized; arguments ignored")
	} else {
		s.logger.InfoContext(ctx, "registry initialized",
			"name", name,
			"symbol", symbol,
			"admin_hash", tracer.HashIdentity(admin.String()),
		)
	}
	return result, nil
}

// Admin returns the stored administrator or ErrUninitialized.
func (s *Service) Admin(ctx context.Context) (admin id.Identity, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanAdmin, "admin")
	defer func() { done(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		reg, err := loadRegistry(ctx, store)
		if err != nil {
			return err
		}
		admin = reg.Admin
		return nil
	})
	return admin, err
}

// Metadata returns the registry singleton together with the issue count.
func (s *Service) Metadata(ctx context.Context) (meta *models.RegistryMetadata, err error) {
	ctx, done := s.instrument(ctx, tracer.SpanMetadata, "metadata")
	defer func() { done(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		reg, err := loadRegistry(ctx, store)
		if err != nil {
			return err
		}
		issued, err := store.ReadCounter(ctx)
		if err != nil {
			return err
		}
		meta = &models.RegistryMetadata{Registry: *reg, Issued: issued}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}
