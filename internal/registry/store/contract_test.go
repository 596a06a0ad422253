package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/sentinel"
)

// registryView is the method set every backend transaction exposes.
type registryView interface {
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

type runTx func(ctx context.Context, fn func(ctx context.Context, v registryView) error) error

type backend struct {
	run    runTx
	outbox outbox.Store
}

// StoreContractSuite runs the same keyspace checks against every backend.
type StoreContractSuite struct {
	suite.Suite
	newBackend func(t *testing.T) backend
	b          backend
}

func (s *StoreContractSuite) SetupTest() {
	s.b = s.newBackend(s.T())
}

func (s *StoreContractSuite) view(fn func(ctx context.Context, v registryView) error) error {
	return s.b.run(context.Background(), fn)
}

var errAbort = errors.New("abort")

func (s *StoreContractSuite) TestEmptyKeyspace() {
	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		_, err := v.ReadRegistry(ctx)
		s.ErrorIs(err, sentinel.ErrNotFound)

		n, err := v.ReadCounter(ctx)
		s.NoError(err)
		s.Zero(n)

		_, err = v.ReadOwner(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = v.ReadAttrs(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	}))
}

func (s *StoreContractSuite) TestCommittedWritesPersist() {
	attrs := &models.VaccineAttrs{Name: "Pfizer", Batch: "B-01", ExpDate: math.MaxUint64, TakenDate: 1_700_000_000}

	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.WriteRegistry(ctx, &models.Registry{Admin: "GADMIN", Name: "VaxCert", Symbol: "VAX"}))
		s.Require().NoError(v.WriteCounter(ctx, 3))
		s.Require().NoError(v.WriteOwner(ctx, 3, "GALICE"))
		s.Require().NoError(v.WriteAttrs(ctx, 3, attrs))

		owner, err := v.ReadOwner(ctx, 3)
		s.Require().NoError(err)
		s.Equal(id.Identity("GALICE"), owner)
		return nil
	}))

	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		reg, err := v.ReadRegistry(ctx)
		s.Require().NoError(err)
		s.Equal(models.Registry{Admin: "GADMIN", Name: "VaxCert", Symbol: "VAX"}, *reg)

		n, err := v.ReadCounter(ctx)
		s.Require().NoError(err)
		s.Equal(uint64(3), n)

		got, err := v.ReadAttrs(ctx, 3)
		s.Require().NoError(err)
		s.Equal(*attrs, *got)
		return nil
	}))
}

func (s *StoreContractSuite) TestOverwriteReplacesWholesale() {
	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.WriteOwner(ctx, 1, "GALICE"))
		s.Require().NoError(v.WriteAttrs(ctx, 1, &models.VaccineAttrs{Name: "Pfizer", Batch: "B-01", ExpDate: 10, TakenDate: 5}))
		return nil
	}))
	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.WriteOwner(ctx, 1, "GBOB"))
		s.Require().NoError(v.WriteAttrs(ctx, 1, &models.VaccineAttrs{Name: "Moderna"}))
		return nil
	}))
	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		owner, err := v.ReadOwner(ctx, 1)
		s.Require().NoError(err)
		s.Equal(id.Identity("GBOB"), owner)

		got, err := v.ReadAttrs(ctx, 1)
		s.Require().NoError(err)
		s.Equal(models.VaccineAttrs{Name: "Moderna"}, *got)
		return nil
	}))
}

func (s *StoreContractSuite) TestFailedTxLeavesNoTrace() {
	err := s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.WriteCounter(ctx, 1))
		s.Require().NoError(v.WriteOwner(ctx, 1, "GALICE"))
		s.Require().NoError(v.WriteAttrs(ctx, 1, &models.VaccineAttrs{Name: "Pfizer"}))
		s.Require().NoError(v.AppendOutbox(ctx, outbox.NewEntry("certificate", "1", "certificate.minted", []byte(`{}`), time.Now())))
		return errAbort
	})
	s.Require().ErrorIs(err, errAbort)

	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		n, err := v.ReadCounter(ctx)
		s.NoError(err)
		s.Zero(n)
		_, err = v.ReadOwner(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = v.ReadAttrs(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	}))

	pending, err := s.b.outbox.CountPending(context.Background())
	s.Require().NoError(err)
	s.Zero(pending)
}

func (s *StoreContractSuite) TestNoncesArePerIdentity() {
	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		n, err := v.ReadNonce(ctx, "GALICE")
		s.NoError(err)
		s.Zero(n)
		s.Require().NoError(v.WriteNonce(ctx, "GALICE", math.MaxUint64))
		return v.WriteNonce(ctx, "GBOB", 1)
	}))

	s.Require().ErrorIs(s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.WriteNonce(ctx, "GBOB", 2))
		return errAbort
	}), errAbort)

	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		alice, err := v.ReadNonce(ctx, "GALICE")
		s.Require().NoError(err)
		s.Equal(uint64(math.MaxUint64), alice)

		bob, err := v.ReadNonce(ctx, "GBOB")
		s.Require().NoError(err)
		s.Equal(uint64(1), bob)
		return nil
	}))
}

func (s *StoreContractSuite) TestOutboxLifecycle() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	first := outbox.NewEntry("registry", "VaxCert", "registry.initialized", []byte(`{"n":1}`), base)
	second := outbox.NewEntry("certificate", "1", "certificate.minted", []byte(`{"n":2}`), base.Add(time.Millisecond))

	s.Require().NoError(s.view(func(ctx context.Context, v registryView) error {
		s.Require().NoError(v.AppendOutbox(ctx, first))
		return v.AppendOutbox(ctx, second)
	}))

	entries, err := s.b.outbox.FetchUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(first.ID, entries[0].ID)
	s.Equal("registry.initialized", entries[0].EventType)
	s.JSONEq(`{"n":1}`, string(entries[0].Payload))
	s.Equal(second.ID, entries[1].ID)

	limited, err := s.b.outbox.FetchUnprocessed(ctx, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)

	processedAt := base.Add(time.Second)
	s.Require().NoError(s.b.outbox.MarkProcessed(ctx, first.ID, processedAt))
	s.Error(s.b.outbox.MarkProcessed(ctx, first.ID, processedAt))

	pending, err := s.b.outbox.CountPending(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), pending)

	deleted, err := s.b.outbox.DeleteProcessedBefore(ctx, processedAt.Add(time.Second))
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	entries, err = s.b.outbox.FetchUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(second.ID, entries[0].ID)
}
