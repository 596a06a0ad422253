package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/sentinel"
)

// InMemoryStore keeps registry state in maps. Transactions stage their writes
// and apply them only when the callback succeeds.
type InMemoryStore struct {
	mu       sync.Mutex
	registry *models.Registry
	counter  uint64
	owners   map[id.TokenID]id.Identity
	attrs    map[id.TokenID]models.VaccineAttrs
	nonces   map[id.Identity]uint64
	outbox   []*outbox.Entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		owners: make(map[id.TokenID]id.Identity),
		attrs:  make(map[id.TokenID]models.VaccineAttrs),
		nonces: make(map[id.Identity]uint64),
	}
}

// RunInTx runs fn with exclusive access to the store. Writes made through the
// MemoryTxn are applied iff fn returns nil.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, txn *MemoryTxn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := &MemoryTxn{
		base:   s,
		owners: make(map[id.TokenID]id.Identity),
		attrs:  make(map[id.TokenID]models.VaccineAttrs),
		nonces: make(map[id.Identity]uint64),
	}
	if err := fn(ctx, txn); err != nil {
		return err
	}
	txn.commit()
	return nil
}

// MemoryTxn is the staged view of an InMemoryStore inside RunInTx.
// It is only valid for the duration of the callback.
type MemoryTxn struct {
	base     *InMemoryStore
	registry *models.Registry
	counter  *uint64
	owners   map[id.TokenID]id.Identity
	attrs    map[id.TokenID]models.VaccineAttrs
	nonces   map[id.Identity]uint64
	outbox   []*outbox.Entry
}

func (t *MemoryTxn) ReadRegistry(_ context.Context) (*models.Registry, error) {
	reg := t.registry
	if reg == nil {
		reg = t.base.registry
	}
	if reg == nil {
		return nil, sentinel.ErrNotFound
	}
	out := *reg
	return &out, nil
}

func (t *MemoryTxn) WriteRegistry(_ context.Context, reg *models.Registry) error {
	staged := *reg
	t.registry = &staged
	return nil
}

func (t *MemoryTxn) ReadCounter(_ context.Context) (uint64, error) {
	if t.counter != nil {
		return *t.counter, nil
	}
	return t.base.counter, nil
}

func (t *MemoryTxn) WriteCounter(_ context.Context, n uint64) error {
	t.counter = &n
	return nil
}

func (t *MemoryTxn) ReadOwner(_ context.Context, tokenID id.TokenID) (id.Identity, error) {
	if owner, ok := t.owners[tokenID]; ok {
		return owner, nil
	}
	if owner, ok := t.base.owners[tokenID]; ok {
		return owner, nil
	}
	return "", sentinel.ErrNotFound
}

func (t *MemoryTxn) WriteOwner(_ context.Context, tokenID id.TokenID, owner id.Identity) error {
	t.owners[tokenID] = owner
	return nil
}

func (t *MemoryTxn) ReadAttrs(_ context.Context, tokenID id.TokenID) (*models.VaccineAttrs, error) {
	if a, ok := t.attrs[tokenID]; ok {
		return &a, nil
	}
	if a, ok := t.base.attrs[tokenID]; ok {
		return &a, nil
	}
	return nil, sentinel.ErrNotFound
}

func (t *MemoryTxn) WriteAttrs(_ context.Context, tokenID id.TokenID, attrs *models.VaccineAttrs) error {
	t.attrs[tokenID] = *attrs
	return nil
}

func (t *MemoryTxn) ReadNonce(_ context.Context, identity id.Identity) (uint64, error) {
	if n, ok := t.nonces[identity]; ok {
		return n, nil
	}
	return t.base.nonces[identity], nil
}

func (t *MemoryTxn) WriteNonce(_ context.Context, identity id.Identity, n uint64) error {
	t.nonces[identity] = n
	return nil
}

func (t *MemoryTxn) AppendOutbox(_ context.Context, entry *outbox.Entry) error {
	staged := *entry
	t.outbox = append(t.outbox, &staged)
	return nil
}

func (t *MemoryTxn) commit() {
	s := t.base
	if t.registry != nil {
		s.registry = t.registry
	}
	if t.counter != nil {
		s.counter = *t.counter
	}
	for k, v := range t.owners {
		s.owners[k] = v
	}
	for k, v := range t.attrs {
		s.attrs[k] = v
	}
	for k, v := range t.nonces {
		s.nonces[k] = v
	}
	s.outbox = append(s.outbox, t.outbox...)
}

// Outbox operations used by the publishing worker.

// FetchUnprocessed returns pending entries in commit order.
func (s *InMemoryStore) FetchUnprocessed(_ context.Context, limit int) ([]*outbox.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*outbox.Entry
	for _, e := range s.outbox {
		if len(out) >= limit {
			break
		}
		if e.IsPending() {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkProcessed(_ context.Context, entryID uuid.UUID, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.outbox {
		if e.ID == entryID && e.IsPending() {
			at := processedAt
			e.ProcessedAt = &at
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) CountPending(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, e := range s.outbox {
		if e.IsPending() {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.outbox[:0]
	var n int64
	for _, e := range s.outbox {
		if e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	s.outbox = kept
	return n, nil
}
