package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"vaxcert/internal/platform/kafka/producer"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/outbox/metrics"
)

type fakeStore struct {
	mu       sync.Mutex
	entries  []*outbox.Entry
	fetchErr error
}

func (f *fakeStore) FetchUnprocessed(_ context.Context, limit int) ([]*outbox.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []*outbox.Entry
	for _, e := range f.entries {
		if e.IsPending() && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkProcessed(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			e.ProcessedAt = &at
			return nil
		}
	}
	return errors.New("missing")
}

func (f *fakeStore) CountPending(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.entries {
		if e.IsPending() {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	var n int64
	for _, e := range f.entries {
		if e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*producer.Message
	failFor  string
}

func (p *fakePublisher) Produce(_ context.Context, msg *producer.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.Headers["event_type"] == p.failFor {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

type WorkerSuite struct {
	suite.Suite
	store     *fakeStore
	publisher *fakePublisher
	metrics   *metrics.Metrics
	worker    *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.store = &fakeStore{}
	s.publisher = &fakePublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.worker = New(s.store, s.publisher,
		WithTopic("test.events"),
		WithBatchSize(2),
		WithMetrics(s.metrics),
		WithRetention(time.Hour),
	)
}

func (s *WorkerSuite) add(eventType, aggregateID string) *outbox.Entry {
	e := outbox.NewEntry("certificate", aggregateID, eventType, []byte(`{}`), time.Now())
	s.store.entries = append(s.store.entries, e)
	return e
}

func (s *WorkerSuite) TestPollPublishesAndMarks() {
	first := s.add("certificate.minted", "1")
	s.add("certificate.transferred", "1")
	s.add("certificate.minted", "2")

	s.Equal(2, s.worker.poll(context.Background()))
	s.Require().Len(s.publisher.messages, 2)

	msg := s.publisher.messages[0]
	s.Equal("test.events", msg.Topic)
	s.Equal("certificate:1", string(msg.Key))
	s.Equal(first.ID.String(), msg.Headers["event_id"])
	s.False(first.IsPending())

	s.Equal(1, s.worker.poll(context.Background()))
	s.Equal(0, s.worker.poll(context.Background()))
	s.Equal(3.0, testutil.ToFloat64(s.metrics.PublishedTotal))
}

func (s *WorkerSuite) TestFailedPublishIsRetried() {
	failing := s.add("certificate.attrs_updated", "4")
	s.publisher.failFor = "certificate.attrs_updated"

	s.worker.poll(context.Background())
	s.True(failing.IsPending())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PublishFailures))

	s.publisher.failFor = ""
	s.worker.poll(context.Background())
	s.False(failing.IsPending())
}

func (s *WorkerSuite) TestFetchErrorCountsFailure() {
	s.store.fetchErr = errors.New("db down")
	s.Equal(0, s.worker.poll(context.Background()))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PublishFailures))
}

func (s *WorkerSuite) TestPruneAndPendingDepth() {
	old := s.add("certificate.minted", "1")
	s.add("certificate.minted", "2")
	processed := time.Now().Add(-2 * time.Hour)
	old.ProcessedAt = &processed

	s.worker.prune(context.Background())
	s.Len(s.store.entries, 1)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PrunedTotal))

	s.Require().NoError(s.worker.UpdateMetrics(context.Background()))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PendingDepth))
}

func (s *WorkerSuite) TestStopDrainsPending() {
	s.add("certificate.minted", "1")
	s.add("certificate.minted", "2")
	s.add("certificate.minted", "3")

	w := New(s.store, s.publisher, WithPollInterval(time.Hour), WithBatchSize(2))
	w.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(w.Stop(ctx))

	n, err := s.store.CountPending(context.Background())
	s.Require().NoError(err)
	s.Zero(n)
	s.Len(s.publisher.messages, 3)
}
