package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vaxcert/internal/platform/kafka/producer"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/outbox/metrics"
)

// Publisher is the slice of the Kafka producer the worker uses.
type Publisher interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Worker polls the outbox and publishes registry events to Kafka.
type Worker struct {
	store        outbox.Store
	publisher    Publisher
	topic        string
	batchSize    int
	pollInterval time.Duration
	retention    time.Duration
	pruneEvery   time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Worker)

func WithTopic(topic string) Option {
	return func(w *Worker) {
		w.topic = topic
	}
}

// WithBatchSize sets the maximum number of entries to fetch per poll.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithRetention enables pruning of entries processed longer ago than d.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) {
		w.retention = d
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func New(store outbox.Store, publisher Publisher, opts ...Option) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:        store,
		publisher:    publisher,
		topic:        "vaxcert.registry.events",
		batchSize:    100,
		pollInterval: 200 * time.Millisecond,
		pruneEvery:   time.Minute,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	pruneTicker := time.NewTicker(w.pruneEvery)
	defer pruneTicker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case <-ticker.C:
			w.poll(w.ctx)
		case <-pruneTicker.C:
			w.prune(w.ctx)
			if err := w.UpdateMetrics(w.ctx); err != nil {
				w.logger.Warn("failed to count pending outbox entries", "error", err)
			}
		}
	}
}

// poll publishes one batch and reports how many entries were fetched.
func (w *Worker) poll(ctx context.Context) int {
	start := time.Now()

	entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to fetch outbox entries", "error", err)
		if w.metrics != nil {
			w.metrics.IncPublishFailures()
		}
		return 0
	}
	if len(entries) == 0 {
		return 0
	}

	if w.metrics != nil {
		w.metrics.ObserveBatchSize(len(entries))
	}

	for _, entry := range entries {
		if err := w.publishEntry(ctx, entry); err != nil {
			w.logger.Error("failed to publish outbox entry",
				"id", entry.ID,
				"event_type", entry.EventType,
				"error", err,
			)
			if w.metrics != nil {
				w.metrics.IncPublishFailures()
			}
			// Retried on the next poll.
			continue
		}

		if err := w.store.MarkProcessed(ctx, entry.ID, w.now()); err != nil {
			// Published but not marked: it will be published again.
			w.logger.Error("failed to mark outbox entry processed",
				"id", entry.ID,
				"error", err,
			)
			continue
		}

		if w.metrics != nil {
			w.metrics.IncPublished()
		}
	}

	if w.metrics != nil {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
	}
	return len(entries)
}

func (w *Worker) publishEntry(ctx context.Context, entry *outbox.Entry) error {
	start := time.Now()

	msg := &producer.Message{
		Topic: w.topic,
		// Keyed by aggregate so one certificate's events stay ordered within a partition.
		Key:   []byte(entry.AggregateType + ":" + entry.AggregateID),
		Value: entry.Payload,
		Headers: map[string]string{
			"event_id":       entry.ID.String(),
			"aggregate_type": entry.AggregateType,
			"aggregate_id":   entry.AggregateID,
			"event_type":     entry.EventType,
		},
	}

	if err := w.publisher.Produce(ctx, msg); err != nil {
		return err
	}

	if w.metrics != nil {
		w.metrics.ObservePublishDuration(time.Since(start).Seconds())
	}
	return nil
}

func (w *Worker) prune(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	n, err := w.store.DeleteProcessedBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.logger.Error("failed to prune outbox", "error", err)
		return
	}
	if w.metrics != nil {
		w.metrics.AddPruned(n)
	}
	if n > 0 {
		w.logger.Info("pruned outbox entries", "count", n)
	}
}

// drain publishes what is left during shutdown, bounded by a short timeout.
func (w *Worker) drain() {
	w.logger.Info("draining outbox worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for ctx.Err() == nil {
		if w.poll(ctx) < w.batchSize {
			return
		}
	}
}

// Stop cancels the loop and waits for the drain to finish or ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateMetrics refreshes the pending depth gauge.
func (w *Worker) UpdateMetrics(ctx context.Context) error {
	if w.metrics == nil {
		return nil
	}

	count, err := w.store.CountPending(ctx)
	if err != nil {
		return err
	}

	w.metrics.SetPendingDepth(count)
	return nil
}
