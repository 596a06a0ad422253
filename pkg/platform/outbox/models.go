package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a pending event written in the same transaction as the registry
// mutation that produced it.
type Entry struct {
	ID            uuid.UUID
	AggregateType string // "registry" or "certificate"
	AggregateID   string // token id, or the registry symbol
	EventType     string // e.g. "certificate.minted"
	Payload       []byte // JSON-encoded event
	CreatedAt     time.Time
	ProcessedAt   *time.Time // nil until published
}

func (e *Entry) IsPending() bool {
	return e.ProcessedAt == nil
}

// NewEntry creates an entry with a generated UUID.
func NewEntry(aggregateType, aggregateID, eventType string, payload []byte, createdAt time.Time) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     createdAt,
	}
}
