package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines the outbox operations the publishing worker needs.
// Appends happen through the registry transaction, not through this interface.
// Implementations must be safe for concurrent use.
type Store interface {
	// FetchUnprocessed returns up to limit pending entries, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]*Entry, error)

	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error

	// CountPending feeds the pending-depth gauge.
	CountPending(ctx context.Context) (int64, error)

	// DeleteProcessedBefore prunes published entries and reports how many went.
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
