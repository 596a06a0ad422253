package service

import (
	"context"
	"encoding/json"
	"fmt"

	"vaxcert/internal/registry/models"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/requestcontext"
)

// appendEvent stages evt in the outbox within the caller's transaction.
func appendEvent(ctx context.Context, store Store, aggregateType, aggregateID string, evt models.Event) error {
	evt.RequestID = requestcontext.RequestID(ctx)
	evt.Timestamp = requestcontext.Now(ctx)

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}
	return store.AppendOutbox(ctx, outbox.NewEntry(aggregateType, aggregateID, evt.Type, payload, evt.Timestamp))
}
