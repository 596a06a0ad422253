package service

import (
	"context"
	"math"

	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
)

// allocateNext bumps the counter and returns the new id. Ids start at 1 and
// never wrap.
func allocateNext(ctx context.Context, store Store) (id.TokenID, error) {
	n, err := store.ReadCounter(ctx)
	if err != nil {
		return 0, err
	}
	if n == math.MaxUint64 {
		return 0, dErrors.New(dErrors.CodeInternal, "token id space exhausted")
	}
	next := n + 1
	if err := store.WriteCounter(ctx, next); err != nil {
		return 0, err
	}
	return id.TokenID(next), nil
}
