// Package tracer is a small tracing abstraction so registry code can emit spans
// without importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests and deployments with tracing disabled
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span; a non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Uint64 is exported to OTel as a decimal string.
func Uint64(key string, value uint64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentity shortens an identity to a stable digest so traces can be
// correlated without carrying full account keys.
func HashIdentity(identity string) string {
	if identity == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:8])
}

// Span names used by the registry.
const (
	SpanInitialize    = "registry.initialize"
	SpanAdmin         = "registry.admin"
	SpanMetadata      = "registry.metadata"
	SpanOwnerOf       = "registry.owner_of"
	SpanMint          = "registry.mint_with_attrs"
	SpanGetAttrs      = "registry.get_attrs"
	SpanUpdateAttrs   = "registry.update_attrs"
	SpanTransfer      = "registry.transfer"
	SpanVerify        = "registry.verify"
	SpanNonce         = "registry.nonce"
	SpanOutboxPublish = "outbox.publish"
)

// Attribute keys used by the registry.
const (
	AttrTokenID  = "token.id"
	AttrCaller   = "caller.hash"
	AttrCacheHit = "cache.hit"
	AttrOutcome  = "outcome"
)
