package models

import (
	"time"

	id "vaxcert/pkg/domain"
)

// Event types appended to the outbox by mutating calls.
const (
	EventRegistryInitialized = "registry.initialized"
	EventMinted              = "certificate.minted"
	EventAttrsUpdated        = "certificate.attrs_updated"
	EventTransferred         = "certificate.transferred"
)

// Aggregate types used as outbox partition hints.
const (
	AggregateRegistry    = "registry"
	AggregateCertificate = "certificate"
)

// Event is the JSON payload published for every registry mutation.
type Event struct {
	Type      string        `json:"type"`
	TokenID   id.TokenID    `json:"token_id,omitempty"`
	Admin     id.Identity   `json:"admin,omitempty"`
	From      id.Identity   `json:"from,omitempty"`
	To        id.Identity   `json:"to,omitempty"`
	Attrs     *VaccineAttrs `json:"attrs,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
