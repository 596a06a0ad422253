// Package authntest provides an in-memory authenticator for tests.
package authntest

import (
	"context"
	"sync"

	"vaxcert/internal/authn"
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

// Verification records one Verify call.
type Verification struct {
	Identity id.Identity
	Call     models.Call
}

// Fake accepts proofs from allowed identities only.
type Fake struct {
	mu      sync.Mutex
	allowed map[id.Identity]bool
	calls   []Verification
}

func NewFake(allowed ...id.Identity) *Fake {
	f := &Fake{allowed: make(map[id.Identity]bool)}
	f.Allow(allowed...)
	return f
}

func (f *Fake) Allow(ids ...id.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range ids {
		f.allowed[i] = true
	}
}

func (f *Fake) Deny(ids ...id.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range ids {
		delete(f.allowed, i)
	}
}

func (f *Fake) Verify(_ context.Context, identity id.Identity, call models.Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Verification{Identity: identity, Call: call})
	if !f.allowed[identity] {
		return authn.ErrInvalidProof
	}
	return nil
}

// Calls returns every verification attempted so far.
func (f *Fake) Calls() []Verification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Verification, len(f.calls))
	copy(out, f.calls)
	return out
}
