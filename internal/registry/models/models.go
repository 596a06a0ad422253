package models

import (
	id "vaxcert/pkg/domain"
)

// VaccineAttrs is the full certificate payload. It is always replaced
// wholesale; dates are opaque unix seconds with no ordering checks.
type VaccineAttrs struct {
	Name      string `json:"name"`
	Batch     string `json:"batch"`
	ExpDate   uint64 `json:"exp_date"`
	TakenDate uint64 `json:"taken_date"`
}

// Registry is the singleton metadata written once by Initialize.
type Registry struct {
	Admin  id.Identity `json:"admin"`
	Name   string      `json:"name"`
	Symbol string      `json:"symbol"`
}

// RegistryMetadata adds the number of records issued so far.
type RegistryMetadata struct {
	Registry
	Issued uint64 `json:"issued"`
}

// InitResult distinguishes a fresh initialization from a redundant one.
type InitResult struct {
	AlreadyInitialized bool
}

// Verification reports what the registry knows about a token without
// failing when it is absent.
type Verification struct {
	TokenID id.TokenID
	Valid   bool
	Owner   id.Identity
	Attrs   *VaccineAttrs
}
