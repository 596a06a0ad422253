package handler

import (
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

type InitializeResponse struct {
	Initialized        bool `json:"initialized"`
	AlreadyInitialized bool `json:"already_initialized,omitempty"`
}

type AdminResponse struct {
	Admin string `json:"admin"`
}

type MetadataResponse struct {
	Admin  string `json:"admin"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Issued uint64 `json:"issued"`
}

type NonceResponse struct {
	Identity string `json:"identity"`
	Nonce    uint64 `json:"nonce"`
}

type MintResponse struct {
	TokenID id.TokenID `json:"token_id"`
}

// OwnerResponse encodes absence as "owner": null.
type OwnerResponse struct {
	Owner *string `json:"owner"`
}

type VerifyResponse struct {
	TokenID id.TokenID           `json:"token_id"`
	IsValid bool                 `json:"is_valid"`
	Owner   string               `json:"owner,omitempty"`
	Attrs   *models.VaccineAttrs `json:"attrs,omitempty"`
}

func toMetadataResponse(m *models.RegistryMetadata) MetadataResponse {
	return MetadataResponse{
		Admin:  m.Admin.String(),
		Name:   m.Name,
		Symbol: m.Symbol,
		Issued: m.Issued,
	}
}

func toVerifyResponse(v *models.Verification) VerifyResponse {
	return VerifyResponse{
		TokenID: v.TokenID,
		IsValid: v.Valid,
		Owner:   v.Owner.String(),
		Attrs:   v.Attrs,
	}
}
