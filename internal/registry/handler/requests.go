package handler

import (
	"vaxcert/internal/registry/models"
	"vaxcert/pkg/validation"
)

// InitializeRequest sets up the registry singleton.
type InitializeRequest struct {
	Admin  string `json:"admin" validate:"identity"`
	Name   string `json:"name" validate:"notblank,max=128"`
	Symbol string `json:"symbol" validate:"notblank,max=16"`
}

func (r *InitializeRequest) Normalize() {
	validation.TrimSpace(&r.Admin, &r.Name, &r.Symbol)
}

func (r *InitializeRequest) Validate() error {
	return validation.Validate(r)
}

// MintRequest issues a certificate to To. Dates are unix seconds.
type MintRequest struct {
	To        string `json:"to" validate:"identity"`
	Name      string `json:"name" validate:"max=128"`
	Batch     string `json:"batch" validate:"max=64"`
	ExpDate   uint64 `json:"exp_date"`
	TakenDate uint64 `json:"taken_date"`
}

func (r *MintRequest) Normalize() {
	validation.TrimSpace(&r.To)
}

func (r *MintRequest) Validate() error {
	return validation.Validate(r)
}

func (r *MintRequest) attrs() models.VaccineAttrs {
	return models.VaccineAttrs{Name: r.Name, Batch: r.Batch, ExpDate: r.ExpDate, TakenDate: r.TakenDate}
}

// UpdateAttrsRequest replaces the whole payload; omitted fields become zero.
type UpdateAttrsRequest struct {
	Caller    string `json:"caller" validate:"identity"`
	Name      string `json:"name" validate:"max=128"`
	Batch     string `json:"batch" validate:"max=64"`
	ExpDate   uint64 `json:"exp_date"`
	TakenDate uint64 `json:"taken_date"`
}

func (r *UpdateAttrsRequest) Normalize() {
	validation.TrimSpace(&r.Caller)
}

func (r *UpdateAttrsRequest) Validate() error {
	return validation.Validate(r)
}

func (r *UpdateAttrsRequest) attrs() models.VaccineAttrs {
	return models.VaccineAttrs{Name: r.Name, Batch: r.Batch, ExpDate: r.ExpDate, TakenDate: r.TakenDate}
}

// TransferRequest moves a certificate. Self-transfers are accepted.
type TransferRequest struct {
	From string `json:"from" validate:"identity"`
	To   string `json:"to" validate:"identity"`
}

func (r *TransferRequest) Normalize() {
	validation.TrimSpace(&r.From, &r.To)
}

func (r *TransferRequest) Validate() error {
	return validation.Validate(r)
}
