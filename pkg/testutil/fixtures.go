package testutil

import (
	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

// TestIdentities provides fixed identities for tests.
var TestIdentities = struct {
	Admin id.Identity
	Alice id.Identity
	Bob   id.Identity
	Carol id.Identity
}{
	Admin: id.Identity("GADMINXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
	Alice: id.Identity("GALICEXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
	Bob:   id.Identity("GBOBXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
	Carol: id.Identity("GCAROLXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
}

// AttrsBuilder provides a fluent interface for building vaccine attributes.
type AttrsBuilder struct {
	attrs models.VaccineAttrs
}

// NewAttrsBuilder starts from a plausible Pfizer record.
func NewAttrsBuilder() *AttrsBuilder {
	return &AttrsBuilder{
		attrs: models.VaccineAttrs{
			Name:      "Pfizer",
			Batch:     "B-01",
			ExpDate:   1_893_456_000,
			TakenDate: 1_700_000_000,
		},
	}
}

func (b *AttrsBuilder) WithName(name string) *AttrsBuilder {
	b.attrs.Name = name
	return b
}

func (b *AttrsBuilder) WithBatch(batch string) *AttrsBuilder {
	b.attrs.Batch = batch
	return b
}

func (b *AttrsBuilder) WithExpDate(exp uint64) *AttrsBuilder {
	b.attrs.ExpDate = exp
	return b
}

func (b *AttrsBuilder) WithTakenDate(taken uint64) *AttrsBuilder {
	b.attrs.TakenDate = taken
	return b
}

func (b *AttrsBuilder) Build() models.VaccineAttrs {
	return b.attrs
}
