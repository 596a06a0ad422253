package models

import (
	"encoding/json"
	"strconv"

	id "vaxcert/pkg/domain"
)

// Operation names the gated registry calls.
type Operation string

const (
	OpMintWithAttrs Operation = "mint_with_attrs"
	OpUpdateAttrs   Operation = "update_attrs"
	OpTransfer      Operation = "transfer"
)

// callDomain separates registry signatures from any other use of the same key.
const callDomain = "vaxcert/v1"

// Call describes the invocation an authorization proof must cover. Nonce is
// the signer's next unused nonce; a proof is spent once the call commits.
type Call struct {
	Operation Operation
	Nonce     uint64
	Args      []string
}

// WithNonce returns a copy of c bound to nonce.
func (c Call) WithNonce(nonce uint64) Call {
	c.Nonce = nonce
	return c
}

type canonicalCall struct {
	Domain    string    `json:"domain"`
	Operation Operation `json:"op"`
	Nonce     uint64    `json:"nonce"`
	Args      []string  `json:"args"`
}

// Message returns the canonical bytes an authenticator verifies.
func (c Call) Message() []byte {
	args := c.Args
	if args == nil {
		args = []string{}
	}
	// Marshal of a fixed struct of strings cannot fail.
	b, _ := json.Marshal(canonicalCall{Domain: callDomain, Operation: c.Operation, Nonce: c.Nonce, Args: args})
	return b
}

func attrArgs(a VaccineAttrs) []string {
	return []string{
		a.Name,
		a.Batch,
		strconv.FormatUint(a.ExpDate, 10),
		strconv.FormatUint(a.TakenDate, 10),
	}
}

func MintCall(to id.Identity, attrs VaccineAttrs) Call {
	return Call{Operation: OpMintWithAttrs, Args: append([]string{to.String()}, attrArgs(attrs)...)}
}

func UpdateAttrsCall(caller id.Identity, tokenID id.TokenID, attrs VaccineAttrs) Call {
	return Call{Operation: OpUpdateAttrs, Args: append([]string{caller.String(), tokenID.String()}, attrArgs(attrs)...)}
}

func TransferCall(from, to id.Identity, tokenID id.TokenID) Call {
	return Call{Operation: OpTransfer, Args: []string{from.String(), to.String(), tokenID.String()}}
}
