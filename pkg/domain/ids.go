// Package domain provides the registry's identifier types so principals and
// record numbers cannot be mixed up at compile time.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	dErrors "vaxcert/pkg/domain-errors"
)

// MaxIdentityLength bounds identities accepted at trust boundaries.
const MaxIdentityLength = 128

// Identity is an opaque principal reference. The registry only compares
// identities for equality; proving control of one is the Authenticator's job.
type Identity string

// TokenID numbers a certificate record. Zero is never assigned.
type TokenID uint64

// Parse functions - use at trust boundaries (handlers, CLI flags).

func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "identity cannot be empty")
	}
	if len(s) > MaxIdentityLength {
		return "", dErrors.New(dErrors.CodeValidation, "identity too long")
	}
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return "", dErrors.New(dErrors.CodeValidation, "identity contains whitespace or control characters")
	}
	return Identity(s), nil
}

func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid token id %q", s))
	}
	return TokenID(n), nil
}

func (i Identity) String() string { return string(i) }

func (id TokenID) String() string { return strconv.FormatUint(uint64(id), 10) }

// PaddedString is the fixed-width decimal encoding used by text keyspaces,
// so lexical order matches numeric order.
func (id TokenID) PaddedString() string {
	return fmt.Sprintf("%020d", uint64(id))
}
