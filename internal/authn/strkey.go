package authn

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/stellar/go/strkey"
)

var errStrKeyLength = errors.New("strkey: invalid payload length")

// EncodeAccountID renders pub as a G… account id.
func EncodeAccountID(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key is %d bytes", errStrKeyLength, len(pub))
	}
	return strkey.Encode(strkey.VersionByteAccountID, pub)
}

// DecodeAccountID parses a G… account id into an ed25519 public key.
func DecodeAccountID(s string) (ed25519.PublicKey, error) {
	payload, err := decodeKey(strkey.VersionByteAccountID, s)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(payload), nil
}

// EncodeSeed renders the 32-byte seed of priv as an S… secret.
func EncodeSeed(priv ed25519.PrivateKey) string {
	return strkey.MustEncode(strkey.VersionByteSeed, priv.Seed())
}

// DecodeSeed parses an S… secret into the full private key.
func DecodeSeed(s string) (ed25519.PrivateKey, error) {
	payload, err := decodeKey(strkey.VersionByteSeed, s)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(payload), nil
}

// decodeKey checks version and checksum, then insists on a 32-byte payload.
func decodeKey(version strkey.VersionByte, s string) ([]byte, error) {
	payload, err := strkey.Decode(version, s)
	if err != nil {
		return nil, fmt.Errorf("strkey: %w", err)
	}
	if len(payload) != ed25519.PublicKeySize {
		return nil, errStrKeyLength
	}
	return payload, nil
}
