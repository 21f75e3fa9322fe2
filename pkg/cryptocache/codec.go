// Package cryptocache obfuscates the per-user draft cache at rest.
//
// The scheme is a repeating-key XOR keyed by the owning user id plus a fixed
// suffix, wrapped in base64. It is reversible obfuscation, not cryptographic
// confidentiality; a deployment that needs real secrecy should swap in
// authenticated encryption behind the same Encode/Decode contract.
package cryptocache

import (
	"encoding/base64"
	"errors"
)

// KeySuffix is appended to the user id to derive the XOR key.
const KeySuffix = "nexus_enterprise_2025"

// ErrMalformed is returned when the encoded text cannot be decoded.
// Callers treat it as "no cache", never as fatal.
var ErrMalformed = errors.New("cryptocache: malformed payload")

func keyFor(userID string) []byte { return []byte(userID + KeySuffix) }

func xor(data, key []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// Encode obfuscates data under the given user's key and returns printable text.
func Encode(data []byte, userID string) string {
	return base64.StdEncoding.EncodeToString(xor(data, keyFor(userID)))
}

// Decode reverses Encode. Any malformed input yields ErrMalformed with a nil
// payload; Decode never panics on garbage.
func Decode(encoded, userID string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	return xor(raw, keyFor(userID)), nil
}
