// Package id mints the opaque identifiers used for token ids and checks
// identifiers received from clients.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Size is the length of an identifier made by New.
const Size = 32

// New returns Size lowercase hex characters read from crypto/rand.
func New() string {
	var b [Size / 2]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Valid reports whether s has the shape New produces.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
