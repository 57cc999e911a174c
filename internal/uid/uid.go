// Package uid generates the opaque identifiers that tag template placeholders.
package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// Size is the number of random bytes behind each identifier.
const Size = 16

// New returns a 32-character lowercase hex identifier drawn from crypto/rand.
//
// A failing random source is an environment fault the process cannot recover
// from, so New panics instead of returning an error.
func New() string {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		panic("uid: random source unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
