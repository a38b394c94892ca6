// Package `uuid` is a subset of `google/uuid`.  See GoDoc
// <https://godoc.org/github.com/google/uuid>.
package uuid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// `I` is a `google/uuid.UUID`.
type I = uuid.UUID

var (
	Nil = uuid.Nil

	Must      = uuid.Must
	NewRandom = uuid.NewRandom
	Parse     = uuid.Parse
)

// `Hex()` formats `id` as 32 lowercase hex digits without dashes, which is
// safe to use in file names on remote hosts.
func Hex(id I) string {
	return hex.EncodeToString(id[:])
}

// `NewHex()` returns a random UUID in `Hex()` format.
func NewHex() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return Hex(id), nil
}
