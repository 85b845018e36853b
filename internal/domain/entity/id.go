package entity

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID generates an opaque identifier for products and orders:
// the creation instant in unix milliseconds plus a short random suffix.
// Uniqueness only needs to hold per single-writer device session.
func NewID() string {
	var suffix [4]byte
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(suffix[:])

	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(suffix[:])
}
