package rhizome

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSecret produces a fresh bundle secret: 64 uppercase hex digits.
// The daemon derives the bundle ID from it, so callers who want to update a
// bundle later must keep it.
func GenerateSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("rhizome: generate secret: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf[:])), nil
}
