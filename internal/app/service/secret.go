package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// secretByteLen sizes the raw entropy behind each secret. 32 bytes keeps
// online guessing infeasible for the lifetime of a code.
const secretByteLen = 32

// NewSecret draws a fresh secret token from crypto/rand, encoded URL-safe so
// it can ride in a query parameter unescaped.
func NewSecret() (string, error) {
	buf := make([]byte, secretByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
