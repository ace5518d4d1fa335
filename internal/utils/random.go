package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString draws n bytes from crypto/rand and encodes them as an
// unpadded URL-safe token. Used for OAuth state, PKCE verifiers and
// password reset tokens.
func RandomString(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand fails only when the platform source is broken.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
