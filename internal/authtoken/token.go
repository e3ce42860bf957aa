package authtoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes gives 256 bits of entropy per token, matching the width the
// upstream services expect for bearer credentials.
const tokenBytes = 32

// Generate produces an opaque, unpredictable token string.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random source: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
