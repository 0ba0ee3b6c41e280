package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestHex returns the hex-encoded SHA-256 digest of the concatenated parts.
// Used to derive stable cache keys from model dumps and settings.
func DigestHex(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
