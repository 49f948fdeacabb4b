package prompt

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent computes the content fingerprint of a prompt body: a SHA-256
// hex digest. This is the sole change-detection signal between the file
// store and the metadata index.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
