package capture

import (
	"crypto/sha256"
	"encoding/hex"
)

// maxCapturedBodyBytes bounds the request body kept per capture so a
// single oversized upload cannot dominate the buffer's memory.
const maxCapturedBodyBytes = 256 * 1024

func truncateBytes(in []byte, maxBytes int) ([]byte, bool, int, string) {
	if maxBytes <= 0 || len(in) <= maxBytes {
		return in, false, len(in), ""
	}
	sum := sha256.Sum256(in)
	return in[:maxBytes], true, len(in), hex.EncodeToString(sum[:])
}

func truncateStringBytes(in string, maxBytes int) (string, bool, int, string) {
	out, truncated, origLen, hash := truncateBytes([]byte(in), maxBytes)
	return string(out), truncated, origLen, hash
}
