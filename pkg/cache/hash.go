package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "stage:hash" key from the JSON encoding of parts. The
// layout stage hashes the full wafer spec; the artifact stage hashes the
// layout hash plus the export options.
func hashKey(stage string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full 64-hex-char SHA-256; keys are never truncated.
	return fmt.Sprintf("%s:%s", stage, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. Pipeline
// results use it to derive the layout hash that artifact keys chain from.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
