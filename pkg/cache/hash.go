package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key returns kind:hash(parts). Parts are JSON-encoded before hashing, so
// URLs and free text of any length give a short key without stray colons.
func Key(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		return kind
	}
	return kind + ":" + Hash(data)
}

// Hash returns the first 16 bytes of the SHA-256 of data as 32 hex digits.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
