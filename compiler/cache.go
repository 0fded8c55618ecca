package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Cache stores compilation results between runs.
// Users may implement this interface with their preferred storage
// (e.g., in-memory, on disk).
type Cache interface {
	// Get retrieves a result. The second value reports whether the key
	// was present.
	Get(key string) (*Result, bool)

	// Put stores a result under key.
	Put(key string, r *Result)
}

// CacheKey identifies the inputs of one document compilation.
type CacheKey struct {
	Path     string
	Module   string
	Root     string
	Contents string
	// Config is the fingerprint of the generator and parser settings.
	Config string
}

// String returns the hex encoded SHA-256 of the key fields.
func (k CacheKey) String() string {
	h := sha256.New()
	for _, s := range []string{k.Path, k.Module, k.Root, k.Contents, k.Config} {
		io.WriteString(h, s)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
