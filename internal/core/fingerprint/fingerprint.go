// Package fingerprint turns a raw event payload into a stable byte form and a
// content hash. The hash is the idempotency key for the whole pipeline.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aevon-lab/project-tally/internal/core/payload"
)

// Mode selects how a payload is serialized before hashing.
type Mode string

const (
	// ModeVerbatim keeps the producer's key order and literal spelling and only
	// strips insignificant whitespace. The same payload sent with a different
	// key order hashes differently and is treated as a new event.
	ModeVerbatim Mode = "verbatim"

	// ModeSorted sorts object keys recursively before hashing, so key order no
	// longer matters. Deviates from verbatim fingerprints for the same bytes.
	ModeSorted Mode = "sorted"
)

// Size is the length of a fingerprint in hex characters.
const Size = sha256.Size * 2

// ErrEmptyPayload is returned for a missing or null payload.
var ErrEmptyPayload = errors.New("payload is empty")

// ValidMode reports whether m is a supported mode.
func ValidMode(m Mode) bool {
	return m == ModeVerbatim || m == ModeSorted
}

// Result is the canonical form of a payload plus its fingerprint.
type Result struct {
	Canonical   []byte
	Fingerprint string
}

// Canonicalizer is safe for concurrent use; it holds no mutable state.
type Canonicalizer struct {
	mode Mode
}

// New returns a canonicalizer. An empty mode means ModeVerbatim.
func New(mode Mode) (Canonicalizer, error) {
	if mode == "" {
		mode = ModeVerbatim
	}
	if !ValidMode(mode) {
		return Canonicalizer{}, fmt.Errorf("unsupported fingerprint mode %q", mode)
	}
	return Canonicalizer{mode: mode}, nil
}

// Mode returns the serialization mode in use.
func (c Canonicalizer) Mode() Mode {
	if c.mode == "" {
		return ModeVerbatim
	}
	return c.mode
}

// Compute canonicalizes raw and hashes the result.
func (c Canonicalizer) Compute(raw []byte) (Result, error) {
	canonical, err := c.Canonicalize(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Canonical: canonical, Fingerprint: Sum(canonical)}, nil
}

// Canonicalize returns the byte form that gets hashed and stored as raw_payload.
func (c Canonicalizer) Canonicalize(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyPayload
	}

	switch c.Mode() {
	case ModeSorted:
		doc, err := payload.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}
		out, err := json.Marshal(payload.Sort(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		return out, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, fmt.Errorf("failed to compact payload: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Sum returns the hex SHA-256 of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
