package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of a stored record.
type Status string

// StatusProcessed is the only status ever written: records are stored after
// normalization succeeds and are never mutated afterwards.
const StatusProcessed Status = "processed"

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	// Event is the producer's payload, kept as raw JSON so its fingerprint is
	// computed over the bytes the producer sent, not over a re-encoding.
	Event json.RawMessage `json:"event"`

	// SimulateFailure asks the pipeline to abort right before persistence.
	SimulateFailure bool `json:"simulateFailure"`
}

// Validate ensures the request has an event field. A null event is left to
// the pipeline, which rejects it as an invalid payload.
func (r *IngestRequest) Validate() error {
	if len(bytes.TrimSpace(r.Event)) == 0 {
		return fmt.Errorf("event is required")
	}
	return nil
}

// Record is one accepted, normalized event. One row per unique fingerprint.
type Record struct {
	// ID is the surrogate key assigned by the store at commit time.
	ID int64 `json:"id"`

	// EventFingerprint is the SHA-256 (hex) of the canonicalized raw payload.
	// Unique over the table's lifetime; the sole deduplication key.
	EventFingerprint string `json:"event_fingerprint"`

	ClientID           string  `json:"client_id"`
	CanonicalMetric    string  `json:"canonical_metric"`
	CanonicalAmount    float64 `json:"canonical_amount"`
	CanonicalTimestamp string  `json:"canonical_timestamp"`

	// RawPayload is the canonicalized payload, retained verbatim for audit.
	RawPayload string `json:"raw_payload"`

	Status Status `json:"status"`

	// CreatedAt is the commit time, assigned by the store.
	CreatedAt time.Time `json:"created_at"`
}

// ClientAggregate is one row of GET /analytics.
type ClientAggregate struct {
	ClientID    string  `json:"client_id"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// CreatedResponse is returned with 201 when a new record was persisted.
type CreatedResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// DeduplicatedResponse is returned with 200 when the fingerprint was already committed.
type DeduplicatedResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Deduplicated bool   `json:"deduplicated"`
}
