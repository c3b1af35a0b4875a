package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	"github.com/aevon-lab/project-tally/internal/core/fingerprint"
	"github.com/aevon-lab/project-tally/internal/core/idempotency"
	"github.com/aevon-lab/project-tally/internal/core/normalize"
	"github.com/aevon-lab/project-tally/internal/core/payload"
	"github.com/aevon-lab/project-tally/internal/core/storage"
	"github.com/aevon-lab/project-tally/internal/metrics"
	"github.com/gin-gonic/gin"
)

var (
	// ErrValidation means the payload could not be canonicalized or normalized.
	// Terminal: resubmitting the same payload fails the same way.
	ErrValidation = errors.New("normalization failed")

	// ErrSimulatedFailure is returned when the caller asked for a failure right
	// before persistence. Nothing is written, so a retry is safe.
	ErrSimulatedFailure = errors.New("simulated failure")

	// ErrLookup means the fast-path fingerprint lookup failed.
	ErrLookup = errors.New("fingerprint lookup failed")

	// ErrPersistence means the insert failed for a reason other than a duplicate.
	ErrPersistence = errors.New("database write failed")
)

// OutcomeKind is how a successful Ingest call ended.
type OutcomeKind int

const (
	// OutcomeCreated means a new record was committed.
	OutcomeCreated OutcomeKind = iota + 1
	// OutcomeDuplicate means the fast-path lookup found the fingerprint.
	OutcomeDuplicate
	// OutcomeRaceDuplicate means the insert lost to a concurrent writer.
	OutcomeRaceDuplicate
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeRaceDuplicate:
		return "race_duplicate"
	default:
		return "unknown"
	}
}

// Outcome is the result of a successful Ingest call.
type Outcome struct {
	Kind        OutcomeKind
	Fingerprint string
	// Record is set only for OutcomeCreated.
	Record *v1.Record
}

// IngestCommand is one submission, independent of transport.
type IngestCommand struct {
	Event           json.RawMessage
	SimulateFailure bool
	ReceivedAt      time.Time
}

type Service struct {
	canonicalizer    fingerprint.Canonicalizer
	normalizer       *normalize.Normalizer
	guard            *idempotency.Guard
	store            storage.EventStore
	maxBodySizeBytes int
	nowFn            func() time.Time
}

func NewService(
	canonicalizer fingerprint.Canonicalizer,
	normalizer *normalize.Normalizer,
	guard *idempotency.Guard,
	repo storage.EventStore,
	maxBodySizeMB int,
) *Service {
	if normalizer == nil {
		panic("ingestion: normalizer must not be nil")
	}
	if guard == nil {
		panic("ingestion: guard must not be nil")
	}
	if repo == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		canonicalizer:    canonicalizer,
		normalizer:       normalizer,
		guard:            guard,
		store:            repo,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/ingest", s.IngestHandler)
}

// Ingest runs one submission through the pipeline:
// fingerprint, fast-path dedup, normalize, failure hook, insert.
// Every error return leaves the store untouched.
func (s *Service) Ingest(ctx context.Context, cmd IngestCommand) (out Outcome, err error) {
	start := time.Now()
	defer func() {
		metrics.IngestRequests.WithLabelValues(outcomeLabel(out, err)).Inc()
		metrics.IngestDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	canon, err := s.canonicalizer.Compute(cmd.Event)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	fp := canon.Fingerprint

	seen, err := s.guard.Seen(ctx, fp)
	if err != nil {
		slog.Error("[Ingest] Fingerprint lookup failed", "fingerprint", fp, "error", err)
		return Outcome{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	if seen {
		slog.Info("[Idempotency] Duplicate event detected", "fingerprint", fp)
		return Outcome{Kind: OutcomeDuplicate, Fingerprint: fp}, nil
	}

	// Normalize from the submitted bytes: sorted canonical form loses field order.
	doc, err := payload.Parse(cmd.Event)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	receivedAt := cmd.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.nowFn()
	}

	c, err := s.normalizer.Normalize(doc, receivedAt)
	if err != nil {
		slog.Warn("[Ingest] Normalization failed", "fingerprint", fp, "error", err)
		return Outcome{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if cmd.SimulateFailure {
		slog.Warn("[Failure Sim] Aborting before persistence", "fingerprint", fp)
		return Outcome{}, ErrSimulatedFailure
	}

	rec := &v1.Record{
		EventFingerprint:   fp,
		ClientID:           c.ClientID,
		CanonicalMetric:    c.Metric,
		CanonicalAmount:    c.Amount,
		CanonicalTimestamp: c.Timestamp,
		RawPayload:         string(canon.Canonical),
		Status:             v1.StatusProcessed,
	}

	if err := s.store.InsertEvent(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("[Idempotency] Duplicate resolved at insert", "fingerprint", fp)
			s.guard.Remember(ctx, fp)
			return Outcome{Kind: OutcomeRaceDuplicate, Fingerprint: fp}, nil
		}
		slog.Error("[Ingest] Failed to persist event", "fingerprint", fp, "error", err)
		return Outcome{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.guard.Remember(ctx, fp)

	slog.Info("[Ingest] Event persisted",
		"id", rec.ID,
		"client_id", rec.ClientID,
		"metric", rec.CanonicalMetric,
		"amount", rec.CanonicalAmount,
		"fingerprint", fp)

	return Outcome{Kind: OutcomeCreated, Fingerprint: fp, Record: rec}, nil
}

func outcomeLabel(out Outcome, err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrSimulatedFailure):
		return metrics.OutcomeSimulatedFailure
	case err != nil:
		return metrics.OutcomeStoreError
	case out.Kind == OutcomeDuplicate:
		return metrics.OutcomeDeduplicated
	case out.Kind == OutcomeRaceDuplicate:
		return metrics.OutcomeRaceDeduplicated
	default:
		return metrics.OutcomeCreated
	}
}
