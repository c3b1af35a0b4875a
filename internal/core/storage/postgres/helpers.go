package postgres

import (
	"errors"
	"fmt"
	"strings"

	v1 "github.com/aevon-lab/project-tally/internal/api/v1"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE for a unique constraint conflict.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// textValue makes s storable in a TEXT column: postgres rejects NUL bytes
// and invalid UTF-8, and a payload failing here would fail on every retry.
func textValue(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans one row of queryRecentEvents.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (*v1.Record, error) {
	var rec v1.Record
	var status string

	err := row.Scan(
		&rec.ID,
		&rec.EventFingerprint,
		&rec.ClientID,
		&rec.CanonicalMetric,
		&rec.CanonicalAmount,
		&rec.CanonicalTimestamp,
		&rec.RawPayload,
		&status,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	rec.Status = v1.Status(status)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
