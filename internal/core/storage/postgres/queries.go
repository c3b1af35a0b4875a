package postgres

const (
	// queryInsertEvent relies on the unique index on event_fingerprint.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates.
	queryInsertEvent = `
		INSERT INTO events (
			event_fingerprint, client_id, canonical_metric, canonical_amount,
			canonical_timestamp, raw_payload, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_fingerprint) DO NOTHING
		RETURNING id, created_at
	`

	queryHasFingerprint = `
		SELECT EXISTS (
			SELECT 1 FROM events WHERE event_fingerprint = $1
		)
	`

	// queryAggregateByClient sums as numeric so totals scan exactly into decimal.Decimal.
	queryAggregateByClient = `
		SELECT
			client_id,
			COUNT(*) AS count,
			COALESCE(SUM(canonical_amount::numeric), 0) AS total_amount
		FROM events
		WHERE status = 'processed'
		GROUP BY client_id
		ORDER BY client_id ASC
	`

	queryRecentEvents = `
		SELECT
			id, event_fingerprint, client_id, canonical_metric, canonical_amount,
			canonical_timestamp, raw_payload, status, created_at
		FROM events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	queryEventsTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'events'
		)
	`
)
