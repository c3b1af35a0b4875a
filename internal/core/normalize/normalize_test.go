package normalize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aevon-lab/project-tally/internal/core/payload"
	"github.com/stretchr/testify/require"
)

var receivedAt = time.Date(2026, 2, 8, 12, 30, 45, 123_000_000, time.UTC)

func mustNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(DefaultRules())
	require.NoError(t, err)
	return n
}

func normalizeJSON(t *testing.T, n *Normalizer, raw string) (Canonical, error) {
	t.Helper()
	doc, err := payload.Parse([]byte(raw))
	require.NoError(t, err)
	return n.Normalize(doc, receivedAt)
}

func TestNormalize_ReferencePayload(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{
		"source": "client_A",
		"payload": {
			"metric": "click_event",
			"value": 1200,
			"timestamp": "2024-01-01T10:00:00Z",
			"extra_field": "some data"
		}
	}`)
	require.NoError(t, err)
	require.Equal(t, Canonical{
		ClientID:  "client_A",
		Metric:    "click_event",
		Amount:    1200,
		Timestamp: "2024-01-01T10:00:00.000Z",
	}, c)
}

func TestNormalize_AmountIsFirstMatchingFieldInPayloadOrder(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{"data":{"value":5,"amount":10}}`)
	require.NoError(t, err)
	require.Equal(t, float64(5), c.Amount)

	c, err = normalizeJSON(t, n, `{"data":{"amount":10,"value":5}}`)
	require.NoError(t, err)
	require.Equal(t, float64(10), c.Amount)
}

func TestNormalize_Amount(t *testing.T) {
	tests := []struct {
		name string
		data string
		want float64
	}{
		{name: "number", data: `{"amount":12.5}`, want: 12.5},
		{name: "case insensitive key", data: `{"AMT":3}`, want: 3},
		{name: "numeric string", data: `{"price":"42.10"}`, want: 42.1},
		{name: "leading numeric prefix", data: `{"cost":"  19.99 USD"}`, want: 19.99},
		{name: "exponent", data: `{"value":"1e3"}`, want: 1000},
		{name: "negative", data: `{"value":-4}`, want: -4},
		{name: "not a number string", data: `{"amount":"abc"}`, want: 0},
		{name: "boolean", data: `{"amount":true}`, want: 0},
		{name: "null", data: `{"amount":null}`, want: 0},
		{name: "object", data: `{"amount":{"v":1}}`, want: 0},
		{name: "single element array", data: `{"amount":[5]}`, want: 5},
		{name: "array of numeric string", data: `{"amount":["7.5kg"]}`, want: 7.5},
		{name: "array reads first element", data: `{"amount":[1,2]}`, want: 1},
		{name: "empty array", data: `{"amount":[]}`, want: 0},
		{name: "infinity", data: `{"amount":"Infinity"}`, want: 0},
		{name: "first candidate wins even when not numeric", data: `{"cost":"n/a","amount":7}`, want: 0},
		{name: "no candidate", data: `{"count":9}`, want: 0},
	}

	n := mustNormalizer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := normalizeJSON(t, n, `{"payload":`+tc.data+`}`)
			require.NoError(t, err)
			require.Equal(t, tc.want, c.Amount)
		})
	}
}

func TestNormalize_DefaultsWithoutNumericOrTimestampFields(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{"note":"hello"}`)
	require.NoError(t, err)
	require.Equal(t, Canonical{
		ClientID:  "unknown",
		Metric:    "generic_event",
		Amount:    0,
		Timestamp: "2026-02-08T12:30:45.123Z",
	}, c)
}

func TestNormalize_ContainerPriority(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{"body":{"amount":3},"data":{"amount":2},"payload":{"amount":1}}`)
	require.NoError(t, err)
	require.Equal(t, float64(1), c.Amount)

	c, err = normalizeJSON(t, n, `{"body":{"amount":3},"data":{"amount":2}}`)
	require.NoError(t, err)
	require.Equal(t, float64(2), c.Amount)

	// null container is skipped
	c, err = normalizeJSON(t, n, `{"payload":null,"body":{"amount":3}}`)
	require.NoError(t, err)
	require.Equal(t, float64(3), c.Amount)
}

func TestNormalize_WholePayloadIsDataWithoutContainer(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{"client":"mobile","metric":"purchase","price":9.5,"ts":1704103200000}`)
	require.NoError(t, err)
	require.Equal(t, "mobile", c.ClientID)
	require.Equal(t, "purchase", c.Metric)
	require.Equal(t, 9.5, c.Amount)
	require.Equal(t, "2024-01-01T10:00:00.000Z", c.Timestamp)
}

func TestNormalize_ClientAndMetricFallbacks(t *testing.T) {
	n := mustNormalizer(t)

	c, err := normalizeJSON(t, n, `{"source":"","client":"backup","payload":{"metric":""}}`)
	require.NoError(t, err)
	require.Equal(t, "backup", c.ClientID)
	require.Equal(t, "generic_event", c.Metric)

	c, err = normalizeJSON(t, n, `{"source":42,"payload":{"metric":7}}`)
	require.NoError(t, err)
	require.Equal(t, "42", c.ClientID)
	require.Equal(t, "7", c.Metric)

	// client id is read from the top level, not from the data object
	c, err = normalizeJSON(t, n, `{"payload":{"source":"inner"}}`)
	require.NoError(t, err)
	require.Equal(t, "unknown", c.ClientID)
}

func TestNormalize_Timestamps(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "rfc3339 with offset", data: `{"timestamp":"2024-01-01T12:00:00+02:00"}`, want: "2024-01-01T10:00:00.000Z"},
		{name: "fractional seconds", data: `{"timestamp":"2024-01-01T10:00:00.98765Z"}`, want: "2024-01-01T10:00:00.987Z"},
		{name: "date only", data: `{"date":"2024-03-05"}`, want: "2024-03-05T00:00:00.000Z"},
		{name: "epoch millis", data: `{"ts":1704103200000}`, want: "2024-01-01T10:00:00.000Z"},
		{name: "rfc1123", data: `{"date":"Mon, 01 Jan 2024 10:00:00 GMT"}`, want: "2024-01-01T10:00:00.000Z"},
		{name: "priority timestamp over date", data: `{"date":"2020-01-01","timestamp":"2024-01-01T10:00:00Z"}`, want: "2024-01-01T10:00:00.000Z"},
		{name: "empty string falls through", data: `{"timestamp":"","date":"2024-03-05"}`, want: "2024-03-05T00:00:00.000Z"},
		{name: "zero falls back to receipt time", data: `{"ts":0}`, want: "2026-02-08T12:30:45.123Z"},
		{name: "true is one millisecond past epoch", data: `{"ts":true}`, want: "1970-01-01T00:00:00.001Z"},
		{name: "false falls back to receipt time", data: `{"ts":false}`, want: "2026-02-08T12:30:45.123Z"},
		{name: "array holding a date", data: `{"date":["2024-03-05"]}`, want: "2024-03-05T00:00:00.000Z"},
	}

	n := mustNormalizer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := normalizeJSON(t, n, `{"payload":`+tc.data+`}`)
			require.NoError(t, err)
			require.Equal(t, tc.want, c.Timestamp)
		})
	}
}

func TestNormalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unparsable timestamp", raw: `{"payload":{"timestamp":"not a date"}}`},
		{name: "object timestamp", raw: `{"payload":{"ts":{"at":1}}}`},
		{name: "array timestamp that is not a date", raw: `{"date":["soon"]}`},
	}

	n := mustNormalizer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeJSON(t, n, tc.raw)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			require.NotEmpty(t, vErr.Reason)
		})
	}
}

func TestNormalize_AnyShapeFallsBackToDefaults(t *testing.T) {
	defaults := Canonical{
		ClientID:  "unknown",
		Metric:    "generic_event",
		Amount:    0,
		Timestamp: "2026-02-08T12:30:45.123Z",
	}

	tests := []struct {
		name string
		raw  string
		want Canonical
	}{
		{name: "array payload", raw: `[1,2,3]`, want: defaults},
		{name: "number payload", raw: `42`, want: defaults},
		{name: "string payload", raw: `"just a string"`, want: defaults},
		{name: "boolean payload", raw: `true`, want: defaults},
		{name: "string container", raw: `{"data":"flat"}`, want: defaults},
		{name: "array container", raw: `{"payload":[{"amount":5}]}`, want: defaults},
		{
			name: "non-object container keeps top-level client",
			raw:  `{"source":"edge-7","body":12,"amount":9}`,
			want: Canonical{ClientID: "edge-7", Metric: "generic_event", Amount: 0, Timestamp: defaults.Timestamp},
		},
	}

	n := mustNormalizer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := normalizeJSON(t, n, tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, c)
		})
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	n := mustNormalizer(t)
	raw := `{"source":"a","data":{"Cost":"3.5","amount":9,"date":"2024-01-01"}}`

	first, err := normalizeJSON(t, n, raw)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := normalizeJSON(t, n, raw)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, 3.5, first.Amount)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
container_keys: ["envelope"]
amount_keys: ["qty"]
default_client: "anonymous"
`), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Equal(t, []string{"envelope"}, rules.ContainerKeys)
	require.Equal(t, []string{"qty"}, rules.AmountKeys)
	require.Equal(t, "anonymous", rules.DefaultClient)
	// untouched keys keep their defaults
	require.Equal(t, "generic_event", rules.DefaultMetric)
	require.Equal(t, []string{"timestamp", "date", "ts"}, rules.TimestampKeys)
	require.Len(t, rules.Checksum, 64)

	n, err := New(rules)
	require.NoError(t, err)
	c, err := normalizeJSON(t, n, `{"envelope":{"amount":1,"QTY":4}}`)
	require.NoError(t, err)
	require.Equal(t, float64(4), c.Amount)
	require.Equal(t, "anonymous", c.ClientID)
}

func TestLoadRules_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("amount_keys: [\n"), 0o644))
	_, err = LoadRules(bad)
	require.ErrorContains(t, err, "parsing normalization rules")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("amount_keys: []\n"), 0o644))
	_, err = LoadRules(empty)
	require.ErrorContains(t, err, "amount_keys must not be empty")

	rules, err := LoadRules("")
	require.NoError(t, err)
	require.Equal(t, DefaultRules(), rules)
}
