// Package normalize maps arbitrarily shaped producer payloads onto canonical
// fields. Extraction is heuristic and schema-agnostic: the same payload always
// yields the same result, but the result is not guaranteed to be "correct".
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/project-tally/internal/core/payload"
)

// Canonical is the normalized, schema-independent view of one event.
type Canonical struct {
	ClientID  string
	Metric    string
	Amount    float64
	Timestamp string
}

// ValidationError reports a payload the heuristics could not process.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "normalization failed: " + e.Reason
}

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Normalizer applies a fixed set of Rules. Safe for concurrent use.
type Normalizer struct {
	rules      Rules
	amountKeys map[string]struct{}
}

// New builds a normalizer from rules.
func New(rules Rules) (*Normalizer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(rules.AmountKeys))
	for _, k := range rules.AmountKeys {
		keys[strings.ToLower(k)] = struct{}{}
	}

	return &Normalizer{rules: rules, amountKeys: keys}, nil
}

// Rules returns the rules in use.
func (n *Normalizer) Rules() Rules {
	return n.rules
}

// Normalize extracts canonical fields from doc, a value produced by payload.Parse.
// receivedAt is used when the payload carries no timestamp.
// Any failure, including a panic inside extraction, is returned as *ValidationError.
func (n *Normalizer) Normalize(doc any, receivedAt time.Time) (c Canonical, err error) {
	defer func() {
		if r := recover(); r != nil {
			c = Canonical{}
			err = invalidf("unexpected payload structure: %v", r)
		}
	}()

	// A non-object payload has no fields to read; every canonical field
	// takes its default.
	root, ok := doc.(*payload.Object)
	if !ok {
		root = payload.NewObject()
	}
	data := n.dataObject(root)

	ts, err := n.timestamp(data, receivedAt)
	if err != nil {
		return Canonical{}, err
	}

	return Canonical{
		ClientID:  n.firstString(root, n.rules.ClientKeys, n.rules.DefaultClient),
		Metric:    n.firstString(data, []string{n.rules.MetricKey}, n.rules.DefaultMetric),
		Amount:    n.amount(data),
		Timestamp: ts,
	}, nil
}

// dataObject picks the first container key holding a value; without one the
// whole payload is the data object. A container that is not an object still
// wins, but contributes no fields.
func (n *Normalizer) dataObject(root *payload.Object) *payload.Object {
	for _, key := range n.rules.ContainerKeys {
		v, present := root.Get(key)
		if !present || !truthy(v) {
			continue
		}
		if obj, ok := v.(*payload.Object); ok {
			return obj
		}
		return payload.NewObject()
	}
	return root
}

// amount walks the data fields in payload order. Only the first candidate
// field counts, even when its value is not numeric.
func (n *Normalizer) amount(data *payload.Object) float64 {
	for _, f := range data.Fields() {
		if _, ok := n.amountKeys[strings.ToLower(f.Key)]; !ok {
			continue
		}
		v, ok := parseAmount(f.Value)
		if !ok {
			return 0
		}
		return v
	}
	return 0
}

func (n *Normalizer) timestamp(data *payload.Object, receivedAt time.Time) (string, error) {
	for _, key := range n.rules.TimestampKeys {
		v, present := data.Get(key)
		if !present || !truthy(v) {
			continue
		}
		t, err := parseTimestamp(v)
		if err != nil {
			return "", invalidf("field %q: %v", key, err)
		}
		return FormatTimestamp(t), nil
	}
	return FormatTimestamp(receivedAt), nil
}

func (n *Normalizer) firstString(obj *payload.Object, keys []string, fallback string) string {
	for _, key := range keys {
		v, present := obj.Get(key)
		if !present || !truthy(v) {
			continue
		}
		return stringify(v)
	}
	return fallback
}

// truthy treats null, false, 0 and "" as absent, the way loosely typed
// producers do when they omit a field.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		// a range error means +/-Inf, which is truthy
		return err != nil || f != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	}
}

// joinArray renders an array the way string coercion does in loosely typed
// producers: elements joined by commas, null as empty, nested objects opaque.
func joinArray(arr []any) string {
	parts := make([]string, len(arr))
	for i, v := range arr {
		switch val := v.(type) {
		case nil:
			parts[i] = ""
		case []any:
			parts[i] = joinArray(val)
		case *payload.Object:
			parts[i] = "[object Object]"
		default:
			parts[i] = stringify(val)
		}
	}
	return strings.Join(parts, ",")
}
