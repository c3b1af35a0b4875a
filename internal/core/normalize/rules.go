package normalize

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the field names the heuristics look for.
// Rules are loaded once at startup; there is no hot reload.
type Rules struct {
	// ContainerKeys name the sub-object holding the event data, in priority order.
	ContainerKeys []string `yaml:"container_keys"`

	// AmountKeys is a set: the first data field (in payload order) whose
	// lowercased name is listed here supplies the amount.
	AmountKeys []string `yaml:"amount_keys"`

	// TimestampKeys are checked in priority order.
	TimestampKeys []string `yaml:"timestamp_keys"`

	MetricKey     string   `yaml:"metric_key"`
	ClientKeys    []string `yaml:"client_keys"`
	DefaultMetric string   `yaml:"default_metric"`
	DefaultClient string   `yaml:"default_client"`

	// Checksum is the SHA-256 of the rules file; empty for built-in defaults.
	Checksum string `yaml:"-"`
}

// DefaultRules returns the built-in heuristics.
func DefaultRules() Rules {
	return Rules{
		ContainerKeys: []string{"payload", "data", "body"},
		AmountKeys:    []string{"amount", "cost", "value", "price", "amt"},
		TimestampKeys: []string{"timestamp", "date", "ts"},
		MetricKey:     "metric",
		ClientKeys:    []string{"source", "client"},
		DefaultMetric: "generic_event",
		DefaultClient: "unknown",
	}
}

// Validate checks that every rule has something to match on.
func (r Rules) Validate() error {
	if len(r.AmountKeys) == 0 {
		return fmt.Errorf("amount_keys must not be empty")
	}
	if len(r.TimestampKeys) == 0 {
		return fmt.Errorf("timestamp_keys must not be empty")
	}
	if len(r.ClientKeys) == 0 {
		return fmt.Errorf("client_keys must not be empty")
	}
	if strings.TrimSpace(r.MetricKey) == "" {
		return fmt.Errorf("metric_key must not be empty")
	}
	if strings.TrimSpace(r.DefaultMetric) == "" {
		return fmt.Errorf("default_metric must not be empty")
	}
	if strings.TrimSpace(r.DefaultClient) == "" {
		return fmt.Errorf("default_client must not be empty")
	}
	for _, k := range r.AmountKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("amount_keys must not contain empty names")
		}
	}
	return nil
}

// LoadRules reads a YAML rules file. Keys missing from the file keep their
// default values. An empty path returns DefaultRules.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading normalization rules %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing normalization rules %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("normalization rules %s: %w", path, err)
	}

	rules.Checksum = fmt.Sprintf("%x", sha256.Sum256(data))
	return rules, nil
}
