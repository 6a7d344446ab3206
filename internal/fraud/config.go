package fraud

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fraud.yaml
var embeddedConfig []byte

// AmountRuleConfig tunes the amount-anomaly rule.
type AmountRuleConfig struct {
	// MinTransactionAmount is the floor below which a charge is never
	// flagged, preventing false detections on small amounts.
	MinTransactionAmount float64 `yaml:"min_transaction_amount"`
	// ThresholdMultiplier is how many times the merchant's historical EMA
	// a charge must exceed to be flagged.
	ThresholdMultiplier float64 `yaml:"threshold_multiplier"`
}

// Config is the top-level YAML structure for engine tuning.
type Config struct {
	AmountRule AmountRuleConfig `yaml:"amount_rule"`
}

// NewConfig parses and validates a YAML engine configuration.
func NewConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config YAML (check syntax, indentation, and field names): %w", err)
	}
	if cfg.AmountRule.MinTransactionAmount <= 0 {
		return nil, fmt.Errorf("min_transaction_amount must be positive, got %f", cfg.AmountRule.MinTransactionAmount)
	}
	if cfg.AmountRule.ThresholdMultiplier <= 0 {
		return nil, fmt.Errorf("threshold_multiplier must be positive, got %f", cfg.AmountRule.ThresholdMultiplier)
	}
	return &cfg, nil
}

// LoadEmbedded loads the embedded default configuration.
func LoadEmbedded() (*Config, error) {
	cfg, err := NewConfig(embeddedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded engine config (possible binary corruption): %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads an engine configuration from a filesystem path.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config file: %w", err)
	}
	cfg, err := NewConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine config from %q: %w", path, err)
	}
	return cfg, nil
}
