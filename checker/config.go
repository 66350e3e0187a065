package checker

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/dfaequiv/store"
)

// Config holds the checker's initialization parameters.
type Config struct {
	Store    store.Config `json:"store"`
	First    string       `json:"first,omitempty"`    // key of the first DFA description
	Second   string       `json:"second,omitempty"`   // key of the second DFA description
	Observer string       `json:"observer,omitempty"` // comma-separated observability registry names
}

// DefaultConfig compares dfa1.in against dfa2.in in the working directory.
func DefaultConfig() Config {
	return Config{
		Store:    store.DefaultConfig(),
		First:    "dfa1.in",
		Second:   "dfa2.in",
		Observer: "slog",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)

	if source.First != "" {
		c.First = source.First
	}
	if source.Second != "" {
		c.Second = source.Second
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file and merges it over the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
