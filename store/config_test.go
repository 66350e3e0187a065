package store_test

import (
	"testing"

	"github.com/tailored-agentic-units/dfaequiv/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := store.DefaultConfig()
	if cfg.Path != "." {
		t.Errorf("got Path %q, want %q", cfg.Path, ".")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Merge(&store.Config{Path: "/data/dfa"})

	if cfg.Path != "/data/dfa" {
		t.Errorf("got Path %q, want %q", cfg.Path, "/data/dfa")
	}
}

func TestConfig_Merge_EmptyPreserves(t *testing.T) {
	cfg := store.Config{Path: "/original"}
	cfg.Merge(&store.Config{})

	if cfg.Path != "/original" {
		t.Errorf("got Path %q, want %q", cfg.Path, "/original")
	}
}

func TestNewStore(t *testing.T) {
	s, err := store.NewStore(&store.Config{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
}
