package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/store"
)

func writeTestFile(t *testing.T, root, key, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const containsOne = "2 1\n0 0 1\n1 1 1\n1\n"

func TestFileStore_Load(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "dfa1.in", containsOne)

	s := store.NewFileStore(root)
	d, err := s.Load(context.Background(), "dfa1.in")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.StateCount() != 2 {
		t.Errorf("StateCount() = %d, want 2", d.StateCount())
	}
	if !d.Accepts("01") {
		t.Error("Accepts(01) = false, want true")
	}
}

func TestFileStore_Load_NotFound(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	_, err := s.Load(context.Background(), "dfa2.in")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestFileStore_Load_Malformed(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "bad.in", "2 0\n0 0 1\n0 1 1\n\n")

	s := store.NewFileStore(root)
	_, err := s.Load(context.Background(), "bad.in")
	if !errors.Is(err, automaton.ErrMalformed) {
		t.Fatalf("Load() error = %v, want %v", err, automaton.ErrMalformed)
	}
	if errors.Is(err, store.ErrNotFound) {
		t.Error("parse failure reported as not found")
	}
}

func TestFileStore_Load_Directory(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "dfa1.in"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := store.NewFileStore(root)
	_, err := s.Load(context.Background(), "dfa1.in")
	if !errors.Is(err, store.ErrLoadFailed) {
		t.Fatalf("Load() error = %v, want %v", err, store.ErrLoadFailed)
	}
	if errors.Is(err, automaton.ErrSyntax) || errors.Is(err, automaton.ErrMalformed) {
		t.Error("unreadable source reported as a format error")
	}
}

func TestFileStore_List(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "b.in", containsOne)
	writeTestFile(t, root, "a.in", containsOne)
	writeTestFile(t, root, "nested/c.in", containsOne)
	writeTestFile(t, root, ".hidden/d.in", containsOne)

	s := store.NewFileStore(root)
	keys, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"a.in", "b.in", "nested/c.in"}
	if len(keys) != len(want) {
		t.Fatalf("List() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestFileStore_List_MissingRoot(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "missing"))

	keys, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() = %v, want empty", keys)
	}
}

func TestFileStore_Save_Canonical(t *testing.T) {
	root := t.TempDir()
	d, err := automaton.Parse("2 1\n1 1 1\n0 0 1\n1\n")
	if err != nil {
		t.Fatal(err)
	}

	s := store.NewFileStore(root)
	if err := s.Save(context.Background(), "out/canonical.in", d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "out", "canonical.in"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != containsOne {
		t.Errorf("saved %q, want %q", string(data), containsOne)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "out"))
	if len(entries) != 1 {
		t.Errorf("found %d files after Save, want 1 (temp file left behind?)", len(entries))
	}
}

func TestCache_Load_Memoizes(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "dfa1.in", containsOne)

	cache := store.NewCache(store.NewFileStore(root))
	first, err := cache.Load(context.Background(), "dfa1.in")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Later changes on disk are not observed.
	writeTestFile(t, root, "dfa1.in", "1 0\n0 0 0\n\n")

	second, err := cache.Load(context.Background(), "dfa1.in")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first != second {
		t.Error("second Load returned a different value")
	}
}

func TestCache_Load_ErrorNotCached(t *testing.T) {
	root := t.TempDir()
	cache := store.NewCache(store.NewFileStore(root))

	if _, err := cache.Load(context.Background(), "late.in"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Load() error = %v, want %v", err, store.ErrNotFound)
	}
	writeTestFile(t, root, "late.in", containsOne)
	if _, err := cache.Load(context.Background(), "late.in"); err != nil {
		t.Errorf("Load() after file appeared error = %v", err)
	}
}

func TestCache_Save_WritesThrough(t *testing.T) {
	root := t.TempDir()
	cache := store.NewCache(store.NewFileStore(root))

	d, err := automaton.Parse(containsOne)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Save(context.Background(), "x.in", d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "x.in")); err != nil {
		t.Errorf("file not written: %v", err)
	}

	// The saved value is served from memory, not re-read.
	writeTestFile(t, root, "x.in", "1 0\n0 0 0\n\n")
	got, err := cache.Load(context.Background(), "x.in")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != d {
		t.Error("Load after Save returned a different value")
	}
}
