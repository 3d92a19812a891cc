package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// storeFactories lists every Store implementation under test.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			t.Helper()
			s, err := Open(t.TempDir(), DefaultOptions())
			if err != nil {
				t.Fatalf("failed to open store: %v", err)
			}
			return s
		},
	}
}

// TestStoreContract runs the shared Store behavior against every implementation.
func TestStoreContract(t *testing.T) {
	t.Parallel()

	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			t.Run("missing key returns ErrNotFound", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("put then get", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				if err := s.Put(ctx, "audit_history", []byte(`[]`)); err != nil {
					t.Fatalf("put failed: %v", err)
				}
				got, err := s.Get(ctx, "audit_history")
				if err != nil {
					t.Fatalf("get failed: %v", err)
				}
				if string(got) != `[]` {
					t.Errorf("expected [], got %q", got)
				}
			})

			t.Run("put replaces", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				_ = s.Put(ctx, "k", []byte("first"))
				_ = s.Put(ctx, "k", []byte("second"))
				got, err := s.Get(ctx, "k")
				if err != nil {
					t.Fatalf("get failed: %v", err)
				}
				if string(got) != "second" {
					t.Errorf("expected second, got %q", got)
				}
			})

			t.Run("delete removes and is idempotent", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				_ = s.Put(ctx, "k", []byte("v"))
				if err := s.Delete(ctx, "k"); err != nil {
					t.Fatalf("delete failed: %v", err)
				}
				if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound after delete, got %v", err)
				}
				if err := s.Delete(ctx, "k"); err != nil {
					t.Errorf("second delete should succeed, got %v", err)
				}
			})

			t.Run("empty value", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				if err := s.Put(ctx, "k", nil); err != nil {
					t.Fatalf("put failed: %v", err)
				}
				got, err := s.Get(ctx, "k")
				if err != nil {
					t.Fatalf("get failed: %v", err)
				}
				if len(got) != 0 {
					t.Errorf("expected empty value, got %q", got)
				}
			})
		})
	}
}

// TestMemoryStoreCopies verifies callers cannot mutate stored values.
func TestMemoryStoreCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("abc")
	_ = s.Put(ctx, "k", value)
	value[0] = 'x'

	got, _ := s.Get(ctx, "k")
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("stored value changed through caller slice: %q", got)
	}

	got[1] = 'y'
	again, _ := s.Get(ctx, "k")
	if !bytes.Equal(again, []byte("abc")) {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 slot, got %d", s.Len())
	}
}

// TestMemoryStoreConcurrent exercises the store from many goroutines.
func TestMemoryStoreConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, "k", []byte{byte(i)})
			_, _ = s.Get(ctx, "k")
		}(i)
	}
	wg.Wait()

	if _, err := s.Get(ctx, "k"); err != nil {
		t.Errorf("expected value after concurrent writes, got %v", err)
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dir, DatabaseFile)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if s.Path() != filepath.Join(dir, DatabaseFile) {
			t.Errorf("unexpected path %q", s.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "missing")
		if _, err := Open(dir, Options{CreateIfNotExists: false}); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = s.Close()

		s, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = s.Close()
	})
}

// TestSQLiteStoreSurvivesReopen verifies values persist across connections.
func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Put(ctx, "audit_history", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	s, err = Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "audit_history")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("unexpected value %q", got)
	}

	updated, err := s.UpdatedAt(ctx, "audit_history")
	if err != nil {
		t.Fatalf("UpdatedAt failed: %v", err)
	}
	if updated.IsZero() {
		t.Error("expected non-zero updated_at")
	}
	if _, err := s.UpdatedAt(ctx, "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestParseTimestamp tests SQLite timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	testCases := []struct {
		input string
		zero  bool
	}{
		{"2024-03-01 12:30:45", false},
		{"2024-03-01T12:30:45Z", false},
		{"garbage", true},
	}
	for _, tc := range testCases {
		got := parseTimestamp(tc.input)
		if tc.zero {
			if !got.IsZero() {
				t.Errorf("parseTimestamp(%q) expected zero, got %v", tc.input, got)
			}
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, expected %v", tc.input, got, want)
		}
	}
}

// TestMemoryStoreUpdatedAt tests write times of the in-memory store.
func TestMemoryStoreUpdatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.UpdatedAt(ctx, "slot"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_ = m.Put(ctx, "slot", []byte("v"))
	first, err := m.UpdatedAt(ctx, "slot")
	if err != nil || first.IsZero() {
		t.Fatalf("expected write time, got %v %v", first, err)
	}

	_ = m.Delete(ctx, "slot")
	if _, err := m.UpdatedAt(ctx, "slot"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
