package store

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a new Store backed by a temp-dir database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)

	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}

	// Migrations must be idempotent: a second run over the same file
	// should not fail.
	if err := s.runMigrations(); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
}

func TestLabelRepository_ReplaceAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Labels()

	shape := []string{"Open", "Close", "Pointer", "OK"}
	if err := repo.Replace(LabelKindShape, shape); err != nil {
		t.Fatalf("failed to replace shape labels: %v", err)
	}

	motion := []string{"Stop", "Clockwise", "Counter Clockwise", "Move"}
	if err := repo.Replace(LabelKindMotion, motion); err != nil {
		t.Fatalf("failed to replace motion labels: %v", err)
	}

	got, err := repo.List(LabelKindShape)
	if err != nil {
		t.Fatalf("failed to list shape labels: %v", err)
	}
	if len(got) != len(shape) {
		t.Fatalf("listed %d shape labels, want %d", len(got), len(shape))
	}
	for i := range shape {
		if got[i] != shape[i] {
			t.Errorf("shape label %d = %q, want %q", i, got[i], shape[i])
		}
	}

	// Replacing again must overwrite, not append.
	if err := repo.Replace(LabelKindShape, []string{"Fist"}); err != nil {
		t.Fatalf("failed to re-replace shape labels: %v", err)
	}
	got, err = repo.List(LabelKindShape)
	if err != nil {
		t.Fatalf("failed to list shape labels: %v", err)
	}
	if len(got) != 1 || got[0] != "Fist" {
		t.Errorf("shape labels after re-replace = %v, want [Fist]", got)
	}

	// The motion list is a separate kind and must be untouched.
	got, err = repo.List(LabelKindMotion)
	if err != nil {
		t.Fatalf("failed to list motion labels: %v", err)
	}
	if len(got) != len(motion) {
		t.Errorf("listed %d motion labels, want %d", len(got), len(motion))
	}
}

func TestLabelRepository_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	labels, err := s.Labels().List(LabelKindShape)
	if err != nil {
		t.Fatalf("failed to list labels: %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("expected no labels, got %v", labels)
	}
}
