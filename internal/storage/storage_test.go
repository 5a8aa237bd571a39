package storage

import (
	"path/filepath"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStorage returned error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestEditorFlags(t *testing.T) {
	s := newTestStorage(t)

	isEditor, err := s.IsEditor(100)
	if err != nil {
		t.Fatalf("IsEditor returned error: %v", err)
	}
	if isEditor {
		t.Fatal("unknown users must not be editors")
	}

	if err := s.SetEditor(100, true); err != nil {
		t.Fatalf("SetEditor returned error: %v", err)
	}
	isEditor, err = s.IsEditor(100)
	if err != nil {
		t.Fatalf("IsEditor returned error: %v", err)
	}
	if !isEditor {
		t.Fatal("expected user 100 to be an editor")
	}

	// Flipping the flag updates the existing row.
	if err := s.SetEditor(100, false); err != nil {
		t.Fatalf("SetEditor returned error: %v", err)
	}
	isEditor, err = s.IsEditor(100)
	if err != nil {
		t.Fatalf("IsEditor returned error: %v", err)
	}
	if isEditor {
		t.Fatal("expected user 100 demoted")
	}
}

func TestRecordPublished(t *testing.T) {
	s := newTestStorage(t)

	if err := s.RecordPublished(1, "read", "A Title", "https://example.com/a"); err != nil {
		t.Fatalf("RecordPublished returned error: %v", err)
	}
	if err := s.RecordPublished(1, "af_post", "Weekly memo", ""); err != nil {
		t.Fatalf("RecordPublished returned error: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM published_items WHERE chat_id = 1`).Scan(&count); err != nil {
		t.Fatalf("could not count published items: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 published items, got %d", count)
	}
}
