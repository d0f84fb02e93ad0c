package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	v, ok, err := s.Get(context.Background(), "email-favorites")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected miss, got %q %v", v, ok)
	}
}

func TestSetUpserts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "email-favorites", "[1,2]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "email-favorites", "[3]"); err != nil {
		t.Fatalf("Set update: %v", err)
	}
	if err := s.Set(ctx, "email-selected", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get(ctx, "email-favorites")
	if err != nil || !ok || v != "[3]" {
		t.Errorf("Get = %q %v %v, want [3]", v, ok, err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if diff := cmp.Diff([]string{"email-favorites", "email-selected"}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(ctx, "email-selected", "[7]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, "email-selected")
	if err != nil || !ok || v != "[7]" {
		t.Errorf("Get after reopen = %q %v %v", v, ok, err)
	}
}
