package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Set(ctx, "hello", "world"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := s.Get(ctx, "hello")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got != "world" {
		t.Errorf("expected 'world', got %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	got, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || got != "" {
		t.Errorf("expected absent key, got %q ok=%v", got, ok)
	}
}

func TestSetBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "k", "v1")
	s.Set(ctx, "k", "v2")

	v, err := s.Version(ctx, "k")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}

	got, _, _ := s.Get(ctx, "k")
	if got != "v2" {
		t.Errorf("expected 'v2', got %q", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "k", "data")
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expected key to be gone after remove")
	}

	err := s.Remove(ctx, "k")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	type payload struct {
		Used int `json:"used"`
	}
	if err := SetJSON(ctx, s, KeyQuota, payload{Used: 2}); err != nil {
		t.Fatalf("set json: %v", err)
	}

	var got payload
	ok, err := GetJSON(ctx, s, KeyQuota, &got)
	if err != nil || !ok {
		t.Fatalf("get json: ok=%v err=%v", ok, err)
	}
	if got.Used != 2 {
		t.Errorf("expected used 2, got %d", got.Used)
	}

	ok, err = GetJSON(ctx, s, "absent", &got)
	if err != nil || ok {
		t.Errorf("expected absent key, ok=%v err=%v", ok, err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	dst := newTestStore(t)

	src.Set(ctx, "a", "alpha")
	src.Set(ctx, "b", "beta")
	src.Set(ctx, "b", "beta2")

	entries, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	n, err := dst.Import(ctx, entries)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	// Re-importing the same versions changes nothing
	n, _ = dst.Import(ctx, entries)
	if n != 0 {
		t.Errorf("expected 0 imported on replay, got %d", n)
	}

	got, _, _ := dst.Get(ctx, "b")
	if got != "beta2" {
		t.Errorf("expected 'beta2', got %q", got)
	}
}

func TestImportKeepsNewerLocal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "k", "v1")
	s.Set(ctx, "k", "v2")
	s.Set(ctx, "k", "v3")

	n, err := s.Import(ctx, []Entry{{Key: "k", Value: "old", Version: 1}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 0 {
		t.Errorf("expected stale entry to be skipped, imported %d", n)
	}
	got, _, _ := s.Get(ctx, "k")
	if got != "v3" {
		t.Errorf("expected 'v3', got %q", got)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	s.Set(ctx, "short", "x")
	s.Set(ctx, "long", "xxxxxxxxxx")

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalKeys != 2 {
		t.Errorf("expected 2 keys, got %d", st.TotalKeys)
	}
	if st.Keys[0].Key != "long" || st.Keys[0].Bytes != 10 {
		t.Errorf("expected largest key first, got %+v", st.Keys[0])
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	var kv KV = NewMemoryKV()

	kv.Set(ctx, "k", "v")
	got, ok, _ := kv.Get(ctx, "k")
	if !ok || got != "v" {
		t.Errorf("expected 'v', got %q ok=%v", got, ok)
	}
	if err := kv.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := kv.Remove(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
