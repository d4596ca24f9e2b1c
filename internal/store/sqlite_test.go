package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLedger_RecordAndLookup(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()
	ctx := context.Background()

	if _, ok, err := l.Lookup(ctx, "http://ex/a.png"); err != nil || ok {
		t.Fatalf("lookup before record: ok=%v err=%v", ok, err)
	}
	if err := l.Record(ctx, "http://ex/a.png", "/out/files/a.png", 123); err != nil {
		t.Fatalf("record: %v", err)
	}
	path, ok, err := l.Lookup(ctx, "http://ex/a.png")
	if err != nil || !ok {
		t.Fatalf("lookup after record: ok=%v err=%v", ok, err)
	}
	if path != "/out/files/a.png" {
		t.Fatalf("path: got %q", path)
	}
}

func TestLedger_RecordOverwrites(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()
	ctx := context.Background()

	if err := l.Record(ctx, "http://ex/a.png", "/old", 1); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Record(ctx, "http://ex/a.png", "/new", 2); err != nil {
		t.Fatalf("re-record: %v", err)
	}
	path, ok, err := l.Lookup(ctx, "http://ex/a.png")
	if err != nil || !ok || path != "/new" {
		t.Fatalf("after overwrite: path=%q ok=%v err=%v", path, ok, err)
	}
	n, err := l.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count: n=%d err=%v", n, err)
	}
}

func TestLedger_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Record(context.Background(), "u", "p", 0); err != nil {
		t.Fatalf("record: %v", err)
	}
	l.Close()

	l, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	if _, ok, err := l.Lookup(context.Background(), "u"); err != nil || !ok {
		t.Fatalf("lookup after reopen: ok=%v err=%v", ok, err)
	}
}
