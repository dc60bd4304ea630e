package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpWrite | OpRemove | OpRename, "WRITE|REMOVE|RENAME"},
		{0, "Op(0)"},
		{OpRename | 32, "RENAME|Op(32)"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}

	if !(OpCreate | OpWrite).Has(OpWrite) {
		t.Error("Has(OpWrite) should be true")
	}
}

func TestConvertOp(t *testing.T) {
	if got := convertOp(fsnotify.Chmod); got != 0 {
		t.Errorf("convertOp(Chmod) = %v, want 0", got)
	}
	if got := convertOp(fsnotify.Create | fsnotify.Write); got != OpCreate|OpWrite {
		t.Errorf("convertOp(Create|Write) = %v, want CREATE|WRITE", got)
	}
}

func TestWatcherDeliversDebouncedEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Add(path); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Add() error = %v, want ErrAlreadyWatching", err)
	}

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case ev := <-w.Events():
		if ev.Path != path {
			t.Errorf("event path = %q, want %q", ev.Path, path)
		}
		if !ev.Op.Has(OpWrite) {
			t.Errorf("event op = %v, want WRITE", ev.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Add("x"); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Add() after Close error = %v, want ErrWatcherClosed", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() should be closed")
	}
}
