package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalStorage_SaveAndGet(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := []byte("proof bytes")
	key, err := store.Save(context.Background(), "proofs/2026/09/abc.png", "image/png", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "proofs/2026/09/abc.png" {
		t.Errorf("expected key returned unchanged, got %s", key)
	}

	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("expected %q, got %q", data, got)
	}

	exists, err := store.Exists(context.Background(), key)
	if err != nil || !exists {
		t.Errorf("expected object to exist, got exists=%v err=%v", exists, err)
	}
}

func TestLocalStorage_MissingObject(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(context.Background(), "proofs/none.png"); err != ErrObjectNotFound {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}

	exists, err := store.Exists(context.Background(), "proofs/none.png")
	if err != nil || exists {
		t.Errorf("expected object to be absent, got exists=%v err=%v", exists, err)
	}
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"../outside.txt", "/etc/passwd", ""} {
		if _, err := store.Save(context.Background(), key, "text/plain", []byte("x")); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}
