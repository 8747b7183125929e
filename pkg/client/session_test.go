package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStore_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)

	// Empty until something is saved.
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "" {
		t.Errorf("Load() = %q, want empty", token)
	}

	if err := store.Save("abc.def.ghi"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("Load() = %q, want abc.def.ghi", token)
	}

	info, err := os.Stat(filepath.Join(dir, DefaultTokenFileName))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after Clear() error = %v", err)
	}
	if token != "" {
		t.Errorf("Load() after Clear() = %q, want empty", token)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	store := &MemoryTokenStore{}
	session, err := NewSession(store)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if session.Authenticated() {
		t.Error("fresh session should not be authenticated")
	}

	if err := session.SetToken("tok"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if !session.Authenticated() {
		t.Error("session with a token should be authenticated")
	}
	if session.Token() != "tok" {
		t.Errorf("Token() = %q, want tok", session.Token())
	}
	if stored, _ := store.Load(); stored != "tok" {
		t.Errorf("store holds %q, want tok", stored)
	}

	if err := session.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if session.Authenticated() {
		t.Error("cleared session should not be authenticated")
	}
	if stored, _ := store.Load(); stored != "" {
		t.Errorf("store holds %q after Clear(), want empty", stored)
	}
}

func TestSession_LoadsStoredCredential(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)
	if err := store.Save("persisted"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	session, err := NewSession(store)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if !session.Authenticated() {
		t.Error("session should pick up the stored credential")
	}
	if session.Token() != "persisted" {
		t.Errorf("Token() = %q, want persisted", session.Token())
	}
}
