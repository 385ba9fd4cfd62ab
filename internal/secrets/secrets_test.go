package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	if err := os.WriteFile(file, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte(" \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JOBSIGHT_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr bool
	}{
		{name: "file wins", src: Source{File: file, Env: "JOBSIGHT_TEST_KEY", Value: "v"}, want: "from-file"},
		{name: "env before value", src: Source{Env: "JOBSIGHT_TEST_KEY", Value: "v"}, want: "from-env"},
		{name: "unset env falls back", src: Source{Env: "JOBSIGHT_TEST_UNSET", Value: " v "}, want: "v"},
		{name: "empty file", src: Source{File: empty}, wantErr: true},
		{name: "missing file", src: Source{File: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "nothing configured", src: Source{Name: "gemini api key"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestKeyring(t *testing.T) {
	keyring.MockInit()
	k := NewKeyring()

	if _, err := k.Get("token:default"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := k.Set("token:default", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := k.Get("token:default")
	if err != nil || got != "abc" {
		t.Fatalf("expected abc, got %q (%v)", got, err)
	}
	if err := k.Delete("token:default"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := k.Delete("token:default"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if err := k.Set("", "x"); err == nil {
		t.Fatalf("expected error for empty account")
	}
}
