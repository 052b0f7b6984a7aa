package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"messageu/internal/domain"
	"messageu/internal/store"
)

func writeServerInfo(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, store.ServerInfoFile), []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestLoadServerInfo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"dotted quad", "127.0.0.1:1234\n", "127.0.0.1:1234", false},
		{"localhost", "localhost:8080\n", "localhost:8080", false},
		{"localhost mixed case", "LocalHost:8080\n", "LocalHost:8080", false},
		{"trailing whitespace", "  10.0.0.5:65535  \n", "10.0.0.5:65535", false},
		{"missing separator", "127.0.0.1\n", "", true},
		{"port zero", "127.0.0.1:0\n", "", true},
		{"port not a number", "127.0.0.1:http\n", "", true},
		{"port out of range", "127.0.0.1:70000\n", "", true},
		{"hostname not allowed", "relay.example.com:1234\n", "", true},
		{"ipv6 not allowed", "::1:1234\n", "", true},
		{"empty file", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeServerInfo(t, tt.content)
			got, err := store.LoadServerInfo(dir)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrConfig) {
					t.Fatalf("expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadServerInfoMissingFile(t *testing.T) {
	if _, err := store.LoadServerInfo(t.TempDir()); !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
