package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "catalogd "+Version) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("database:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := execute(t, "migrate", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Fatalf("expected postgres driver error, got %v", err)
	}
}

func TestServeFailsWithoutSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "uploads:\n  dir: " + filepath.Join(t.TempDir(), "uploads") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CATALOG_AUTH_JWT_SECRET", "")
	_, err := execute(t, "serve", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "explode"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
