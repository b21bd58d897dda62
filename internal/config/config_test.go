package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the .env lookup at a file in a temp dir and clears the
// variables the tests depend on.
func isolate(t *testing.T, dotenv string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if dotenv != "" {
		if err := os.WriteFile(path, []byte(dotenv), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("LOJA_ENV_FILE", path)
	for _, key := range []string{"LOJA_DB", "LOJA_ADDR", "LOJA_ADMIN_USER", "LOJA_LOG",
		"LOJACTL_SERVER", "LOJACTL_USER", "LOJACTL_LOG", "LOJACTL_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestServerDefaults(t *testing.T) {
	isolate(t, "")

	cfg, err := ParseServer(nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseServer: %v", err)
	}
	if cfg.DBPath != "loja.sqlite3" || cfg.Addr != ":8080" || cfg.AdminUser != "Admin" || cfg.LogPath != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestServerPrecedence(t *testing.T) {
	isolate(t, "LOJA_DB=file.sqlite3\nLOJA_ADDR=:9000\nLOJA_ADMIN_USER=root\n")
	t.Setenv("LOJA_ADDR", ":9100")

	cfg, err := ParseServer([]string{"-u", "boss"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseServer: %v", err)
	}
	if cfg.DBPath != "file.sqlite3" {
		t.Errorf("expected db from .env, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("expected addr from environment, got %q", cfg.Addr)
	}
	if cfg.AdminUser != "boss" {
		t.Errorf("expected user from flag, got %q", cfg.AdminUser)
	}
}

func TestServerHelp(t *testing.T) {
	isolate(t, "")
	var out strings.Builder

	_, err := ParseServer([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage: loja") {
		t.Errorf("expected usage text, got %q", out.String())
	}
}

func TestServerUnexpectedArgument(t *testing.T) {
	isolate(t, "")

	if _, err := ParseServer([]string{"serve"}, io.Discard); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestConsoleSettings(t *testing.T) {
	isolate(t, "LOJACTL_SERVER=http://shop:8080\nLOJACTL_TIMEOUT=5s\n")

	cfg, err := ParseConsole([]string{"-user", "ana"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConsole: %v", err)
	}
	if cfg.ServerURL != "http://shop:8080" {
		t.Errorf("unexpected server %q", cfg.ServerURL)
	}
	if cfg.Username != "ana" {
		t.Errorf("unexpected user %q", cfg.Username)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
}

func TestConsoleBadTimeout(t *testing.T) {
	isolate(t, "")
	t.Setenv("LOJACTL_TIMEOUT", "soon")

	if _, err := ParseConsole(nil, io.Discard); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestMalformedEnvFile(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()
	// A directory cannot be read as a file.
	t.Setenv("LOJA_ENV_FILE", dir)

	if _, err := ParseServer(nil, io.Discard); err == nil {
		t.Fatal("expected error when the env file cannot be read")
	}
}
