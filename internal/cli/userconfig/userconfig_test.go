package userconfig

import (
	"testing"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("expected default server URL, got %q", cfg.ServerURL)
	}
	if cfg.Landing != DefaultLanding {
		t.Errorf("expected default landing, got %q", cfg.Landing)
	}
}

func TestSetServerURL_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetServerURL("http://bugtrackr.internal:9090"); err != nil {
		t.Fatalf("failed to set server URL: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if cfg.ServerURL != "http://bugtrackr.internal:9090" {
		t.Errorf("unexpected server URL: %q", cfg.ServerURL)
	}
	// Unset fields keep their defaults
	if cfg.Landing != DefaultLanding {
		t.Errorf("landing should default, got %q", cfg.Landing)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetServerURL("http://from-file:8080"); err != nil {
		t.Fatalf("failed to set server URL: %v", err)
	}

	t.Setenv("BUGTRACKR_SERVER_URL", "http://from-env:8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ServerURL != "http://from-env:8080" {
		t.Errorf("environment should win over the file, got %q", cfg.ServerURL)
	}
}
