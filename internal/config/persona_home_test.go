package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPersonaHomeFromEnv(t *testing.T) {
	home := filepath.Join(t.TempDir(), "custom")
	t.Setenv("PERSONA_HOME", home)

	got, err := GetPersonaHome()
	if err != nil {
		t.Fatalf("GetPersonaHome() error = %v", err)
	}
	if got != home {
		t.Errorf("GetPersonaHome() = %q, want %q", got, home)
	}
	if info, err := os.Stat(home); err != nil || !info.IsDir() {
		t.Errorf("home directory was not created: %v", err)
	}
}

func TestGetPersonaHomeDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PERSONA_HOME", "")

	got, err := GetPersonaHome()
	if err != nil {
		t.Fatalf("GetPersonaHome() error = %v", err)
	}
	wd, _ := os.Getwd()
	if got != filepath.Join(wd, ".persona") {
		t.Errorf("GetPersonaHome() = %q", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("PERSONA_TEST_FROM_ENV=loaded\nPERSONA_TEST_PRESET=file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PERSONA_TEST_FROM_ENV", "")
	os.Unsetenv("PERSONA_TEST_FROM_ENV")
	t.Setenv("PERSONA_TEST_PRESET", "process")

	if err := LoadEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("PERSONA_TEST_FROM_ENV"); got != "loaded" {
		t.Errorf("PERSONA_TEST_FROM_ENV = %q, want loaded", got)
	}
	if got := os.Getenv("PERSONA_TEST_PRESET"); got != "process" {
		t.Errorf("existing variables must win, got %q", got)
	}
}

func TestLoadEnvDefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Errorf("LoadEnv() with no .env error = %v", err)
	}
}
