package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReadsSecretFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("JWT_SECRET=supersecret\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	// godotenv ne prepisuje već postavljene promenljive, pa JWT_SECRET ne
	// sme da postoji u okruženju pre učitavanja.
	if old, had := os.LookupEnv("JWT_SECRET"); had {
		os.Unsetenv("JWT_SECRET")
		defer os.Setenv("JWT_SECRET", old)
	}
	defer os.Unsetenv("JWT_SECRET")

	cfg := Load()
	if cfg.JWTSecret != "supersecret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, "supersecret")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOW_REAPPLY_AFTER_REJECTION", "")

	cfg := Load()
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q, want default", cfg.MongoURI)
	}
	if cfg.ServerPort != ":8080" {
		t.Errorf("ServerPort = %q, want :8080", cfg.ServerPort)
	}
	if cfg.AllowReapplyAfterRejection {
		t.Error("reapply policy should default to off")
	}
}

func TestLoadReapplyFlag(t *testing.T) {
	t.Setenv("ALLOW_REAPPLY_AFTER_REJECTION", "true")
	cfg := Load()
	if !cfg.AllowReapplyAfterRejection {
		t.Error("reapply policy should be on when the flag is set")
	}
}
