package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Store.DBName != "poc_integrity" {
		t.Fatalf("db name = %q, want poc_integrity", cfg.Store.DBName)
	}
	if cfg.Store.FlushBatchSize != 1000 {
		t.Fatalf("flush batch size = %d, want 1000", cfg.Store.FlushBatchSize)
	}
}

func TestLoadNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DBName != "poc_integrity" {
		t.Fatalf("db name = %q, want poc_integrity", cfg.Store.DBName)
	}
}

func TestLoadYAMLWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_NAME", "custom_db")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store:\n  db_name: \"${TEST_DB_NAME}\"\n  flush_batch_size: 50\nmonitoring:\n  metrics_enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DBName != "custom_db" {
		t.Fatalf("db name = %q, want custom_db", cfg.Store.DBName)
	}
	if cfg.Store.FlushBatchSize != 50 {
		t.Fatalf("flush batch size = %d, want 50", cfg.Store.FlushBatchSize)
	}
	if cfg.Monitoring.MetricsEnabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestLoadYAMLDefaultSubstitution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store:\n  db_name: \"${UNSET_VAR:-fallback_db}\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DBName != "fallback_db" {
		t.Fatalf("db name = %q, want fallback_db", cfg.Store.DBName)
	}
}

func TestEnvOverrideWinsOverYAML(t *testing.T) {
	t.Setenv("LEDGER_DB_NAME", "env_db")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store:\n  db_name: \"yaml_db\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DBName != "env_db" {
		t.Fatalf("db name = %q, want env_db", cfg.Store.DBName)
	}
}
