package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := ResolveConfig(Config{})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.Profile != DefaultProfile {
		t.Errorf("Profile default mismatch: %s", cfg.Profile)
	}
	if cfg.GlobalEndpoint != ProductionEndpoint {
		t.Errorf("GlobalEndpoint default mismatch: %s", cfg.GlobalEndpoint)
	}
	if cfg.Residency != DefaultResidency {
		t.Errorf("Residency default mismatch: %s", cfg.Residency)
	}
}

func TestResolveConfigFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AIMSCTL_ACCESS_KEY_ID", "env-key")
	t.Setenv("AIMSCTL_SECRET_KEY", "env-secret")
	t.Setenv("AIMSCTL_GLOBAL_ENDPOINT", IntegrationEndpoint)

	cfg, err := ResolveConfig(Config{})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.AccessKeyID != "env-key" || cfg.SecretKey != "env-secret" {
		t.Errorf("env credentials not picked up: %+v", cfg)
	}
	if cfg.GlobalEndpoint != IntegrationEndpoint {
		t.Errorf("env endpoint not picked up: %s", cfg.GlobalEndpoint)
	}
}

func TestResolveConfigFromFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, `
[default]
access_key_id = file-key
secret_key = file-secret
residency = emea

[staging]
access_key_id = staging-key
secret_key = staging-secret
global_endpoint = integration
account_id = 424242
`)
	t.Setenv("AIMSCTL_CONFIG", path)

	cfg, err := ResolveConfig(Config{})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.AccessKeyID != "file-key" || cfg.SecretKey != "file-secret" {
		t.Errorf("default section not loaded: %+v", cfg)
	}
	if cfg.Residency != "emea" {
		t.Errorf("Residency from file mismatch: %s", cfg.Residency)
	}

	cfg, err = ResolveConfig(Config{Profile: "staging"})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.AccessKeyID != "staging-key" || cfg.AccountID != "424242" {
		t.Errorf("staging section not loaded: %+v", cfg)
	}
	if cfg.GlobalEndpoint != IntegrationEndpoint {
		t.Errorf("staging endpoint mismatch: %s", cfg.GlobalEndpoint)
	}
	if cfg.Residency != DefaultResidency {
		t.Errorf("staging residency should default to %s, got %s", DefaultResidency, cfg.Residency)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, `
[default]
access_key_id = file-key
secret_key = file-secret
`)
	t.Setenv("AIMSCTL_CONFIG", path)
	t.Setenv("AIMSCTL_ACCESS_KEY_ID", "env-key")

	// explicit beats env beats file
	cfg, err := ResolveConfig(Config{AccessKeyID: "explicit-key"})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.AccessKeyID != "explicit-key" {
		t.Errorf("explicit value must win, got %s", cfg.AccessKeyID)
	}
	if cfg.SecretKey != "file-secret" {
		t.Errorf("file value must fill remaining fields, got %s", cfg.SecretKey)
	}

	cfg, err = ResolveConfig(Config{})
	if err != nil {
		t.Fatalf("ResolveConfig failed: %v", err)
	}
	if cfg.AccessKeyID != "env-key" {
		t.Errorf("env value must beat file, got %s", cfg.AccessKeyID)
	}
}

func TestResolveConfigBadFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, "[unclosed\naccess_key_id")
	t.Setenv("AIMSCTL_CONFIG", path)

	if _, err := ResolveConfig(Config{}); err == nil {
		t.Error("expected error for unparseable config file")
	}
}

func TestResolveConfigMissingFileIsFine(t *testing.T) {
	isolateEnv(t)

	if _, err := ResolveConfig(Config{}); err != nil {
		t.Errorf("missing config file must not be an error: %v", err)
	}
}
