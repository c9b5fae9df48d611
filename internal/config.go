package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	// DefaultProfile is the config file section used when none is given.
	DefaultProfile = "default"

	DefaultResidency      = "us"
	DefaultGlobalEndpoint = ProductionEndpoint
)

var configPath = filepath.Join(os.Getenv("HOME"), ".aimsctl", "config")

// Config holds the resolved session settings. Each field is filled from one
// of three sources (in priority order):
// 1. Explicit argument (session option or CLI flag)
// 2. Environment variable (AIMSCTL_*)
// 3. Profile section of the config file (~/.aimsctl/config)
type Config struct {
	AccessKeyID    string
	SecretKey      string
	Token          string
	AccountID      string
	Profile        string
	GlobalEndpoint string
	Residency      string
}

// ResolveConfig fills the empty fields of explicit from the environment and
// the profile config file, then applies defaults. A missing config file is
// not an error; a present but unparseable one is.
func ResolveConfig(explicit Config) (Config, error) {
	cfg := explicit

	if cfg.Profile == "" {
		cfg.Profile = os.Getenv("AIMSCTL_PROFILE")
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}

	fillFromEnv(&cfg.AccessKeyID, "AIMSCTL_ACCESS_KEY_ID")
	fillFromEnv(&cfg.SecretKey, "AIMSCTL_SECRET_KEY")
	fillFromEnv(&cfg.Token, "AIMSCTL_TOKEN")
	fillFromEnv(&cfg.AccountID, "AIMSCTL_ACCOUNT_ID")
	fillFromEnv(&cfg.GlobalEndpoint, "AIMSCTL_GLOBAL_ENDPOINT")
	fillFromEnv(&cfg.Residency, "AIMSCTL_RESIDENCY")

	if err := fillFromFile(&cfg); err != nil {
		return cfg, err
	}

	if cfg.GlobalEndpoint == "" {
		cfg.GlobalEndpoint = DefaultGlobalEndpoint
	}
	if cfg.Residency == "" {
		cfg.Residency = DefaultResidency
	}

	return cfg, nil
}

func fillFromEnv(field *string, name string) {
	if *field == "" {
		*field = os.Getenv(name)
	}
}

func fillFromFile(cfg *Config) error {
	path := os.Getenv("AIMSCTL_CONFIG")
	if path == "" {
		path = configPath
	}

	if _, err := os.Stat(path); err != nil {
		return nil // no config file, nothing to fill
	}

	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	section := file.Section(cfg.Profile)
	fillFromKey(&cfg.AccessKeyID, section, "access_key_id")
	fillFromKey(&cfg.SecretKey, section, "secret_key")
	fillFromKey(&cfg.AccountID, section, "account_id")
	fillFromKey(&cfg.GlobalEndpoint, section, "global_endpoint")
	fillFromKey(&cfg.Residency, section, "residency")
	return nil
}

func fillFromKey(field *string, section *ini.Section, key string) {
	if *field == "" && section.HasKey(key) {
		*field = section.Key(key).String()
	}
}
