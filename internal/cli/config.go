package cli

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/mvnq/mvnq/pkg/errors"
	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// Config is the mvnq configuration, loaded from a TOML file and filled in
// with defaults for anything left unset.
type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
	Serve    ServeConfig    `toml:"serve"`
}

// RegistryConfig controls the upstream Maven Central endpoints and the
// outbound HTTP budget.
type RegistryConfig struct {
	SearchBaseURL  string `toml:"search_base_url"`
	RepoBaseURL    string `toml:"repo_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	Concurrency    int    `toml:"concurrency"`
	MaxPOMBytes    int64  `toml:"max_pom_bytes"`
	Rows           int    `toml:"rows"`
}

// CacheConfig controls the in-process metadata cache.
type CacheConfig struct {
	Enabled          bool `toml:"enabled"`
	SearchTTLSeconds int  `toml:"search_ttl_seconds"`
	POMTTLSeconds    int  `toml:"pom_ttl_seconds"`
	MaxEntries       int  `toml:"max_entries"`
}

// LogConfig controls log verbosity and format.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// ServeConfig controls the HTTP serve mode listener.
type ServeConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			SearchBaseURL:  maven.DefaultSearchBaseURL,
			RepoBaseURL:    maven.DefaultRepoBaseURL,
			TimeoutSeconds: 10,
			MaxRetries:     2,
			Concurrency:    10,
			MaxPOMBytes:    2_000_000,
			Rows:           maven.DefaultRows,
		},
		Cache: CacheConfig{
			Enabled:          true,
			SearchTTLSeconds: 21600,
			POMTTLSeconds:    86400,
			MaxEntries:       2048,
		},
		Log: LogConfig{Level: "info"},
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: 8645,
		},
	}
}

// LoadConfig reads the TOML config at path, or the default location when
// path is empty. A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would produce broken
// or insecure clients.
func (c *Config) Validate() error {
	for _, base := range []struct{ name, value string }{
		{"registry.search_base_url", c.Registry.SearchBaseURL},
		{"registry.repo_base_url", c.Registry.RepoBaseURL},
	} {
		if err := validateBaseURL(base.name, base.value); err != nil {
			return err
		}
	}
	if c.Registry.TimeoutSeconds <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "registry.timeout_seconds must be positive")
	}
	if c.Registry.MaxPOMBytes <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "registry.max_pom_bytes must be positive")
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "serve.port must be in 1..65535")
	}
	return nil
}

// validateBaseURL enforces HTTPS upstream endpoints. Plain HTTP is allowed
// only for loopback hosts, which keeps local test fixtures usable.
func validateBaseURL(name, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s is not a valid URL", name)
	}
	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return nil
		}
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s must use https (got %s)", name, value)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s must use https (got %s)", name, value)
	}
}

// configPath returns the config file location using the XDG convention
// (~/.config/mvnq/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
