// Package config loads updatecheck settings from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/git-pkgs/updatecheck/client"
)

// DefaultKind is the repository kind used when a repository entry has none.
const DefaultKind = "maven"

// RepositoryConfig describes one repository.
type RepositoryConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
	Kind string `mapstructure:"kind"`
}

// ArtifactConfig describes one artifact to check. Either PURL or Group, Name
// and Version must be set. Repositories names entries of Config.Repositories;
// when empty, every configured repository is used.
type ArtifactConfig struct {
	Group        string   `mapstructure:"group"`
	Name         string   `mapstructure:"name"`
	Version      string   `mapstructure:"version"`
	Classifier   string   `mapstructure:"classifier"`
	PURL         string   `mapstructure:"purl"`
	Repositories []string `mapstructure:"repositories"`
}

// Key returns group:name, or the PURL when the artifact is given as one.
func (a ArtifactConfig) Key() string {
	if a.PURL != "" {
		return a.PURL
	}
	return a.Group + ":" + a.Name
}

// Config holds all runtime configuration.
// Values are populated from .updatecheck.yaml, UPDATECHECK_* env vars, and CLI flags.
type Config struct {
	UserAgent      string             `mapstructure:"user_agent"`
	Timeout        time.Duration      `mapstructure:"timeout"`
	Retries        int                `mapstructure:"retries"`
	CircuitBreaker bool               `mapstructure:"circuit_breaker"`
	Concurrency    int                `mapstructure:"concurrency"`
	StateFile      string             `mapstructure:"state_file"`
	StateTTL       time.Duration      `mapstructure:"state_ttl"`
	Verbose        bool               `mapstructure:"verbose"`
	Repositories   []RepositoryConfig `mapstructure:"repositories"`
	Artifacts      []ArtifactConfig   `mapstructure:"artifacts"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("user_agent", "updatecheck")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("retries", 0)
	viper.SetDefault("circuit_breaker", false)
	viper.SetDefault("concurrency", 8)
	viper.SetDefault("state_file", defaultStateFile())
	viper.SetDefault("state_ttl", 24*time.Hour)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	for i := range cfg.Repositories {
		r := &cfg.Repositories[i]
		if r.Kind == "" {
			r.Kind = DefaultKind
		}
		if r.Name == "" {
			r.Name = r.URL
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with cfg.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.StateTTL < 0 {
		errs = append(errs, fmt.Errorf("state_ttl must not be negative, got %s", c.StateTTL))
	}

	names := make(map[string]bool)
	for i, r := range c.Repositories {
		if r.URL == "" {
			errs = append(errs, fmt.Errorf("repositories[%d]: url is required", i))
			continue
		}
		if names[r.Name] {
			errs = append(errs, fmt.Errorf("repositories[%d]: duplicate name %q", i, r.Name))
		}
		names[r.Name] = true
	}

	for i, a := range c.Artifacts {
		if a.PURL == "" && (a.Group == "" || a.Name == "" || a.Version == "") {
			errs = append(errs, fmt.Errorf("artifacts[%d]: purl or group, name and version are required", i))
		}
		for _, name := range a.Repositories {
			if !names[name] {
				errs = append(errs, fmt.Errorf("artifacts[%d]: unknown repository %q", i, name))
			}
		}
	}
	return errors.Join(errs...)
}

// RepositoriesFor returns the repositories an artifact is checked against.
func (c Config) RepositoriesFor(a ArtifactConfig) []RepositoryConfig {
	if len(a.Repositories) == 0 {
		return c.Repositories
	}
	var out []RepositoryConfig
	for _, name := range a.Repositories {
		for _, r := range c.Repositories {
			if r.Name == name {
				out = append(out, r)
			}
		}
	}
	return out
}

// ClientOptions returns the transport options described by c.
func (c Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithTimeout(c.Timeout),
		client.WithMaxRetries(c.Retries),
	}
	if c.CircuitBreaker {
		opts = append(opts, client.WithCircuitBreaker())
	}
	return opts
}

// NewClient builds the transport described by c.
func (c Config) NewClient() *client.Client {
	return client.NewClient(c.ClientOptions()...).WithUserAgent(c.UserAgent)
}

func defaultStateFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "updatecheck", "state.yaml")
}
