package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Paging  PagingConfig  `yaml:"paging"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	// Base URL of the API, e.g. http://localhost:5001.
	// If empty, read from env TWITTER_API_URL.
	BaseURL string `yaml:"baseUrl"`
}

type PagingConfig struct {
	// Default page size for timeline and reply pages.
	PageSize int `yaml:"pageSize"`
}

type StorageConfig struct {
	// Local SQLite database holding the session cookie and action history.
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	// Address for the optional /metrics server, e.g. ":9090". Empty disables it.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{BaseURL: "http://localhost:5001"},
		Paging:  PagingConfig{PageSize: 20},
		Storage: StorageConfig{DBPath: "./twitterapp.db"},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = os.Getenv("TWITTER_API_URL")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if c.Paging.PageSize <= 0 {
		c.Paging.PageSize = 20
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
