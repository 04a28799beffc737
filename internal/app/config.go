package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL      string `yaml:"server_url"`
	AuthToken      string `yaml:"auth_token"`
	PollIntervalMS int    `yaml:"poll_interval_ms"`
	LogFile        string `yaml:"log_file"`
	Mock           bool   `yaml:"mock"`
}

func DefaultConfig() Config {
	return Config{
		ServerURL:      "http://localhost:8000",
		PollIntervalMS: 1000,
	}
}

// LoadConfig reads the yaml config at path (a missing file just yields
// defaults), then lets a local .env and the process environment override it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	_ = godotenv.Load()
	if v := os.Getenv("DOCCHAT_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("DOCCHAT_TOKEN"); v != "" {
		cfg.AuthToken = v
	}
	if os.Getenv("DOCCHAT_MOCK") == "1" {
		cfg.Mock = true
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8000"
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = 1000
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "docchat", "config.yml")
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
