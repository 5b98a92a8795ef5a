// Package config loads server settings from an optional YAML file and
// CHRONO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CHRONO_"

type Config struct {
	HTTPAddr    string `yaml:"http_addr" env:"HTTP_ADDR"`
	SSHPort     int    `yaml:"ssh_port"  env:"SSH_PORT"` // 0 disables the SSH listener
	HostKeyPath string `yaml:"host_key"  env:"HOST_KEY"`

	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	ActRate      float64       `yaml:"act_rate"      env:"ACT_RATE"` // actions per second per connection

	StageDir        string `yaml:"stage_dir"        env:"STAGE_DIR"` // empty uses the embedded stages
	GeneratedStages int    `yaml:"generated_stages" env:"GENERATED_STAGES"`
	StageSeed       int64  `yaml:"stage_seed"       env:"STAGE_SEED"`

	LeaderboardDB string `yaml:"leaderboard_db" env:"LEADERBOARD_DB"` // empty falls back to the JSONL run log
	RunLog        string `yaml:"run_log"        env:"RUN_LOG"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		HTTPAddr:     ":8080",
		SSHPort:      2222,
		HostKeyPath:  "server_host_key",
		PollInterval: 50 * time.Millisecond,
		ActRate:      8,
		StageSeed:    1,
		LogLevel:     "info",
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is empty"))
	}
	if c.SSHPort < 0 || c.SSHPort > 65535 {
		errs = append(errs, fmt.Errorf("ssh_port %d out of range", c.SSHPort))
	}
	if c.SSHPort != 0 && c.HostKeyPath == "" {
		errs = append(errs, errors.New("host_key is empty"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval %v must be positive", c.PollInterval))
	}
	if c.ActRate <= 0 {
		errs = append(errs, fmt.Errorf("act_rate %v must be positive", c.ActRate))
	}
	if c.GeneratedStages < 0 {
		errs = append(errs, fmt.Errorf("generated_stages %d is negative", c.GeneratedStages))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
