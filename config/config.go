package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	Timezone      string `yaml:"timezone"`
	SummaryTime   string `yaml:"summary_time"`
	DBPath        string `yaml:"db_path"`
	HistoryFile   string `yaml:"history_file"`
	LogLevel      string `yaml:"log_level"`
}

// summaryTimeRegex validates HH:MM format with proper ranges.
var summaryTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("DEDUP_BOT_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

func applyDefaults(cfg *Config) {
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Yangon"
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "21:00"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./dedupbot.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if token := os.Getenv("DEDUP_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if dbPath := os.Getenv("DEDUP_BOT_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
}

func validate(cfg *Config) error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("telegram_token is required")
	}
	if !summaryTimeRegex.MatchString(cfg.SummaryTime) {
		return fmt.Errorf("summary_time must be in HH:MM format (00:00-23:59), got %q", cfg.SummaryTime)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return nil
}
