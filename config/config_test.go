package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram_token: "test-token"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Timezone != "Asia/Yangon" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Asia/Yangon")
	}
	if cfg.SummaryTime != "21:00" {
		t.Errorf("SummaryTime = %q, want %q", cfg.SummaryTime, "21:00")
	}
	if cfg.DBPath != "./dedupbot.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./dedupbot.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.HistoryFile != "" {
		t.Errorf("HistoryFile = %q, want empty", cfg.HistoryFile)
	}
}

func TestLoadOverrideDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram_token: "test-token"
timezone: "America/New_York"
summary_time: "08:30"
db_path: "/data/bot.db"
history_file: "/data/history.txt"
log_level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TelegramToken != "test-token" {
		t.Errorf("TelegramToken = %q, want %q", cfg.TelegramToken, "test-token")
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "America/New_York")
	}
	if cfg.SummaryTime != "08:30" {
		t.Errorf("SummaryTime = %q, want %q", cfg.SummaryTime, "08:30")
	}
	if cfg.DBPath != "/data/bot.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/data/bot.db")
	}
	if cfg.HistoryFile != "/data/history.txt" {
		t.Errorf("HistoryFile = %q, want %q", cfg.HistoryFile, "/data/history.txt")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadMissingToken(t *testing.T) {
	path := writeConfig(t, `
timezone: "UTC"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing telegram_token")
	}
	if !strings.Contains(err.Error(), "telegram_token") {
		t.Errorf("error = %v, want mention of telegram_token", err)
	}
}

func TestLoadInvalidSummaryTime(t *testing.T) {
	for _, bad := range []string{"25:00", "9:00", "12:60", "noon"} {
		path := writeConfig(t, "telegram_token: t\nsummary_time: \""+bad+"\"\n")
		if _, err := Load(path); err == nil {
			t.Errorf("summary_time %q should fail validation", bad)
		}
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	path := writeConfig(t, `
telegram_token: "test-token"
timezone: "Not/AZone"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram_token: "file-token"
`)

	t.Setenv("DEDUP_BOT_TOKEN", "env-token")
	t.Setenv("DEDUP_BOT_DB", "/env/bot.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TelegramToken != "env-token" {
		t.Errorf("TelegramToken = %q, want env override", cfg.TelegramToken)
	}
	if cfg.DBPath != "/env/bot.db" {
		t.Errorf("DBPath = %q, want env override", cfg.DBPath)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("DEDUP_BOT_CONFIG", "")
	if got := GetConfigPath(); got != "./config.yaml" {
		t.Errorf("GetConfigPath = %q, want default", got)
	}
	t.Setenv("DEDUP_BOT_CONFIG", "/etc/dedupbot/config.yaml")
	if got := GetConfigPath(); got != "/etc/dedupbot/config.yaml" {
		t.Errorf("GetConfigPath = %q, want env value", got)
	}
}
