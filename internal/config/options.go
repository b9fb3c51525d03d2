package config

import (
	"os"
	"path/filepath"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns every configuration key with its default and meaning.
// It is the single source of truth for Viper defaults and the TOML generator.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/zenith.db"},
		{Key: "locale", Default: "en", Comment: "Interface language (en, ar)"},
		{Key: "week_start", Default: "sunday", Comment: "First day of the week in calendar views"},
		{Key: "default_tags", Default: []string{}, Comment: "Tags applied when creating a note without explicit tags"},

		{Key: "log.level", Default: "warn", Comment: "Log level: debug, info, warn, error"},
		{Key: "render.sanitize", Default: true, Comment: "Run exported HTML through the allow-list sanitizer"},

		{Key: "pomodoro.work", Default: 25, Comment: "Work phase length in minutes"},
		{Key: "pomodoro.short_break", Default: 5, Comment: "Short break length in minutes"},
		{Key: "pomodoro.long_break", Default: 15, Comment: "Long break length in minutes"},
		{Key: "pomodoro.long_break_every", Default: 4, Comment: "Completed work phases between long breaks"},
		{Key: "pomodoro.notify", Default: true, Comment: "Ring the terminal bell when a phase ends"},

		{Key: "habits.default_goal", Default: 20, Comment: "Monthly goal (days) for habits created without --goal"},
		{Key: "editor.delete_empty", Default: true, Comment: "Delete note if editor exits with no content"},
	}
}

// defaultDataDir resolves $XDG_DATA_HOME/zenith or ~/.local/share/zenith.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "zenith")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "zenith")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "zenith", "config.toml")
}
