package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/zenith/internal/i18n"
	"github.com/mithrel/zenith/internal/stats"
)

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
// A missing config file is not an error; a malformed one is.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "zenith"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "zenith"))
		}
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// ZENITH_POMODORO_WORK overrides pomodoro.work and so on.
	v.SetEnvPrefix("zenith")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for default_tags
	if s := strings.TrimSpace(os.Getenv("ZENITH_DEFAULT_TAGS")); s != "" {
		v.Set("default_tags", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "zenith.db")
}

var ErrInvalidConfig = errors.New("invalid config")

// CheckConfigValidity reports every problem found in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		bad("data_dir is required")
	}
	if loc := v.GetString("locale"); !supportedLocale(loc) {
		bad("locale %q is not one of %s", loc, strings.Join(i18n.Locales(), ", "))
	}
	if _, ok := stats.ParseWeekday(v.GetString("week_start")); !ok {
		bad("week_start %q is not a weekday", v.GetString("week_start"))
	}
	switch strings.ToLower(v.GetString("log.level")) {
	case "debug", "info", "warn", "error":
	default:
		bad("log.level %q must be debug, info, warn or error", v.GetString("log.level"))
	}
	for _, k := range []string{"pomodoro.work", "pomodoro.short_break", "pomodoro.long_break", "pomodoro.long_break_every"} {
		if v.GetInt(k) <= 0 {
			bad("%s must be greater than 0", k)
		}
	}
	if v.GetInt("habits.default_goal") < 0 {
		bad("habits.default_goal must not be negative")
	}
	return errors.Join(errs...)
}

func supportedLocale(loc string) bool {
	for _, l := range i18n.Locales() {
		if l == loc {
			return true
		}
	}
	return false
}
