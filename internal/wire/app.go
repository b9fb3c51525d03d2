package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/mithrel/zenith/internal/clock"
	"github.com/mithrel/zenith/internal/config"
	"github.com/mithrel/zenith/internal/db"
	"github.com/mithrel/zenith/internal/i18n"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg   *viper.Viper
	Log   *log.Logger
	Store *db.Store
	I18n  *i18n.Translator
	Clock clock.Clock
}

// Options customizes BuildApp; zero values pick the production defaults.
type Options struct {
	Clock     clock.Clock
	LogOutput io.Writer
	// DSN overrides the sqlite database under data_dir.
	DSN string
}

// BuildApp wires dependencies from a loaded configuration.
func BuildApp(ctx context.Context, v *viper.Viper, opts Options) (*App, error) {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{Prefix: "zenith"})
	level, err := log.ParseLevel(strings.ToLower(v.GetString("log.level")))
	if err != nil {
		level = log.WarnLevel
	}
	logger.SetLevel(level)

	tr, err := i18n.New(v.GetString("locale"), logger)
	if err != nil {
		return nil, err
	}

	dsn := opts.DSN
	if dsn == "" {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	store, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "dsn", dsn)

	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &App{
		Cfg:   v,
		Log:   logger,
		Store: store,
		I18n:  tr,
		Clock: clk,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
