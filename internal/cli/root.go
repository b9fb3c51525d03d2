package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/zenith/internal/clock"
	"github.com/mithrel/zenith/internal/config"
	"github.com/mithrel/zenith/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"
)

// noApp marks commands that only need configuration, not the store.
const noApp = "noapp"

// Execute is the entrypoint: it builds the root cobra.Command
// and calls its Execute() method to run the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zenith-cli",
		Short:         "zenith: focus timer, task board, habit tracker and notebook",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), cfgKey, v)
			if cmd.Annotations[noApp] != "true" {
				app, err := buildApp(cmd, v)
				if err != nil {
					return err
				}
				ctx = context.WithValue(ctx, appKey, app)
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (toml)")
	cmd.PersistentFlags().String("today", "", "treat this date (YYYY-MM-DD) as today")
	cmd.PersistentFlags().String("locale", "", "interface language (overrides config)")

	cmd.AddCommand(newNoteCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newHabitCmd())
	cmd.AddCommand(newFocusCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

// loadConfig resolves configuration from the persistent flags, file and env.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		v.SetConfigFile(p)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, err
	}
	if loc, _ := cmd.Flags().GetString("locale"); loc != "" {
		v.Set("locale", loc)
	}
	return v, nil
}

func buildApp(cmd *cobra.Command, v *viper.Viper) (*wire.App, error) {
	var opts wire.Options
	if s, _ := cmd.Flags().GetString("today"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --today %q: want YYYY-MM-DD", s)
		}
		opts.Clock = clock.Fixed(d.Add(12 * time.Hour))
	}
	opts.LogOutput = cmd.ErrOrStderr()
	return wire.BuildApp(cmd.Context(), v, opts)
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
