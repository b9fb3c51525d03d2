package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/notify"
	"github.com/mithrel/zenith/internal/pomodoro"
	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/internal/present/format"
	"github.com/mithrel/zenith/internal/stats"
	"github.com/mithrel/zenith/internal/ui"
	"github.com/mithrel/zenith/internal/util"
	"github.com/mithrel/zenith/internal/wire"
	"github.com/mithrel/zenith/pkg/api"
)

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "focus",
		Aliases: []string{"pomodoro"},
		Short:   "Run the focus timer and review sessions",
	}
	cmd.AddCommand(newFocusStartCmd())
	cmd.AddCommand(newFocusLogCmd())
	cmd.AddCommand(newFocusStatsCmd())
	cmd.AddCommand(newFocusListCmd())
	return cmd
}

func timerSettings(app *wire.App) (pomodoro.Settings, error) {
	s := pomodoro.Settings{
		Work:           app.Cfg.GetInt("pomodoro.work"),
		ShortBreak:     app.Cfg.GetInt("pomodoro.short_break"),
		LongBreak:      app.Cfg.GetInt("pomodoro.long_break"),
		LongBreakEvery: app.Cfg.GetInt("pomodoro.long_break_every"),
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("pomodoro settings: %w", err)
	}
	return s, nil
}

// monthSessions loads the sessions dated within m's month.
func monthSessions(cmd *cobra.Command, app *wire.App, m time.Time) ([]api.Session, error) {
	start := stats.MonthStart(m)
	end := start.AddDate(0, 1, -1)
	return app.Store.Sessions.ListSessions(cmd.Context(), stats.Key(start), stats.Key(end))
}

// timerOptions assembles the interactive timer from config and today's sessions.
// Bell notifications go to errOut when pomodoro.notify is set.
func timerOptions(ctx context.Context, app *wire.App, errOut io.Writer, mode string, auto bool) (ui.TimerOptions, error) {
	settings, err := timerSettings(app)
	if err != nil {
		return ui.TimerOptions{}, err
	}
	start, err := pomodoro.ParseMode(mode)
	if err != nil {
		return ui.TimerOptions{}, err
	}
	today := app.Clock.Now()
	day := stats.Key(today)
	sessions, err := app.Store.Sessions.ListSessions(ctx, day, day)
	if err != nil {
		return ui.TimerOptions{}, err
	}
	var n notify.Notifier = notify.Nop{}
	if app.Cfg.GetBool("pomodoro.notify") {
		n = &notify.Bell{W: errOut}
	}
	return ui.TimerOptions{
		Settings:  settings,
		Start:     start,
		AutoStart: auto,
		DoneToday: stats.SessionsOn(sessions, today),
		Clock:     app.Clock,
		I18n:      app.I18n,
		Notifier:  n,
		OnSession: func(s api.Session) error {
			saved, err := app.Store.Sessions.AddSession(ctx, s)
			if err != nil {
				return err
			}
			app.Log.Debug("session logged", "id", saved.ID, "date", saved.Date, "minutes", saved.DurationMinutes)
			return nil
		},
	}, nil
}

func newFocusStartCmd() *cobra.Command {
	var mode string
	var auto bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open the interactive focus timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := timerOptions(cmd.Context(), app, cmd.ErrOrStderr(), mode, auto)
			if err != nil {
				return err
			}
			return ui.RunTimer(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "work", "phase to start in: work|short|long")
	cmd.Flags().BoolVar(&auto, "auto", false, "start counting down immediately")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"work", "short", "long"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newFocusLogCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "log [minutes]",
		Short: "Record a finished focus session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			minutes := app.Cfg.GetInt("pomodoro.work")
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("minutes must be a positive integer, got %q", args[0])
				}
				minutes = n
			}
			day, err := util.ParseDay(date, app.Clock.Now())
			if err != nil {
				return err
			}
			s, err := app.Store.Sessions.AddSession(cmd.Context(), api.Session{
				ID:              api.NewID(),
				Date:            day,
				DurationMinutes: minutes,
			})
			if err != nil {
				return err
			}
			say(cmd, app, "pomodoro.logged", map[string]any{"minutes": s.DurationMinutes, "date": s.Date})
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "session day (YYYY-MM-DD, today, yesterday, Nd)")
	return cmd
}

type focusStats struct {
	Month            string            `json:"month"`
	CompletedToday   int               `json:"completed_today"`
	MinutesThisMonth int               `json:"minutes_this_month"`
	Series           []stats.DayBucket `json:"series"`
}

func newFocusStatsCmd() *cobra.Command {
	var month, outputMode string
	var minutes bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show today's sessions and the daily series for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			now := app.Clock.Now()
			m, err := util.ParseMonth(month, now)
			if err != nil {
				return err
			}
			sessions, err := monthSessions(cmd, app, m)
			if err != nil {
				return err
			}
			day := stats.Key(now)
			todays, err := app.Store.Sessions.ListSessions(cmd.Context(), day, day)
			if err != nil {
				return err
			}
			st := focusStats{
				Month:            m.Format("2006-01"),
				CompletedToday:   stats.SessionsOn(todays, now),
				MinutesThisMonth: stats.MinutesIn(sessions, m),
				Series:           stats.SessionSeries(sessions, m),
			}
			if outputMode == "json" {
				return format.WriteJSON(cmd.OutOrStdout(), st, false)
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, app.I18n.T("pomodoro.completedToday", map[string]any{"count": st.CompletedToday}))
			_, _ = fmt.Fprintln(w, app.I18n.T("pomodoro.minutesThisMonth", map[string]any{"count": st.MinutesThisMonth}))
			_, _ = fmt.Fprintln(w)
			value := func(b stats.DayBucket) int { return b.Count }
			if minutes {
				value = func(b stats.DayBucket) int { return b.Minutes }
			}
			return format.WriteSeries(w, st.Series, value, 20)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, this, last)")
	cmd.Flags().BoolVar(&minutes, "minutes", false, "chart minutes instead of session counts")
	registerOutputFlag(cmd, &outputMode, "plain", "json")
	return cmd
}

func newFocusListCmd() *cobra.Command {
	var month, outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged sessions for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			m, err := util.ParseMonth(month, app.Clock.Now())
			if err != nil {
				return err
			}
			opts, err := outputOptions(cmd, app, outputMode, "plain", noHeaders)
			if err != nil {
				return err
			}
			sessions, err := monthSessions(cmd, app, m)
			if err != nil {
				return err
			}
			return present.RenderSessions(cmd.OutOrStdout(), sessions, opts)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to list (YYYY-MM, this, last)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputFlag(cmd, &outputMode, "plain", "json", "ndjson")
	return cmd
}
