package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/internal/present/format"
	"github.com/mithrel/zenith/internal/stats"
	"github.com/mithrel/zenith/internal/util"
	"github.com/mithrel/zenith/internal/wire"
	"github.com/mithrel/zenith/pkg/api"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track daily habits",
	}
	cmd.AddCommand(newHabitAddCmd())
	cmd.AddCommand(newHabitListCmd())
	cmd.AddCommand(newHabitMarkCmd("done", "Mark a habit done for a day", true))
	cmd.AddCommand(newHabitMarkCmd("undo", "Clear a habit for a day", false))
	cmd.AddCommand(newHabitStatsCmd())
	cmd.AddCommand(newHabitCalendarCmd())
	cmd.AddCommand(newHabitDeleteCmd())
	return cmd
}

// summarize computes the aggregates shown for a habit as of today.
func summarize(app *wire.App, h api.Habit, today time.Time) format.HabitSummary {
	if bad := stats.Invalid(h.Completions); len(bad) > 0 {
		app.Log.Warn("ignoring malformed completion dates", "habit", h.Name, "keys", bad)
	}
	p := stats.GoalProgress(h.Completions, today, h.Goal)
	return format.HabitSummary{
		ID:      h.ID,
		Name:    h.Name,
		Goal:    h.Goal,
		Streak:  stats.CurrentStreak(h.Completions, today),
		Month:   p.Done,
		Total:   stats.TotalCount(h.Completions),
		Percent: p.Percent,
	}
}

func newHabitAddCmd() *cobra.Command {
	var goal int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if !cmd.Flags().Changed("goal") {
				goal = app.Cfg.GetInt("habits.default_goal")
			}
			name := strings.TrimSpace(strings.Join(args, " "))
			if _, err := resolveHabit(cmd.Context(), app, name); err == nil {
				return fmt.Errorf("habit %q already exists", name)
			}
			h, err := app.Store.Habits.CreateHabit(cmd.Context(), api.Habit{
				ID:        api.NewID(),
				Name:      name,
				Goal:      goal,
				CreatedAt: app.Clock.Now().UTC(),
			})
			if err != nil {
				return err
			}
			say(cmd, app, "habit.created", map[string]any{"name": h.Name})
			return nil
		},
	}
	cmd.Flags().IntVar(&goal, "goal", 0, "days per month to aim for (default habits.default_goal)")
	return cmd
}

func newHabitListCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks and monthly progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, app, outputMode, "plain", noHeaders)
			if err != nil {
				return err
			}
			habits, err := app.Store.Habits.ListHabits(cmd.Context())
			if err != nil {
				return err
			}
			if len(habits) == 0 && opts.Mode == present.ModePlain {
				say(cmd, app, "habit.empty", nil)
				return nil
			}
			today := app.Clock.Now()
			rows := make([]format.HabitSummary, 0, len(habits))
			for _, h := range habits {
				rows = append(rows, summarize(app, h, today))
			}
			return present.RenderHabits(cmd.OutOrStdout(), rows, opts)
		},
	}
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputFlag(cmd, &outputMode, "plain", "json", "ndjson")
	return cmd
}

func newHabitMarkCmd(use, short string, done bool) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:               use + " <habit>",
		Short:             short,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHabits,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			day, err := util.ParseDay(date, app.Clock.Now())
			if err != nil {
				return err
			}
			h, err := resolveHabit(cmd.Context(), app, strings.Join(args, " "))
			if err != nil {
				return err
			}
			h, err = app.Store.Habits.SetCompletion(cmd.Context(), h.ID, day, done)
			if err != nil {
				return err
			}
			key := "habit.undone"
			if done {
				key = "habit.done"
			}
			say(cmd, app, key, map[string]any{"name": h.Name, "date": day})
			if done {
				streak := stats.CurrentStreak(h.Completions, app.Clock.Now())
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", app.I18n.T("habit.currentStreak", nil), streak)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to mark (YYYY-MM-DD, today, yesterday, Nd)")
	return cmd
}

type habitStats struct {
	format.HabitSummary
	MonthKey string            `json:"month_key"`
	Series   []stats.DayBucket `json:"series"`
}

func newHabitStatsCmd() *cobra.Command {
	var month, outputMode string
	cmd := &cobra.Command{
		Use:               "stats <habit>",
		Short:             "Show streak, totals and the daily series for a month",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHabits,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			now := app.Clock.Now()
			m, err := util.ParseMonth(month, now)
			if err != nil {
				return err
			}
			h, err := resolveHabit(cmd.Context(), app, strings.Join(args, " "))
			if err != nil {
				return err
			}
			sum := summarize(app, h, now)
			// month-scoped figures follow --month, the streak stays anchored on today
			p := stats.GoalProgress(h.Completions, m, h.Goal)
			sum.Month, sum.Percent = p.Done, p.Percent
			series := stats.CompletionSeries(h.Completions, m)

			if outputMode == "json" {
				return format.WriteJSON(cmd.OutOrStdout(), habitStats{sum, m.Format("2006-01"), series}, false)
			}
			w := cmd.OutOrStdout()
			tr := app.I18n
			_, _ = fmt.Fprintf(w, "%s (%s)\n", h.Name, m.Format("2006-01"))
			_, _ = fmt.Fprintf(w, "%s: %d\n", tr.T("habit.currentStreak", nil), sum.Streak)
			_, _ = fmt.Fprintf(w, "%s: %d\n", tr.T("habit.thisMonth", nil), sum.Month)
			_, _ = fmt.Fprintf(w, "%s: %d\n", tr.T("habit.total", nil), sum.Total)
			if h.Goal > 0 {
				_, _ = fmt.Fprintf(w, "%s: %s\n", tr.T("habit.goal", nil), tr.T("habit.progress", map[string]any{
					"done": p.Done, "goal": p.Goal, "percent": fmt.Sprintf("%.0f", p.Percent),
				}))
			}
			_, _ = fmt.Fprintln(w)
			return format.WriteSeries(w, series, func(b stats.DayBucket) int { return b.Count }, 1)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, this, last)")
	registerOutputFlag(cmd, &outputMode, "plain", "json")
	return cmd
}

func newHabitCalendarCmd() *cobra.Command {
	var month, weekStart string
	cmd := &cobra.Command{
		Use:               "calendar <habit>",
		Short:             "Show a month calendar with completed days marked",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHabits,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			now := app.Clock.Now()
			m, err := util.ParseMonth(month, now)
			if err != nil {
				return err
			}
			if weekStart == "" {
				weekStart = app.Cfg.GetString("week_start")
			}
			ws, ok := stats.ParseWeekday(weekStart)
			if !ok {
				return fmt.Errorf("invalid week start: %s", weekStart)
			}
			h, err := resolveHabit(cmd.Context(), app, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return format.WriteCalendar(cmd.OutOrStdout(), format.CalendarView{
				Title:     fmt.Sprintf("%s %s", h.Name, m.Format("2006-01")),
				Month:     m,
				WeekStart: ws,
				Done:      h.Completions,
				Today:     stats.Key(now),
				Weekdays:  strings.Fields(app.I18n.T("calendar.weekdays", nil)),
				Styled:    isTTY(cmd.OutOrStdout()),
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM, this, last)")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "first weekday (default week_start)")
	return cmd
}

func newHabitDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <habit>",
		Short:             "Stop tracking a habit and drop its history",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHabits,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			h, err := resolveHabit(cmd.Context(), app, strings.Join(args, " "))
			if err != nil {
				return err
			}
			title := app.I18n.T("habit.confirmDelete", map[string]any{"name": h.Name})
			desc := app.I18n.T("habit.completions", map[string]any{"count": stats.TotalCount(h.Completions)})
			if err := confirmDelete(cmd.InOrStdin(), title, desc, yes); err != nil {
				return err
			}
			if err := app.Store.Habits.DeleteHabit(cmd.Context(), h.ID); err != nil {
				return err
			}
			say(cmd, app, "habit.deleted", map[string]any{"name": h.Name})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
