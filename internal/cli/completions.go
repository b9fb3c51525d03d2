package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/util"
	"github.com/mithrel/zenith/internal/wire"
	"github.com/mithrel/zenith/pkg/api"
)

const maxCompletions = 20

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           map[string]string{noApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// withCompletionApp hands fn the app from the command context, building a
// short-lived one when the completion runs outside the normal pre-run.
func withCompletionApp(cmd *cobra.Command, fn func(ctx context.Context, app *wire.App) []string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	if app, ok := ctx.Value(appKey).(*wire.App); ok {
		return fn(ctx, app), cobra.ShellCompDirectiveNoFileComp
	}
	v, err := loadConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	app, err := buildApp(cmd, v)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer func() { _ = app.Close() }()
	return fn(ctx, app), cobra.ShellCompDirectiveNoFileComp
}

func completeNoteIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return withCompletionApp(cmd, func(ctx context.Context, app *wire.App) []string {
		notes, err := app.Store.Notes.ListNotes(ctx, api.NoteQuery{})
		if err != nil {
			return nil
		}
		cands := make([]util.Candidate, len(notes))
		for i, n := range notes {
			cands[i] = util.Candidate{Value: n.ID, Desc: n.Title}
		}
		return util.ScoreCandidates(toComplete, cands, maxCompletions)
	})
}

func completeTaskIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return taskIDCandidates(cmd, toComplete)
}

// completeTaskMove completes the task id first, then the target status.
func completeTaskMove(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return taskIDCandidates(cmd, toComplete)
	case 1:
		return completeStatuses(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func taskIDCandidates(cmd *cobra.Command, toComplete string) ([]string, cobra.ShellCompDirective) {
	return withCompletionApp(cmd, func(ctx context.Context, app *wire.App) []string {
		tasks, err := app.Store.Tasks.ListTasks(ctx, "")
		if err != nil {
			return nil
		}
		cands := make([]util.Candidate, len(tasks))
		for i, t := range tasks {
			cands[i] = util.Candidate{Value: t.ID, Desc: fmt.Sprintf("[%s] %s", t.Status, t.Title)}
		}
		return util.ScoreCandidates(toComplete, cands, maxCompletions)
	})
}

func completeHabits(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return withCompletionApp(cmd, func(ctx context.Context, app *wire.App) []string {
		habits, err := app.Store.Habits.ListHabits(ctx)
		if err != nil {
			return nil
		}
		names := make([]string, len(habits))
		for i, h := range habits {
			names[i] = h.Name
		}
		return util.ScoreCompletions(toComplete, names, maxCompletions)
	})
}

// completeTags completes comma-separated tag lists one element at a time.
func completeTags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	return withCompletionApp(cmd, func(ctx context.Context, app *wire.App) []string {
		stats, err := app.Store.Notes.ListTags(ctx)
		if err != nil {
			return nil
		}
		cands := make([]util.Candidate, len(stats))
		for i, s := range stats {
			cands[i] = util.Candidate{Value: prefix + s.Tag, Desc: fmt.Sprintf("%d notes", s.Count)}
		}
		return util.ScoreCandidates(toComplete, cands, maxCompletions)
	})
}
