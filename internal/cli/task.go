package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/internal/util"
	"github.com/mithrel/zenith/pkg/api"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task board",
	}
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskEditCmd())
	cmd.AddCommand(newTaskMoveCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

func statusKey(s api.TaskStatus) string {
	switch s {
	case api.StatusInProgress:
		return "status.inProgress"
	case api.StatusDone:
		return "status.done"
	default:
		return "status.todo"
	}
}

func completeStatuses(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"todo", "doing", "done"}, cobra.ShellCompDirectiveNoFileComp
}

func completePriorities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"low", "medium", "high"}, cobra.ShellCompDirectiveNoFileComp
}

func newTaskAddCmd() *cobra.Command {
	var priority, status, due, desc string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			p, ok := api.ParsePriority(priority)
			if !ok {
				return fmt.Errorf("invalid --priority: %s (want low, medium or high)", priority)
			}
			st := api.StatusTodo
			if status != "" {
				if st, ok = api.ParseStatus(status); !ok {
					return fmt.Errorf("invalid --status: %s", status)
				}
			}
			t := api.Task{
				ID:          api.NewID(),
				Title:       strings.TrimSpace(strings.Join(args, " ")),
				Description: desc,
				Priority:    p,
				Status:      st,
				CreatedAt:   app.Clock.Now().UTC(),
			}
			if due != "" {
				d, err := util.ParseDay(due, app.Clock.Now())
				if err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
				t.DueDate = d
			}
			created, err := app.Store.Tasks.CreateTask(cmd.Context(), t)
			if err != nil {
				return err
			}
			say(cmd, app, "task.created", map[string]any{"id": created.ID})
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "low|medium|high")
	cmd.Flags().StringVarP(&status, "status", "s", "", "initial status (default todo)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "longer description")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = cmd.RegisterFlagCompletionFunc("priority", completePriorities)
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var status, outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (board view on a terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var st api.TaskStatus
			if status != "" {
				var ok bool
				if st, ok = api.ParseStatus(status); !ok {
					return fmt.Errorf("invalid --status: %s", status)
				}
			}
			opts, err := outputOptions(cmd, app, outputMode, "board", noHeaders)
			if err != nil {
				return err
			}
			tasks, err := app.Store.Tasks.ListTasks(cmd.Context(), st)
			if err != nil {
				return err
			}
			if len(tasks) == 0 && opts.Mode == present.ModePlain {
				say(cmd, app, "task.empty", nil)
				return nil
			}
			return present.RenderTasks(cmd.OutOrStdout(), tasks, opts)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks with this status")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputFlag(cmd, &outputMode, "plain", "json", "ndjson", "board")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatuses)
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var title, desc, priority, status, due string
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Change a task's fields; only the flags given are applied",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTaskIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			t, err := resolveTask(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				if t.Title = strings.TrimSpace(title); t.Title == "" {
					return fmt.Errorf("empty --title")
				}
			}
			if flags.Changed("description") {
				t.Description = desc
			}
			if flags.Changed("priority") {
				p, ok := api.ParsePriority(priority)
				if !ok {
					return fmt.Errorf("invalid --priority: %s (want low, medium or high)", priority)
				}
				t.Priority = p
			}
			if flags.Changed("status") {
				st, ok := api.ParseStatus(status)
				if !ok {
					return fmt.Errorf("invalid --status: %s", status)
				}
				t.Status = st
			}
			if flags.Changed("due") {
				// an empty value clears the due date
				t.DueDate = ""
				if strings.TrimSpace(due) != "" {
					d, err := util.ParseDay(due, app.Clock.Now())
					if err != nil {
						return fmt.Errorf("invalid --due: %w", err)
					}
					t.DueDate = d
				}
			}
			saved, err := app.Store.Tasks.UpdateTask(cmd.Context(), t)
			if err != nil {
				return err
			}
			app.Log.Debug("task updated", "id", saved.ID, "status", saved.Status)
			say(cmd, app, "task.updated", map[string]any{"id": saved.ID})
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low|medium|high")
	cmd.Flags().StringVarP(&status, "status", "s", "", "todo|doing|done")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, today, tomorrow); empty clears it")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = cmd.RegisterFlagCompletionFunc("priority", completePriorities)
	return cmd
}

func newTaskMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "move <id> <status>",
		Short:             "Move a task to another column",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTaskMove,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			st, ok := api.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("invalid status: %s (want todo, doing or done)", args[1])
			}
			t, err := resolveTask(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			t.Status = st
			if _, err := app.Store.Tasks.UpdateTask(cmd.Context(), t); err != nil {
				return err
			}
			say(cmd, app, "task.moved", map[string]any{"id": t.ID, "status": app.I18n.T(statusKey(st), nil)})
			return nil
		},
	}
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete a task",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTaskIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			t, err := resolveTask(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.Tasks.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			say(cmd, app, "task.deleted", map[string]any{"id": t.ID})
			return nil
		},
	}
	return cmd
}
