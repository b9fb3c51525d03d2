package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/internal/present/format"
	"github.com/mithrel/zenith/internal/wire"
	"github.com/mithrel/zenith/pkg/api"
)

const defaultPager = "less -FRSX"

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputOptions resolves --output; an empty value picks tty for terminals
// and plain otherwise.
func outputOptions(cmd *cobra.Command, app *wire.App, mode, tty string, noHeaders bool) (present.Options, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = "plain"
		if isTTY(cmd.OutOrStdout()) {
			mode = tty
		}
	}
	m, ok := present.ParseMode(mode)
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", mode)
	}
	return present.Options{
		Mode:    m,
		Headers: !noHeaders,
		Style:   format.PrettyStyle(isTTY(cmd.OutOrStdout())),
		StatusTitles: map[api.TaskStatus]string{
			api.StatusTodo:       app.I18n.T("status.todo", nil),
			api.StatusInProgress: app.I18n.T("status.inProgress", nil),
			api.StatusDone:       app.I18n.T("status.done", nil),
		},
	}, nil
}

func registerOutputFlag(cmd *cobra.Command, target *string, modes ...string) {
	cmd.Flags().StringVar(target, "output", "", "output mode: "+strings.Join(modes, "|"))
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
}

// withPager pipes long output through $PAGER when writing to a terminal.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}

func say(cmd *cobra.Command, app *wire.App, key string, repl map[string]any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.I18n.T(key, repl))
}
