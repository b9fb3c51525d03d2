package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/pkg/api"
)

func newNoteSearchCmd() *cobra.Command {
	var tags []string
	var limit int
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find notes whose title or content contains query (case-insensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			q := strings.TrimSpace(strings.Join(args, " "))
			if q == "" {
				return fmt.Errorf("empty query")
			}
			opts, err := outputOptions(cmd, app, outputMode, "plain", noHeaders)
			if err != nil {
				return err
			}
			if opts.Mode == present.ModeTUI || opts.Mode == present.ModeBoard {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			notes, err := app.Store.Notes.ListNotes(cmd.Context(), api.NoteQuery{TagsAny: tags, Text: q, Limit: limit})
			if err != nil {
				return err
			}
			app.Log.Debug("note search", "query", q, "matches", len(notes))
			if len(notes) == 0 && opts.Mode == present.ModePlain {
				say(cmd, app, "note.noMatches", map[string]any{"query": q})
				return nil
			}
			return present.RenderNotes(cmd.Context(), cmd.OutOrStdout(), notes, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only notes carrying any of these tags")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches (0 shows all)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputFlag(cmd, &outputMode, "plain", "json", "ndjson")
	_ = cmd.RegisterFlagCompletionFunc("tag", completeTags)
	return cmd
}
