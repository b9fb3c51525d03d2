package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/db"
	"github.com/mithrel/zenith/internal/editor"
	"github.com/mithrel/zenith/internal/i18n"
	"github.com/mithrel/zenith/internal/present"
	"github.com/mithrel/zenith/internal/present/format"
	"github.com/mithrel/zenith/internal/render"
	"github.com/mithrel/zenith/pkg/api"
)

// newNoteCmd defines the parent "note" command.
// Running "zenith-cli note <title>" without a subcommand adds a note.
func newNoteCmd() *cobra.Command {
	cmd := newNoteAddCmd()
	cmd.Use = "note [title]"
	cmd.Short = "Work with notes (default: add)"

	cmd.AddCommand(newNoteAddCmd())
	cmd.AddCommand(newNoteListCmd())
	cmd.AddCommand(newNoteSearchCmd())
	cmd.AddCommand(newNoteShowCmd())
	cmd.AddCommand(newNoteEditCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	cmd.AddCommand(newNotePreviewCmd())
	cmd.AddCommand(newNoteExportCmd())
	cmd.AddCommand(newNoteTagsCmd())
	return cmd
}

func newNoteAddCmd() *cobra.Command {
	var tags []string
	var message string
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new note; without a title the editor opens",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			note := api.Note{ID: api.NewID(), Tags: tags}

			if len(args) > 0 {
				note.Title = strings.TrimSpace(strings.Join(args, " "))
				if note.Title == "" {
					return fmt.Errorf("empty title")
				}
				note.Content = message
			} else {
				path, err := editor.PathForID(note.ID)
				if err != nil {
					return err
				}
				d, changed, err := editor.Edit(cmd.Context(), path, editor.Draft{Tags: tags, Body: message})
				_ = os.Remove(path)
				if err != nil {
					return err
				}
				if !changed {
					say(cmd, app, "note.unchanged", nil)
					return nil
				}
				note.Title = d.EffectiveTitle()
				if note.Title == "" {
					say(cmd, app, "note.aborted", nil)
					return nil
				}
				note.Tags, note.Content = d.Tags, d.Body
			}
			if len(note.Tags) == 0 {
				note.Tags = app.Cfg.GetStringSlice("default_tags")
			}
			now := app.Clock.Now().UTC()
			note.CreatedAt, note.UpdatedAt = now, now

			created, err := app.Store.Notes.CreateNote(cmd.Context(), note)
			if err != nil {
				return err
			}
			app.Log.Debug("note created", "id", created.ID, "hash", created.Hash())
			say(cmd, app, "note.created", map[string]any{"id": created.ID})
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags (comma-separated or repeated)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "note content for one-liner add")
	return cmd
}

func newNoteListCmd() *cobra.Command {
	var tags []string
	var limit int
	var search, outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, app, outputMode, "tui", noHeaders)
			if err != nil {
				return err
			}
			notes, err := app.Store.Notes.ListNotes(cmd.Context(), api.NoteQuery{TagsAny: tags, Text: search, Limit: limit})
			if err != nil {
				return err
			}
			if opts.Mode == present.ModeTUI {
				return present.RenderNotes(cmd.Context(), cmd.OutOrStdout(), notes, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderNotes(cmd.Context(), w, notes, opts)
			})
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only notes carrying any of these tags")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of notes (0 lists all)")
	cmd.Flags().StringVar(&search, "search", "", "only notes whose title or content contains this text")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputFlag(cmd, &outputMode, "plain", "json", "ndjson", "tui")
	_ = cmd.RegisterFlagCompletionFunc("tag", completeTags)
	return cmd
}

func newNoteShowCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display a note",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			n, err := resolveNote(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			opts, err := outputOptions(cmd, app, outputMode, "pretty", false)
			if err != nil {
				return err
			}
			return present.RenderNote(cmd.OutOrStdout(), n, opts)
		},
	}
	registerOutputFlag(cmd, &outputMode, "plain", "pretty", "json")
	return cmd
}

func newNoteEditCmd() *cobra.Command {
	var keepTmp bool
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Edit an existing note in $VISUAL or $EDITOR",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			cur, err := resolveNote(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			path, err := editor.PathForID(cur.ID)
			if err != nil {
				return err
			}
			d, changed, err := editor.Edit(cmd.Context(), path, editor.Draft{Title: cur.Title, Tags: cur.Tags, Body: cur.Content})
			if !keepTmp {
				_ = os.Remove(path)
			}
			if err != nil {
				return err
			}

			title := d.EffectiveTitle()
			if title == "" {
				if app.Cfg.GetBool("editor.delete_empty") {
					if err := app.Store.Notes.DeleteNote(cmd.Context(), cur.ID); err != nil {
						return err
					}
					say(cmd, app, "note.deleted", map[string]any{"id": cur.ID})
					return nil
				}
				return fmt.Errorf("edit aborted: empty content")
			}

			next := cur
			next.Title, next.Tags, next.Content = title, d.Tags, d.Body
			if !changed || next.Hash() == cur.Hash() {
				say(cmd, app, "note.unchanged", nil)
				return nil
			}
			next.UpdatedAt = app.Clock.Now().UTC()
			saved, err := app.Store.Notes.UpdateNoteCAS(cmd.Context(), next, cur.Version)
			if errors.Is(err, db.ErrConflict) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Conflict: note has changed since you opened it.")
				return err
			}
			if err != nil {
				return err
			}
			say(cmd, app, "note.saved", map[string]any{"id": saved.ID})
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepTmp, "keep-tmp", false, "keep temporary editor file after save")
	return cmd
}

// deletePrompt returns the confirmation title and description for notes.
func deletePrompt(tr *i18n.Translator, notes []api.Note) (string, string) {
	desc := tr.T("note.confirmDeleteDesc", nil)
	if len(notes) == 1 {
		return tr.T("note.confirmDelete", map[string]any{"title": notes[0].Title}), desc
	}
	return tr.T("note.confirmDeleteMany", map[string]any{"count": len(notes)}), desc
}

func newNoteDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <id>...",
		Short:             "Delete notes",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			notes := make([]api.Note, 0, len(args))
			for _, ref := range args {
				n, err := resolveNote(cmd.Context(), app, ref)
				if err != nil {
					return err
				}
				notes = append(notes, n)
			}
			title, desc := deletePrompt(app.I18n, notes)
			if err := confirmDelete(cmd.InOrStdin(), title, desc, yes); err != nil {
				return err
			}
			// all or nothing when several notes are named
			err := app.Store.Atomic(cmd.Context(), func(ctx context.Context) error {
				for _, n := range notes {
					if err := app.Store.Notes.DeleteNote(ctx, n.ID); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			for _, n := range notes {
				say(cmd, app, "note.deleted", map[string]any{"id": n.ID})
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newNotePreviewCmd() *cobra.Command {
	var outFormat string
	cmd := &cobra.Command{
		Use:               "preview <id>",
		Short:             "Render a note's content as HTML or for the terminal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			n, err := resolveNote(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			switch outFormat {
			case "html":
				_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Markdown(n.Content))
				return err
			case "pretty":
				out, err := format.RenderPretty(n.Content, format.PrettyStyle(isTTY(cmd.OutOrStdout())))
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			default:
				return fmt.Errorf("invalid --format: %s (want html or pretty)", outFormat)
			}
		},
	}
	cmd.Flags().StringVar(&outFormat, "format", "html", "preview format: html|pretty")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "pretty"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newNoteExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:               "export <id>",
		Short:             "Export a note as a standalone HTML page",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			n, err := resolveNote(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fragment := render.Markdown(n.Content)
			if app.Cfg.GetBool("render.sanitize") {
				fragment = render.NewSanitizer().Sanitize(fragment)
			}
			doc, err := render.Document(fragment, render.DocumentOptions{
				Title: n.Title,
				Lang:  app.I18n.Locale(),
				Dir:   app.I18n.Dir(),
			})
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return err
			}
			say(cmd, app, "note.exported", map[string]any{"path": out})
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newNoteTagsCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with the number of notes using them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			tags, err := app.Store.Notes.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			if outputMode == "json" {
				return format.WriteJSON(cmd.OutOrStdout(), tags, false)
			}
			for _, t := range tags {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Tag, t.Count)
			}
			return nil
		},
	}
	registerOutputFlag(cmd, &outputMode, "plain", "json")
	return cmd
}
