package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/zenith/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

// writeMode says what generate does when the target already exists.
type writeMode int

const (
	writeNew writeMode = iota
	writeOverwrite
	writeUpdate
)

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite, update bool
	cmd := &cobra.Command{
		Use:         "generate",
		Short:       "Write a commented default config.toml",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return errors.New("choose either --overwrite or --update")
			}
			if out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.RenderDefaultTOML())
				return err
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			mode := writeNew
			switch {
			case overwrite:
				mode = writeOverwrite
			case update:
				mode = writeUpdate
			}
			return generateConfig(cmd, out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml (- for stdout)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config (keeps a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "add new options to an existing config (keeps a backup)")
	return cmd
}

func generateConfig(cmd *cobra.Command, path string, mode writeMode) error {
	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	content := config.RenderDefaultTOML()
	switch {
	case exists && mode == writeNew:
		return fmt.Errorf("config already exists at %s; use --update to add new options or --overwrite to replace it", path)
	case exists && mode == writeUpdate:
		updated, changed := config.UpdateTOML(string(existing))
		if !changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already up to date: %s\n", path)
			return nil
		}
		content = updated
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if exists {
		backup, err := backupConfig(path, existing, time.Now())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", backup)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// backupConfig saves data next to path as .bak, or a timestamped .bak
// when one is already there.
func backupConfig(path string, data []byte, now time.Time) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.bak-%s", path, now.Format("20060102-150405"))
	}
	return backup, os.WriteFile(backup, data, 0o600)
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Validate the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getConfig(cmd)
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			src := v.ConfigFileUsed()
			if src == "" {
				src = "defaults"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK (%s)\n", src)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Show where config and data live",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getConfig(cmd)
			cfg := v.ConfigFileUsed()
			if cfg == "" {
				cfg = config.DefaultConfigPath() + " (not present)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config\t%s\ndatabase\t%s\n", cfg, config.ResolveDBPath(v))
			return nil
		},
	}
}
