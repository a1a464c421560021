// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keranjangkita/keranjang/internal/config"
)

// newConfigCommand creates the `keranjang config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage keranjang configuration",
		Long: `Manage keranjang configuration.

Configuration is stored in:
  - Linux: ~/.config/keranjang/config.cue
  - macOS: ~/Library/Application Support/keranjang/config.cue
  - Windows: %APPDATA%\keranjang\config.cue

Single keys can be overridden with KERANJANG_* environment variables,
e.g. KERANJANG_STORAGE_BACKEND=memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return app.fail(fmt.Errorf("failed to create config: %w", err), config.ColorSchemeAuto)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration and data file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(err, config.ColorSchemeAuto)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(err, config.ColorSchemeAuto)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path := configFilePath(app); path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	value := func(v any) string { return valueStyle.Render(fmt.Sprint(v)) }
	unset := SubtitleStyle.Render("(not set)")
	orUnset := func(s string) string {
		if s == "" {
			return unset
		}
		return value(s)
	}

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("storage"))
	fmt.Fprintf(w, "  backend: %s\n", value(cfg.Storage.Backend))
	fmt.Fprintf(w, "  path: %s\n", orUnset(cfg.Storage.Path))
	if cfg.Storage.DSN != "" {
		fmt.Fprintf(w, "  dsn: %s\n", SubtitleStyle.Render("(set)"))
	} else {
		fmt.Fprintf(w, "  dsn: %s\n", unset)
	}

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("member"))
	fmt.Fprintf(w, "  feed_url: %s\n", orUnset(cfg.Member.FeedURL))
	fmt.Fprintf(w, "  min_name_length: %s\n", value(cfg.Member.MinNameLength))

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("lookup"))
	fmt.Fprintf(w, "  base_url: %s\n", orUnset(cfg.Lookup.BaseURL))
	fmt.Fprintf(w, "  timeout: %s\n", value(cfg.Lookup.Timeout))

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("catalog"))
	fmt.Fprintf(w, "  history_capacity: %s\n", value(cfg.Catalog.HistoryCapacity))

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", value(cfg.UI.ColorScheme))
	fmt.Fprintf(w, "  verbose: %s\n", value(cfg.UI.Verbose))

	return nil
}

// configFilePath mirrors the loader's lookup order: the --config flag, then
// config.cue in the config directory, then config.cue in the working directory.
func configFilePath(app *App) string {
	if app.flags.configPath != "" {
		return app.flags.configPath
	}
	name := config.ConfigFileName + "." + config.ConfigFileExt
	if dir, err := config.ConfigDir(); err == nil {
		if path := filepath.Join(dir, name); fileExistsCheck(path) {
			return path
		}
	}
	if fileExistsCheck(name) {
		return name
	}
	return ""
}

func showConfigPath(ctx context.Context, app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return app.fail(err, config.ColorSchemeAuto)
	}
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(err, config.ColorSchemeAuto)
	}
	storePath, err := config.StorePath(cfg)
	if err != nil {
		return app.fail(err, cfg.UI.ColorScheme)
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(app.stdout, "Store file: %s\n", storePath)
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
