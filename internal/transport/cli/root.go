// Package cli implements promptctl, a command line front end over the same
// stores the server uses.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alanyang/promptdeck/internal/config"
	"github.com/alanyang/promptdeck/internal/wire"
)

// Loader opens the application core for the given config file path.
type Loader func(ctx context.Context, configPath string) (*wire.Core, error)

// DefaultLoader reads the configuration and builds the core from it.
func DefaultLoader(ctx context.Context, configPath string) (*wire.Core, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return wire.BuildCore(ctx, cfg)
}

type app struct {
	load       Loader
	configPath string
	logLevel   string
	core       *wire.Core
}

// NewRootCmd builds the promptctl command tree. The returned finish function
// writes pending changes and releases storage; call it once Execute returns.
// Stores the command did not change are not rewritten.
func NewRootCmd(load Loader) (*cobra.Command, func(ctx context.Context) error) {
	a := &app{load: load}

	root := &cobra.Command{
		Use:   "promptctl",
		Short: "Inspect and edit the prompt configuration, templates and themes",
		Long: `promptctl edits the same settings as the promptdeck server.

Changes are saved before the command exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: a.open,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the TOML config file (default $PROMPTDECK_CONFIG)")
	root.PersistentFlags().StringVar(&a.logLevel, "log", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newPromptCmd(a), newThemeCmd(a), newTemplatesCmd(a))
	return root, a.finish
}

// Execute runs promptctl with args and always writes pending changes before
// returning, even when the command failed.
func Execute(ctx context.Context, load Loader, args []string) error {
	root, finish := NewRootCmd(load)
	root.SetArgs(args)
	runErr := root.ExecuteContext(ctx)
	return errors.Join(runErr, finish(ctx))
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	level := config.Config{LogLevel: a.logLevel}.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	core, err := a.load(cmd.Context(), a.configPath)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	a.core = core
	return nil
}

func (a *app) finish(ctx context.Context) error {
	if a.core == nil {
		return nil
	}
	defer func() {
		a.core.Close()
		a.core = nil
	}()
	if err := a.core.Flush(ctx); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
