package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanyang/promptdeck/internal/adapter/terminal"
	"github.com/alanyang/promptdeck/internal/domain/prompt"
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
)

func newPromptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Show the composed prompt and manage roles",
	}

	var (
		enhanced bool
		cwd      string
	)
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the composed system prompt",
		Long: `Print the system prompt composed from the current configuration.

With --enhanced the selected legacy template is used as the base block
when the system prompt is the default one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.core.Prompts.Snapshot()
			if !enhanced {
				fmt.Fprintln(cmd.OutOrStdout(), a.core.Composer.Compose(cfg))
				return nil
			}
			rc := domaintemplate.DefaultRenderContext()
			if cwd != "" {
				rc.WorkingDirectory = cwd
			}
			text, err := a.core.Composer.ComposeEnhanced(cfg, rc)
			if err != nil {
				cmd.PrintErrf("warning: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	show.Flags().BoolVar(&enhanced, "enhanced", false, "Use the selected legacy template as the base")
	show.Flags().StringVar(&cwd, "cwd", "", "Working directory substituted into the template")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print a one-line summary of the active customizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.core.Composer.Summary(a.core.Prompts.Snapshot()))
			return nil
		},
	}

	roles := &cobra.Command{
		Use:   "roles",
		Short: "List the configured roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows [][]string
			for _, r := range a.core.Prompts.Snapshot().Roles {
				rows = append(rows, []string{r.ID, onOff(r.Enabled), strings.TrimSpace(r.Avatar + " " + r.Name)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), terminal.Table([]string{"ID", "ENABLED", "NAME"}, rows))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "role-toggle <id> <on|off>",
		Short: "Enable or disable a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			r, err := a.core.Prompts.UpdateRole(cmd.Context(), args[0], prompt.RolePatch{Enabled: &enabled})
			if errors.Is(err, promptsvc.ErrNotFound) {
				return fmt.Errorf("unknown role %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "role %s %s\n", r.ID, onOff(r.Enabled))
			return nil
		},
	}

	cmd.AddCommand(show, summary, roles, toggle)
	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "enable", "enabled":
		return true, nil
	case "off", "false", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
