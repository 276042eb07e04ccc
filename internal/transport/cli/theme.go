package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alanyang/promptdeck/internal/adapter/terminal"
	domaintheme "github.com/alanyang/promptdeck/internal/domain/theme"
)

func newThemeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "List, select, create and preview themes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom themes; * marks the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := a.core.Themes.Current().ID
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range a.core.Themes.All() {
				mark := " "
				if t.ID == current {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s %s\t%s\t%s\n", mark, t.ID, t.Name, t.Colors.Primary)
			}
			return tw.Flush()
		},
	}

	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Select the current theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.core.Themes.SetTheme(args[0]) {
				return fmt.Errorf("unknown theme %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "current theme: %s\n", a.core.Themes.Current().Name)
			return nil
		},
	}

	var (
		primary, background, name string
		selectIt                  bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a custom theme from a primary and a background color",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := domaintheme.ValidateHex("primary", primary); err != nil {
				return err
			}
			if err := domaintheme.ValidateHex("background", background); err != nil {
				return err
			}
			d := domaintheme.GenerateFromColors(primary, background)
			if name != "" {
				d.Name = name
			}
			if err := d.Validate(); err != nil {
				return err
			}

			t := a.core.Themes.CreateCustomTheme(d)
			if selectIt {
				a.core.Themes.SetTheme(t.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	create.Flags().StringVar(&primary, "primary", "", "Primary color (#RRGGBB or #RGB)")
	create.Flags().StringVar(&background, "background", "", "Background color (#RRGGBB or #RGB)")
	create.Flags().StringVar(&name, "name", "", "Theme name")
	create.Flags().BoolVar(&selectIt, "select", false, "Make the new theme current")
	_ = create.MarkFlagRequired("primary")
	_ = create.MarkFlagRequired("background")

	var short bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Render the current theme's variables as color swatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", a.core.Themes.Current().Name, a.core.Themes.Current().ID)
			p := terminal.New(cmd.OutOrStdout())
			p.ShortOnly = short
			return a.core.Themes.Apply(cmd.Context(), p)
		},
	}
	show.Flags().BoolVar(&short, "short", false, "Only show the --theme-* shorthands")

	cmd.AddCommand(list, set, create, show)
	return cmd
}
