// Package terminal renders theme variables as color swatches and settings as
// tables.
package terminal

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alanyang/promptdeck/internal/port/presenter"
)

var (
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#E0E0E0"})
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Table renders rows under bold headers with the presenter's palette.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(hintStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return keyStyle.Bold(true).Padding(0, 1)
			}
			return keyStyle.Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// Presenter implements port/presenter.Presenter on a writer.
type Presenter struct {
	w io.Writer
	// ShortOnly limits output to the --theme-* shorthands.
	ShortOnly bool
}

func New(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// Apply renders every variable, sorted by name, in a single write.
func (p *Presenter) Apply(_ context.Context, vars map[string]string) error {
	if p.w == nil {
		return presenter.ErrNoDocument
	}

	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		if p.ShortOnly && !strings.HasPrefix(name, "--theme-") {
			continue
		}
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value := vars[name]
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(value)).Render("    ")
		lines = append(lines, fmt.Sprintf("%s %s %s",
			swatch,
			keyStyle.Width(width).Render(name),
			hintStyle.Render(value),
		))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if _, err := io.WriteString(p.w, out+"\n"); err != nil {
		return fmt.Errorf("writing theme variables: %w", err)
	}
	return nil
}
