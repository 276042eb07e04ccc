package theme

import "strings"

const (
	accentDefault  = "#06B6D4"
	successDefault = "#10B981"
	warningDefault = "#F59E0B"
	errorDefault   = "#EF4444"
)

// Builtins returns the built-in themes. The first one is the fallback
// whenever the current theme cannot be resolved.
func Builtins() []Theme {
	themes := []Theme{
		{
			ID:   "dark-default",
			Name: "Sombre (Défaut)",
			Colors: Colors{
				Primary: "#8B5CF6", Secondary: "#A78BFA", Accent: "#06B6D4",
				Background: "#0F0F0F", Surface: "#1A1A1A",
				Text: "#FFFFFF", TextSecondary: "#9CA3AF", Border: "#374151",
				Success: successDefault, Warning: warningDefault, Error: errorDefault,
			},
			CSSVariables: elementVariables("#1A1A1A", "#262626", "#333333", "#404040", "#FFFFFF", "#9CA3AF", "#374151", "#8B5CF6", "#7C3AED"),
		},
		{
			ID:   "dark-blue",
			Name: "Bleu Nuit",
			Colors: Colors{
				Primary: "#3B82F6", Secondary: "#60A5FA", Accent: "#06B6D4",
				Background: "#0C1629", Surface: "#1E293B",
				Text: "#F1F5F9", TextSecondary: "#94A3B8", Border: "#334155",
				Success: successDefault, Warning: warningDefault, Error: errorDefault,
			},
			CSSVariables: elementVariables("#1E293B", "#334155", "#475569", "#64748B", "#F1F5F9", "#94A3B8", "#334155", "#3B82F6", "#2563EB"),
		},
		{
			ID:   "dark-green",
			Name: "Vert Émeraude",
			Colors: Colors{
				Primary: "#10B981", Secondary: "#34D399", Accent: "#06B6D4",
				Background: "#0C1F1C", Surface: "#1F2937",
				Text: "#ECFDF5", TextSecondary: "#9CA3AF", Border: "#374151",
				Success: successDefault, Warning: warningDefault, Error: errorDefault,
			},
			CSSVariables: elementVariables("#1F2937", "#374151", "#4B5563", "#6B7280", "#ECFDF5", "#9CA3AF", "#374151", "#10B981", "#059669"),
		},
		{
			ID:   "dark-purple",
			Name: "Violet Pro",
			Colors: Colors{
				Primary: "#8B5CF6", Secondary: "#A78BFA", Accent: "#F59E0B",
				Background: "#1C1629", Surface: "#2D1B69",
				Text: "#F3F4F6", TextSecondary: "#D1D5DB", Border: "#4C1D95",
				Success: successDefault, Warning: warningDefault, Error: errorDefault,
			},
			CSSVariables: elementVariables("#2D1B69", "#4C1D95", "#6B21A8", "#7C2D12", "#F3F4F6", "#D1D5DB", "#4C1D95", "#8B5CF6", "#7C3AED"),
		},
		{
			ID:   "light-minimal",
			Name: "Clair Minimal",
			Colors: Colors{
				Primary: "#6366F1", Secondary: "#8B5CF6", Accent: "#06B6D4",
				Background: "#FFFFFF", Surface: "#F9FAFB",
				Text: "#111827", TextSecondary: "#6B7280", Border: "#E5E7EB",
				Success: successDefault, Warning: warningDefault, Error: errorDefault,
			},
			CSSVariables: elementVariables("#FFFFFF", "#F9FAFB", "#F3F4F6", "#E5E7EB", "#111827", "#6B7280", "#E5E7EB", "#6366F1", "#4F46E5"),
		},
	}
	return themes
}

// DefaultID is the id of the first built-in theme.
const DefaultID = "dark-default"

func elementVariables(depth1, depth2, depth3, depth4, text, textSecondary, border, button, buttonHover string) map[string]string {
	return map[string]string{
		"--bolt-elements-background-depth-1":             depth1,
		"--bolt-elements-background-depth-2":             depth2,
		"--bolt-elements-background-depth-3":             depth3,
		"--bolt-elements-background-depth-4":             depth4,
		"--bolt-elements-textPrimary":                    text,
		"--bolt-elements-textSecondary":                  textSecondary,
		"--bolt-elements-borderColor":                    border,
		"--bolt-elements-button-primary-background":      button,
		"--bolt-elements-button-primary-backgroundHover": buttonHover,
	}
}

type palette struct {
	surface, text, textSecondary, border string
	depth                                [4]string
}

var (
	darkPalette = palette{
		surface: "#1A1A1A", text: "#FFFFFF", textSecondary: "#9CA3AF", border: "#374151",
		depth: [4]string{"#1A1A1A", "#262626", "#333333", "#404040"},
	}
	lightPalette = palette{
		surface: "#F9FAFB", text: "#111827", textSecondary: "#6B7280", border: "#E5E7EB",
		depth: [4]string{"#FFFFFF", "#F9FAFB", "#F3F4F6", "#E5E7EB"},
	}
)

// IsDark classifies a background color. It is a coarse convenience rule, not
// a luminance computation: pure black or anything starting with #0 or #1 is dark.
func IsDark(background string) bool {
	return background == "#000000" || strings.HasPrefix(background, "#0") || strings.HasPrefix(background, "#1")
}

// GeneratedName is the name given to themes derived from two seed colors.
const GeneratedName = "Thème Personnalisé"

// GenerateFromColors derives a full theme draft from a primary and a
// background color. Surface, text and border colors come from the dark or
// light palette; accent and status colors are fixed.
func GenerateFromColors(primary, background string) Draft {
	p := lightPalette
	if IsDark(background) {
		p = darkPalette
	}
	return Draft{
		Name: GeneratedName,
		Colors: Colors{
			Primary:       primary,
			Secondary:     primary,
			Accent:        accentDefault,
			Background:    background,
			Surface:       p.surface,
			Text:          p.text,
			TextSecondary: p.textSecondary,
			Border:        p.border,
			Success:       successDefault,
			Warning:       warningDefault,
			Error:         errorDefault,
		},
		CSSVariables: elementVariables(p.depth[0], p.depth[1], p.depth[2], p.depth[3], p.text, p.textSecondary, p.border, primary, primary),
	}
}
