package theme_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/promptdeck/internal/domain/theme"
)

func TestGenerateFromColors(t *testing.T) {
	tests := []struct {
		name         string
		primary      string
		background   string
		wantSurface  string
		wantText     string
		wantBorder   string
		wantDepthOne string
	}{
		{"near black is dark", "#8B5CF6", "#0F0F0F", "#1A1A1A", "#FFFFFF", "#374151", "#1A1A1A"},
		{"pure black is dark", "#8B5CF6", "#000000", "#1A1A1A", "#FFFFFF", "#374151", "#1A1A1A"},
		{"#1 prefix is dark", "#8B5CF6", "#1C1629", "#1A1A1A", "#FFFFFF", "#374151", "#1A1A1A"},
		{"white is light", "#6366F1", "#FFFFFF", "#F9FAFB", "#111827", "#E5E7EB", "#FFFFFF"},
		{"dark gray #2 is light by the heuristic", "#6366F1", "#222222", "#F9FAFB", "#111827", "#E5E7EB", "#FFFFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := theme.GenerateFromColors(tt.primary, tt.background)
			assert.Equal(t, tt.wantSurface, d.Colors.Surface)
			assert.Equal(t, tt.wantText, d.Colors.Text)
			assert.Equal(t, tt.wantBorder, d.Colors.Border)
			assert.Equal(t, tt.wantDepthOne, d.CSSVariables["--bolt-elements-background-depth-1"])
			assert.Equal(t, tt.primary, d.Colors.Primary)
			assert.Equal(t, tt.primary, d.Colors.Secondary)
			assert.Equal(t, tt.background, d.Colors.Background)
			assert.Equal(t, tt.primary, d.CSSVariables["--bolt-elements-button-primary-backgroundHover"])
		})
	}
}

func TestGenerateFromColors_FixedStatusColors(t *testing.T) {
	for _, bg := range []string{"#0F0F0F", "#FFFFFF"} {
		d := theme.GenerateFromColors("#123456", bg)
		assert.Equal(t, "#06B6D4", d.Colors.Accent)
		assert.Equal(t, "#10B981", d.Colors.Success)
		assert.Equal(t, "#F59E0B", d.Colors.Warning)
		assert.Equal(t, "#EF4444", d.Colors.Error)
		assert.Equal(t, theme.GeneratedName, d.Name)
	}
}

func TestVariables_IncludesShorthands(t *testing.T) {
	dark := theme.Builtins()[0]
	vars := dark.Variables()

	assert.Len(t, vars, len(dark.CSSVariables)+6)
	assert.Equal(t, "#8B5CF6", vars["--theme-primary"])
	assert.Equal(t, "#A78BFA", vars["--theme-secondary"])
	assert.Equal(t, "#06B6D4", vars["--theme-accent"])
	assert.Equal(t, "#10B981", vars["--theme-success"])
	assert.Equal(t, "#F59E0B", vars["--theme-warning"])
	assert.Equal(t, "#EF4444", vars["--theme-error"])
	assert.Equal(t, "#1A1A1A", vars["--bolt-elements-background-depth-1"])
}

func TestBuiltins(t *testing.T) {
	builtins := theme.Builtins()
	require.Len(t, builtins, 5)
	assert.Equal(t, theme.DefaultID, builtins[0].ID)

	// Returned slices are fresh copies.
	builtins[0].CSSVariables["--x"] = "y"
	assert.NotContains(t, theme.Builtins()[0].CSSVariables, "--x")
}

func TestNewCustomID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := theme.NewCustomID()
		assert.Regexp(t, `^custom-`, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestValidateHex(t *testing.T) {
	assert.NoError(t, theme.ValidateHex("primary", "#8B5CF6"))
	assert.NoError(t, theme.ValidateHex("primary", "#fff"))

	err := theme.ValidateHex("background", "blue")
	require.Error(t, err)
	assert.True(t, errors.Is(err, theme.ErrInvalidColor))
	assert.Contains(t, err.Error(), "background")
}

func TestPatchApply_DoesNotAlias(t *testing.T) {
	vars := map[string]string{"--a": "1"}
	name := "renamed"
	base := theme.Theme{ID: "custom-1", Name: "old"}

	got := theme.Patch{Name: &name, CSSVariables: &vars}.Apply(base)
	vars["--a"] = "2"

	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "1", got.CSSVariables["--a"])
}

func TestPersisted_RoundTrip(t *testing.T) {
	p := theme.Persisted{
		CurrentThemeID: "custom-x",
		CustomThemes:   []theme.Theme{theme.FromDraft("custom-x", theme.GenerateFromColors("#8B5CF6", "#0F0F0F"))},
	}
	data, err := theme.Encode(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentThemeId":"custom-x"`)

	got, err := theme.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = theme.Decode([]byte("{"))
	assert.Error(t, err)
}

func TestDraftValidate(t *testing.T) {
	d := theme.GenerateFromColors("#8B5CF6", "#0F0F0F")
	assert.NoError(t, d.Validate())

	d.Name = " "
	assert.ErrorIs(t, d.Validate(), theme.ErrMissingName)

	d = theme.GenerateFromColors("#8B5CF6", "#0F0F0F")
	d.Colors.Border = "grey"
	err := d.Validate()
	assert.ErrorIs(t, err, theme.ErrInvalidColor)
	assert.Contains(t, err.Error(), "border")

	blank := ""
	assert.ErrorIs(t, theme.Patch{Name: &blank}.Validate(), theme.ErrMissingName)
	assert.NoError(t, theme.Patch{}.Validate())
}
