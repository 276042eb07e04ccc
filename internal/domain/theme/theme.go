package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Colors is the palette of a theme. Every value is a hex color string.
type Colors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Success       string `json:"success"`
	Warning       string `json:"warning"`
	Error         string `json:"error"`
}

type Theme struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Colors       Colors            `json:"colors"`
	CSSVariables map[string]string `json:"cssVariables"`
}

// Clone returns a copy that shares no map with t.
func (t Theme) Clone() Theme {
	vars := make(map[string]string, len(t.CSSVariables))
	for k, v := range t.CSSVariables {
		vars[k] = v
	}
	t.CSSVariables = vars
	return t
}

// Variables returns every CSS variable to push to the presentation layer:
// the theme's own cssVariables plus six --theme-* shorthands.
func (t Theme) Variables() map[string]string {
	vars := make(map[string]string, len(t.CSSVariables)+6)
	for k, v := range t.CSSVariables {
		vars[k] = v
	}
	vars["--theme-primary"] = t.Colors.Primary
	vars["--theme-secondary"] = t.Colors.Secondary
	vars["--theme-accent"] = t.Colors.Accent
	vars["--theme-success"] = t.Colors.Success
	vars["--theme-warning"] = t.Colors.Warning
	vars["--theme-error"] = t.Colors.Error
	return vars
}

// Draft is a theme without an id, as produced by GenerateFromColors.
type Draft struct {
	Name         string            `json:"name"`
	Colors       Colors            `json:"colors"`
	CSSVariables map[string]string `json:"cssVariables"`
}

// Patch is a partial update of a custom theme.
type Patch struct {
	Name         *string            `json:"name,omitempty"`
	Colors       *Colors            `json:"colors,omitempty"`
	CSSVariables *map[string]string `json:"cssVariables,omitempty"`
}

func (p Patch) Apply(t Theme) Theme {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Colors != nil {
		t.Colors = *p.Colors
	}
	if p.CSSVariables != nil {
		t.CSSVariables = *p.CSSVariables
	}
	return t.Clone()
}

const customPrefix = "custom-"

// NewCustomID returns "custom-" followed by a time-ordered UUID, so ids sort
// by creation time and never collide when created in the same millisecond.
func NewCustomID() string {
	return customPrefix + uuid.Must(uuid.NewV7()).String()
}

// FromDraft materializes a draft into a theme with the given id.
func FromDraft(id string, d Draft) Theme {
	return Theme{ID: id, Name: d.Name, Colors: d.Colors, CSSVariables: d.CSSVariables}.Clone()
}

// ErrInvalidColor is returned for seed colors that are not hex strings.
var ErrInvalidColor = errors.New("invalid hex color")

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHex checks that value is a #RGB or #RRGGBB color.
func ValidateHex(field, value string) error {
	if !hexColor.MatchString(value) {
		return fmt.Errorf("%s %q: %w", field, value, ErrInvalidColor)
	}
	return nil
}

// Persisted is the stored layout: the current theme id and the custom themes.
type Persisted struct {
	CurrentThemeID string  `json:"currentThemeId"`
	CustomThemes   []Theme `json:"customThemes"`
}

func Decode(data []byte) (Persisted, error) {
	var p Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return Persisted{}, fmt.Errorf("decoding theme config: %w", err)
	}
	return p, nil
}

func Encode(p Persisted) ([]byte, error) {
	if p.CustomThemes == nil {
		p.CustomThemes = []Theme{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding theme config: %w", err)
	}
	return data, nil
}

// ErrMissingName is returned for a custom theme without a name.
var ErrMissingName = errors.New("theme name is required")

// Validate checks the name and every color of a draft.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	return d.Colors.Validate()
}

// Validate checks that every color is a hex string.
func (c Colors) Validate() error {
	fields := []struct{ name, value string }{
		{"primary", c.Primary}, {"secondary", c.Secondary}, {"accent", c.Accent},
		{"background", c.Background}, {"surface", c.Surface}, {"text", c.Text},
		{"textSecondary", c.TextSecondary}, {"border", c.Border},
		{"success", c.Success}, {"warning", c.Warning}, {"error", c.Error},
	}
	for _, f := range fields {
		if err := ValidateHex(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrMissingName
	}
	if p.Colors != nil {
		return p.Colors.Validate()
	}
	return nil
}
