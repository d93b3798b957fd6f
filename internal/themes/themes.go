// Package themes holds the built-in theme presets and theme validation.
package themes

import (
	"fmt"
	"regexp"
	"strings"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
)

// Preset is a named theme offered in the settings screen.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Preview     string `json:"preview"`
	models.Theme
}

var presets = []Preset{
	{"Dark", "Classic dark theme", "🌙", models.Theme{BackgroundColor: "#0f0f0f", TextColor: "#ffffff", AccentColor: "#ff7e29", ButtonStyle: models.ButtonRounded}},
	{"Ocean", "Cool blue tones", "🌊", models.Theme{BackgroundColor: "#0a1929", TextColor: "#e3f2fd", AccentColor: "#4fc3f7", ButtonStyle: models.ButtonRounded}},
	{"Sunset", "Warm orange and pink", "🌅", models.Theme{BackgroundColor: "#1a0f1a", TextColor: "#fff5e6", AccentColor: "#ff6b6b", ButtonStyle: models.ButtonRounded}},
	{"Forest", "Natural green vibes", "🌲", models.Theme{BackgroundColor: "#0d1b0f", TextColor: "#f1f8f4", AccentColor: "#51cf66", ButtonStyle: models.ButtonRounded}},
	{"Purple", "Royal purple theme", "💜", models.Theme{BackgroundColor: "#1a0d1f", TextColor: "#f3e5f5", AccentColor: "#ab47bc", ButtonStyle: models.ButtonRounded}},
	{"Minimal", "Clean and simple", "⚪", models.Theme{BackgroundColor: "#ffffff", TextColor: "#1a1a1a", AccentColor: "#000000", ButtonStyle: models.ButtonOutline}},
	{"Cyber", "Neon cyberpunk", "💻", models.Theme{BackgroundColor: "#000000", TextColor: "#00ff41", AccentColor: "#ff0080", ButtonStyle: models.ButtonSolid}},
	{"Golden", "Luxurious gold", "✨", models.Theme{BackgroundColor: "#1a1508", TextColor: "#f9f7f0", AccentColor: "#ffd700", ButtonStyle: models.ButtonRounded}},
}

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Default is the theme given to new profiles and used when a profile has none.
func Default() models.Theme {
	return presets[0].Theme
}

// Presets returns a copy of the built-in presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Lookup finds a preset by name, case-insensitively.
func Lookup(name string) (models.Theme, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p.Theme, true
		}
	}
	return models.Theme{}, false
}

// Effective returns t, or the default theme when t is nil.
func Effective(t *models.Theme) models.Theme {
	if t == nil {
		return Default()
	}
	return *t
}

// Validate checks colors are #rgb or #rrggbb and the button style is known.
func Validate(t models.Theme) error {
	for field, c := range map[string]string{
		"backgroundColor": t.BackgroundColor,
		"textColor":       t.TextColor,
		"accentColor":     t.AccentColor,
	} {
		if !colorRe.MatchString(c) {
			return fmt.Errorf("%w: %s %q is not a hex color", customerrors.ErrInvalidTheme, field, c)
		}
	}
	switch t.ButtonStyle {
	case models.ButtonSolid, models.ButtonOutline, models.ButtonRounded:
		return nil
	default:
		return fmt.Errorf("%w: unknown button style %q", customerrors.ErrInvalidTheme, t.ButtonStyle)
	}
}
