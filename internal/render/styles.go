package render

import (
	"sort"

	"github.com/charmbracelet/glamour/styles"
)

// MinWidth is the narrowest wrap column the renderer accepts
const MinWidth = 20

// Glamour's built-in styles
const (
	StyleAuto       = styles.AutoStyle
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

var builtinStyles = map[string]bool{
	StyleAuto:       true,
	StyleDark:       true,
	StyleLight:      true,
	StyleDracula:    true,
	StyleTokyoNight: true,
	StylePink:       true,
	StyleNoTTY:      true,
	StyleASCII:      true,
}

// IsBuiltinStyle reports whether style names one of glamour's built-in styles
// rather than a JSON style file.
func IsBuiltinStyle(style string) bool {
	return builtinStyles[style]
}

// BuiltinStyles returns the built-in style names, sorted
func BuiltinStyles() []string {
	names := make([]string, 0, len(builtinStyles))
	for name := range builtinStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
