package render

import (
	"strings"
	"testing"
)

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range []string{"dark", "light", "dracula", "tokyo-night", "pink", "notty", "ascii", "auto"} {
		if !IsBuiltinStyle(name) {
			t.Errorf("expected %q to be built in", name)
		}
	}
	for _, name := range []string{"", "tokyonight", "/tmp/theme.json"} {
		if IsBuiltinStyle(name) {
			t.Errorf("expected %q not to be built in", name)
		}
	}
}

func TestBuiltinStylesRender(t *testing.T) {
	renderers.reset()
	defer renderers.reset()

	for _, name := range BuiltinStyles() {
		t.Run(name, func(t *testing.T) {
			out, err := Markdown("**commit** summary", withStyle(name))
			if err != nil {
				t.Fatalf("style %s: %v", name, err)
			}
			if !strings.Contains(out, "commit") {
				t.Errorf("style %s lost content: %q", name, out)
			}
		})
	}
}

func TestPalettes(t *testing.T) {
	names := PaletteNames()
	if len(names) != 4 {
		t.Fatalf("expected 4 palettes, got %d", len(names))
	}
	for _, name := range names {
		p, ok := PaletteByName(name)
		if !ok {
			t.Fatalf("palette %s not found", name)
		}
		if p.Primary == "" || p.Error == "" || p.Text == "" {
			t.Errorf("palette %s has empty colours", name)
		}
	}

	if _, ok := PaletteByName("solarized"); ok {
		t.Error("unexpected palette solarized")
	}
	if got := ResolvePalette("solarized").Name; got != DefaultPalette {
		t.Errorf("expected fallback %s, got %s", DefaultPalette, got)
	}
	if got := ResolvePalette("nord").Name; got != "nord" {
		t.Errorf("expected nord, got %s", got)
	}
}
