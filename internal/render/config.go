// Package render turns assistant replies into styled terminal output and holds
// the colour palettes used by the interface.
package render

import (
	"os"

	"github.com/diogo/repochat/internal/config"
)

// Options configures the markdown renderer. It is comparable and keys the
// renderer pool.
type Options struct {
	// Width is the word-wrap column
	Width int
	// Style is a built-in glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions mirrors config.DefaultMarkdownConfig at 80 columns
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy wrapping at width, raised to MinWidth if narrower
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, MinWidth)
	return o
}

// LoadOptions builds render options from cfg. GLAMOUR_STYLE takes precedence
// over the configured style.
func LoadOptions(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsWithWidth is LoadOptions with a specific wrap width.
func LoadOptionsWithWidth(cfg config.Config, width int) Options {
	return LoadOptions(cfg).WithWidth(width)
}
