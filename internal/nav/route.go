// Package nav models the two screens as routes and records navigation.
package nav

import (
	"fmt"
	"net/url"
	"strings"
)

// Paths of the two screens
const (
	PathHome = "/"
	PathChat = "/chat"
)

// Kind says how the repository was chosen
type Kind string

const (
	KindURL      Kind = "url"
	KindDropdown Kind = "dropdown"
)

// Route identifies a screen plus its display-only parameters
type Route struct {
	Path      string
	Selection string
	Kind      Kind
}

// Home returns the selection screen route
func Home() Route {
	return Route{Path: PathHome}
}

// Chat returns the chat screen route for a selection
func Chat(selection string, kind Kind) Route {
	return Route{Path: PathChat, Selection: selection, Kind: kind}
}

// IsChat reports whether the route targets the chat screen
func (r Route) IsChat() bool {
	return r.Path == PathChat
}

// String renders the route as a path with query, e.g.
// /chat?selection=Project%20Alpha&type=dropdown
func (r Route) String() string {
	if r.Path != PathChat {
		if r.Path == "" {
			return PathHome
		}
		return r.Path
	}
	return fmt.Sprintf("%s?selection=%s&type=%s", PathChat, escapeComponent(r.Selection), escapeComponent(string(r.Kind)))
}

// componentUnescaper undoes the QueryEscape encodings that encodeURIComponent
// leaves as literal characters
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s the way encodeURIComponent does
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// Parse parses a route string produced by String. Unknown paths are errors.
func Parse(raw string) (Route, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Route{}, fmt.Errorf("invalid route %q: %w", raw, err)
	}

	switch u.Path {
	case PathHome, "":
		return Home(), nil
	case PathChat:
		q := u.Query()
		return Chat(q.Get("selection"), Kind(q.Get("type"))), nil
	default:
		return Route{}, fmt.Errorf("unknown route %q", u.Path)
	}
}
