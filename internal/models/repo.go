// Package models holds the data types shared between the backend client, flows and TUI.
package models

// Commit is one version-control commit belonging to a project
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// ShortSHA returns the first seven characters of the commit hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// Subject returns the first line of the commit message
func (c Commit) Subject() string {
	for i, r := range c.Message {
		if r == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// SelectionOption is a candidate project offered by the backend
type SelectionOption struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Value   string   `json:"value"`
	Commits []Commit `json:"commits"`
}

// Label returns the display name, falling back to the value
func (o SelectionOption) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Value
}

// FindOption returns the option whose Value matches value
func FindOption(options []SelectionOption, value string) (SelectionOption, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return SelectionOption{}, false
}

// CloneCommits returns a copy of commits; nil stays nil
func CloneCommits(commits []Commit) []Commit {
	if commits == nil {
		return nil
	}
	out := make([]Commit, len(commits))
	copy(out, commits)
	return out
}
