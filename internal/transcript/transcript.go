// Package transcript exports a chat conversation to Markdown or JSON files.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	json "github.com/goccy/go-json"

	"github.com/diogo/repochat/internal/models"
)

// Format is the on-disk format of an export
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Extension returns the file extension used for the format
func (f Format) Extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "md"
}

// ParseFormat accepts "markdown", "md" and "json"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

// Meta describes the conversation being exported
type Meta struct {
	Selection  string    `json:"selection"`
	Kind       string    `json:"type"`
	RepoID     string    `json:"repo_id"`
	Commits    int       `json:"commits"`
	ExportedAt time.Time `json:"exported_at"`
}

// settled drops pending placeholders
func settled(messages []models.Message) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if !m.Pending {
			out = append(out, m)
		}
	}
	return out
}

// ToMarkdown renders the conversation as a Markdown document
func ToMarkdown(meta Meta, messages []models.Message) string {
	messages = settled(messages)

	var sb strings.Builder

	title := meta.Selection
	if title == "" {
		title = "Conversation"
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if meta.Kind != "" {
		sb.WriteString("**Type:** ")
		sb.WriteString(meta.Kind)
		sb.WriteString("\n")
	}
	if meta.RepoID != "" {
		sb.WriteString("**Repository ID:** ")
		sb.WriteString(meta.RepoID)
		sb.WriteString("\n")
	}
	if meta.Commits > 0 {
		sb.WriteString(fmt.Sprintf("**Commits:** %d\n", meta.Commits))
	}
	if !meta.ExportedAt.IsZero() {
		sb.WriteString("**Exported:** ")
		sb.WriteString(meta.ExportedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		role := "User"
		if !msg.IsUser() {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportDocument struct {
	Meta
	Messages []models.Message `json:"messages"`
}

// ToJSON renders the conversation as indented JSON
func ToJSON(meta Meta, messages []models.Message) ([]byte, error) {
	return json.MarshalIndent(exportDocument{Meta: meta, Messages: settled(messages)}, "", "  ")
}

// FileName returns <timestamp>-<slug>.<ext> for an export
func FileName(meta Meta, format Format) string {
	ts := meta.ExportedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("%s-%s.%s", ts.Format("20060102-150405"), slug(meta.Selection), format.Extension())
}

// Save writes the conversation to dir and returns the file path
func Save(dir string, meta Meta, messages []models.Message, format Format) (string, error) {
	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = time.Now()
	}

	var data []byte
	switch format {
	case FormatJSON:
		b, err := ToJSON(meta, messages)
		if err != nil {
			return "", fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = b
	default:
		data = []byte(ToMarkdown(meta, messages))
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(meta, format))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// slug turns a selection (URL or project name) into a short file-safe token
func slug(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}

	out := strings.Trim(sb.String(), "-")
	if runes := []rune(out); len(runes) > 48 {
		out = strings.Trim(string(runes[:48]), "-")
	}
	if out == "" {
		return "chat"
	}
	return out
}
