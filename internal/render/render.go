package render

import "strings"

// Markdown renders content for the terminal with a pooled renderer
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, r)

	return r.Render(content)
}

// Reply renders an assistant reply, falling back to the raw text if rendering
// fails. Surrounding blank lines added by glamour are trimmed.
func Reply(content string, opts Options) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
