package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/chat"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/render"
	"github.com/diogo/repochat/internal/selection"
	"github.com/diogo/repochat/internal/state"
)

// askOptions holds the flags of the ask command
type askOptions struct {
	url     string
	project string
	repoID  string
	copy    bool
	raw     bool
}

// NewAskCmd creates the one-shot prompt command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question about a repository",
		Long: `Select a repository and send one prompt without opening the TUI.

The prompt is read from the argument or, when none is given, from stdin.
The reply is rendered as Markdown when stdout is a terminal and printed
raw otherwise.

Examples:
  repochat ask --url https://github.com/o/r "Summarize this repository"
  repochat ask --project alpha "What changed in the last commit?"
  repochat ask --repo-id 42 "List the main packages" --raw
  cat question.md | repochat ask --project alpha`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, opts, prompt)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Repository URL to register")
	cmd.Flags().StringVar(&opts.project, "project", "", "Listed project (value or name)")
	cmd.Flags().StringVar(&opts.repoID, "repo-id", "", "Repository identifier already known to the backend")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the reply without rendering")
	cmd.MarkFlagsOneRequired("url", "project", "repo-id")
	cmd.MarkFlagsMutuallyExclusive("url", "project", "repo-id")

	return cmd
}

// readPrompt returns the positional prompt or, failing that, piped stdin
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("a prompt is required (argument or stdin)")
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// runAsk selects the repository, sends prompt and prints the reply
func runAsk(cmd *cobra.Command, deps *Dependencies, opts *askOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	raw := opts.raw || !deps.isTTY()

	cfg, _ := loadConfig()
	backend, err := deps.backend(cfg)
	if err != nil {
		return err
	}

	sel := state.NewSelection()
	history := nav.NewHistory(nav.Home())

	var spin *spinner
	if !raw {
		spin = newSpinner(errOut, "Selecting repository")
		spin.start()
	}

	label, err := selectForAsk(cmd, backend, sel, history, opts)
	if err != nil {
		if !raw {
			spin.stopWithError()
			fmt.Fprintln(errOut, formatErrorMessage(err, "Selection failed"))
		}
		return err
	}
	if !raw {
		spin.stopWithSuccess("Selected " + label)
	}

	session, err := chat.NewSession(backend, sel)
	if err != nil {
		return err
	}

	if !raw {
		spin = newSpinner(errOut, "Analyzing")
		spin.start()
	}

	reply, err := session.Send(ctx, prompt)
	if err != nil {
		if !raw {
			spin.stopWithError()
			fmt.Fprintln(errOut, formatErrorMessage(err, "Prompt failed"))
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	if !raw {
		spin.stopWithSuccess("Done")
	}

	if opts.copy || cfg.CopyToClipboard {
		if err := deps.copyText(reply.Content); err != nil {
			log.Warn().Err(err).Msg("Clipboard copy failed")
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else if !raw {
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if raw {
		fmt.Fprintln(out, reply.Content)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	rendered := render.Reply(reply.Content, render.LoadOptionsWithWidth(cfg, bubbleWidth-4))
	fmt.Fprintln(out, assistantLabelStyle.Render("◆ Assistant"))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// selectForAsk stores the repository identifier chosen by the flags and
// returns a label for it
func selectForAsk(cmd *cobra.Command, backend api.Backend, sel *state.Selection, history *nav.History, opts *askOptions) (string, error) {
	if id := strings.TrimSpace(opts.repoID); id != "" {
		sel.ID.Set(id)
		sel.Commits.Set(nil)
		return id, nil
	}

	flow := selection.NewFlow(backend, sel, history)
	if err := preselect(cmd.Context(), flow, opts.url, opts.project); err != nil {
		return "", err
	}
	return history.Current().Selection, nil
}
