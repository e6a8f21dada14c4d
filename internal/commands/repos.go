package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/diogo/repochat/internal/models"
)

// NewReposCmd creates the command listing the projects known to the backend
func NewReposCmd(deps *Dependencies) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List the projects offered by the backend",
		Long: `List the projects the backend offers for selection, with their value
(accepted by --project), identifier and commit count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepos(cmd, deps, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func runRepos(cmd *cobra.Command, deps *Dependencies, asJSON bool) error {
	cfg, _ := loadConfig()
	backend, err := deps.backend(cfg)
	if err != nil {
		return err
	}

	options, err := backend.ListRepos(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorMessage(err, "Failed to list projects"))
		return fmt.Errorf("failed to list projects: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if options == nil {
			options = []models.SelectionOption{}
		}
		data, err := json.MarshalIndent(options, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode projects: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(options) == 0 {
		fmt.Fprintln(out, "No projects available")
		return nil
	}

	fmt.Fprintln(out, reposTable(options))
	return nil
}

// reposTable renders options as a bordered table
func reposTable(options []models.SelectionOption) string {
	rows := make([][]string, 0, len(options))
	for _, opt := range options {
		rows = append(rows, []string{opt.Label(), opt.Value, opt.ID, strconv.Itoa(len(opt.Commits))})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorTextMute)).
		Headers("NAME", "VALUE", "ID", "COMMITS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case col == 2 || col == 3:
				return dimCellStyle
			default:
				return cellStyle
			}
		}).
		String()
}
