// Package commands provides CLI commands for repochat.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/diogo/repochat/internal/config"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/logger"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/selection"
	"github.com/diogo/repochat/internal/state"
	"github.com/diogo/repochat/internal/tui"
)

var (
	// Global flags
	apiURLFlag  string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd(deps *Dependencies) *cobra.Command {
	var urlFlag, projectFlag string

	cmd := &cobra.Command{
		Use:   "repochat",
		Short: "Chat with an AI about a code repository",
		Long: `repochat is a terminal client for a repository analysis backend.
Pick a repository by URL or from the projects the backend already knows,
then ask questions about it in a chat.

Examples:
  repochat                                   Open the selection screen
  repochat --url https://github.com/o/r      Register a repository and chat
  repochat --project alpha                   Open a listed project
  repochat repos                             List known projects
  repochat ask --project alpha "What is this?"
  repochat config set api_url http://localhost:3001`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, using defaults\n", err)
			}
			if err := logger.Init(cfg.LogFile, cfg.LogLevel); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, logging disabled\n", err)
				_ = logger.Init("", cfg.LogLevel)
			}
			log.Debug().Str("command", cmd.CommandPath()).Str("api_url", cfg.APIURL).Msg("Starting")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "repochat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runTUI(cmd, deps, urlFlag, projectFlag)
		},
	}

	cmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides config and REPOCHAT_API_URL)")
	cmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log at debug level")
	cmd.Flags().StringVar(&urlFlag, "url", "", "Repository URL to register before opening the chat")
	cmd.Flags().StringVar(&projectFlag, "project", "", "Listed project (value or name) to open")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	cmd.MarkFlagsMutuallyExclusive("url", "project")

	// Add subcommands
	cmd.AddCommand(NewReposCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		stop()
		os.Exit(1)
	}
}

// loadConfig returns the effective configuration: file, environment, then flags.
// A broken config file yields the defaults along with the error.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()

	if apiURLFlag != "" {
		cfg.APIURL = strings.TrimRight(strings.TrimSpace(apiURLFlag), "/")
	}
	if verboseFlag {
		cfg.LogLevel = "debug"
	}
	return cfg, err
}

// runTUI starts the interactive interface, optionally running the selection
// flow first so it opens straight on the chat screen
func runTUI(cmd *cobra.Command, deps *Dependencies, repoURL, project string) error {
	cfg, _ := loadConfig()

	backend, err := deps.backend(cfg)
	if err != nil {
		return err
	}

	sel := state.NewSelection()
	history := nav.NewHistory(nav.Home())

	if repoURL != "" || project != "" {
		flow := selection.NewFlow(backend, sel, history)
		if err := preselect(cmd.Context(), flow, repoURL, project); err != nil {
			return err
		}
	}

	return deps.runner().Run(cmd.Context(), tui.Deps{
		Backend:   backend,
		Selection: sel,
		History:   history,
		Config:    cfg,
	})
}

// preselect drives the selection flow from a URL or a project name/value.
// The returned error carries the flow's user-facing message.
func preselect(ctx context.Context, flow *selection.Flow, repoURL, project string) error {
	if repoURL != "" {
		if err := flow.SubmitURL(ctx, repoURL); err != nil {
			return selectionError(flow.Snapshot().URLError, err)
		}
		return nil
	}

	if err := flow.LoadOptions(ctx); err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	option, ok := resolveProject(flow.Snapshot().Options, project)
	if !ok {
		return fmt.Errorf("%s: %q: %w", selection.MsgProjectNotListed, project, apierrors.ErrUnknownProject)
	}
	if err := flow.SubmitProject(ctx, option.Value); err != nil {
		return selectionError(flow.Snapshot().ProjectError, err)
	}
	return nil
}

// resolveProject finds a listed project by value, then by name or id
func resolveProject(options []models.SelectionOption, query string) (models.SelectionOption, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SelectionOption{}, false
	}
	if opt, ok := models.FindOption(options, query); ok {
		return opt, true
	}
	for _, opt := range options {
		if strings.EqualFold(opt.Name, query) || opt.ID == query {
			return opt, true
		}
	}
	return models.SelectionOption{}, false
}

func selectionError(message string, err error) error {
	if message == "" {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}
