// Package cli provides the Cobra-based commands of occtl. Editors call them
// from their own commands: toggle, start and stop drive the assistant through
// a terminal provider, doctor is the health check, and config and providers
// inspect the setup.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/occtl/internal/cli/config"
	"github.com/ariel-frischer/occtl/internal/cli/control"
	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/cli/util"
	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupAssistant     = shared.GroupAssistant
	GroupConfiguration = shared.GroupConfiguration
	GroupUtility       = shared.GroupUtility
)

var rootCmd = &cobra.Command{
	Use:   "occtl",
	Short: "Run opencode next to your editor",
	Long: `occtl launches the opencode assistant in a terminal split, window or pane
next to your editor, scoped to the current project.

The terminal back end is chosen by the provider setting: embedded, tmux,
kitty, wezterm, terminal, or auto to use the first one detected.`,
	Example: `  # Show or hide the assistant for the current project
  occtl toggle

  # Start it for a specific directory, passing editor context
  occtl start ~/src/app --file ~/src/app/main.go

  # Check the setup
  occtl doctor`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.CloseFileWriter()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !shared.IsExitError(err) {
		clierrors.PrintError(err)
	}
	return err
}

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

func init() {
	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupAssistant, Title: "Assistant:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupUtility, Title: "Utilities:"})

	rootCmd.SetHelpCommandGroupID(GroupUtility)
	rootCmd.SetCompletionCommandGroupID(GroupUtility)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a local config file (default ./.occtl.json)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("file", "", "Path of the editor's current buffer")
	rootCmd.PersistentFlags().StringArray("lsp-root", nil, "Workspace root of an attached language server (repeatable)")

	// Register commands from subpackages
	control.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
}
