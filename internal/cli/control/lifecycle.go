package control

import (
	"context"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/launcher"
	"github.com/spf13/cobra"
)

// action is one launcher operation.
type action func(l *launcher.Launcher, ctx context.Context) error

var toggleCmd = &cobra.Command{
	Use:   "toggle [dir]",
	Short: "Show or hide the assistant for the project",
	Long: `Show or hide the assistant for the project through the selected provider.

The project root is the first of: [dir], the git repository root, the
directory of --file, the first --lsp-root, and the working directory.

With events.enabled set, occtl stays attached after the assistant starts and
prints each server event as a JSON line until the stream ends or Ctrl-C.`,
	Example: `  # Toggle for the current project
  occtl toggle

  # Toggle for another directory
  occtl toggle ~/src/api`,
	Args: cobra.MaximumNArgs(1),
	RunE: run((*launcher.Launcher).Toggle),
}

var startCmd = &cobra.Command{
	Use:   "start [dir]",
	Short: "Start the assistant for the project",
	Long: `Start the assistant for the project through the selected provider.
Starting an instance that is already running is left to the provider.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run((*launcher.Launcher).Start),
}

var stopCmd = &cobra.Command{
	Use:   "stop [dir]",
	Short: "Stop the assistant for the project",
	Long:  `Stop the assistant instance occtl started for the project, if any.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  run((*launcher.Launcher).Stop),
}

func init() {
	toggleCmd.GroupID = shared.GroupAssistant
	startCmd.GroupID = shared.GroupAssistant
	stopCmd.GroupID = shared.GroupAssistant
}

// run wires the app and performs a on its launcher, then waits for any event
// subscription the operation started.
func run(a action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := shared.Setup(cmd, args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		l := app.Launcher(ctx)
		if err := a(l, ctx); err != nil {
			return err
		}
		l.Wait()
		return nil
	}
}
