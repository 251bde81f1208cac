package control

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var eventsCmd = &cobra.Command{
	Use:   "events [dir]",
	Short: "Print the assistant's server events",
	Long: `Subscribe to the event stream of the running assistant server and print
each event as a JSON line. No provider is touched.

The port comes from the port setting, or from the running opencode process
when port is 0.`,
	Example: `  # Follow events and filter them with jq
  occtl events | jq -r .type`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := shared.Setup(cmd, args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		port, err := waitForPort(ctx, func(ctx context.Context) (int, error) {
			return app.Ports.GetPort(ctx, false)
		})
		if err != nil {
			return err
		}
		logger.Info().Int("port", port).Msg("subscribed to events")

		err = app.Events.Subscribe(ctx, port)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	eventsCmd.GroupID = shared.GroupAssistant
}

// waitForPort resolves the port, showing a spinner when stderr is a terminal.
func waitForPort(ctx context.Context, get func(context.Context) (int, error)) (int, error) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return get(ctx)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " waiting for the opencode server"
	s.Start()
	defer s.Stop()
	return get(ctx)
}
