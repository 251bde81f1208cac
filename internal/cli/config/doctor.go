package config

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor [dir]",
	Aliases: []string{"doc"},
	Short:   "Run health checks for occtl and its providers (doc)",
	Long: `Run health checks to verify occtl can launch the assistant.

This command checks:
  - the opencode executable and its version
  - git (optional, used for project roots)
  - the occtl configuration
  - the project's opencode.json, when present
  - which provider the configuration selects
  - every provider's own requirements

Only the selected provider has to pass; the others are listed for reference.
Each check displays a checkmark if passed or an X with advice if failed.`,
	Example: `  # Check everything
  occtl doctor

  # Check as the editor would for another project
  occtl doctor ~/src/api`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// A broken config is one of the findings, not a reason to stop.
		app, configErr := shared.Setup(cmd, args)

		report := health.RunHealthChecks(cmd.Context(), health.Inputs{
			Cmd:          app.Config.Cmd,
			ProjectRoot:  app.Root,
			ConfigErr:    configErr,
			ProviderName: app.Config.Provider,
			Selected:     app.Provider,
			SelectErr:    app.SelectErr,
			Descriptors:  app.Descriptors,
			Options:      app.Options,
		})
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		if !report.Passed {
			app.Notifier.Error(fmt.Sprintf("occtl doctor: %s failed", strings.Join(report.Failed(), ", ")))
			return shared.NewExitError(shared.ExitValidationFailed)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = shared.GroupConfiguration
}
