package config

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/health"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the terminal providers",
	Long: `List the built-in providers in auto-selection order. The provider the
current configuration selects is marked with *, and each line shows what the
provider can do.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := shared.Setup(cmd, args)
		if err != nil {
			return err
		}
		selected := ""
		if app.Provider != nil {
			selected = app.Provider.Name()
		}
		return writeProviders(cmd.OutOrStdout(), app.Descriptors, app.Options, selected)
	},
}

func init() {
	providersCmd.GroupID = shared.GroupConfiguration
}

// writeProviders constructs each descriptor to list its capabilities.
// Construction spawns nothing.
func writeProviders(w io.Writer, descriptors []provider.Descriptor, opts provider.Options, selected string) error {
	for _, d := range descriptors {
		mark := " "
		if d.Name == selected {
			mark = "*"
		}
		var caps string
		if p, err := d.New(opts); err != nil {
			caps = "unavailable: " + err.Error()
		} else {
			caps = health.Capabilities(p)
		}
		if _, err := fmt.Fprintf(w, "%s %-9s %s\n", mark, d.Name, caps); err != nil {
			return err
		}
	}
	return nil
}
