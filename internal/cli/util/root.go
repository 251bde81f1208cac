package util

import (
	"fmt"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/root"
	"github.com/spf13/cobra"
)

var rootDirCmd = &cobra.Command{
	Use:   "root [dir]",
	Short: "Print the resolved project root",
	Long: `Print the directory occtl would scope the assistant to.

The first usable answer wins: [dir] if it is an existing directory, the git
repository root, the directory of --file, the first --lsp-root, and finally
the working directory.`,
	Example: `  # From inside a repository
  occtl root

  # As an editor would call it
  occtl root --file /src/app/cmd/main.go --lsp-root /src/app`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logger.Init(debug)

		file, _ := cmd.Flags().GetString("file")
		lspRoots, _ := cmd.Flags().GetStringArray("lsp-root")
		probes := root.System{Positional: args, File: file, LanguageServerRoots: lspRoots}

		fmt.Fprintln(cmd.OutOrStdout(), root.Resolve(cmd.Context(), probes))
		return nil
	},
}

func init() {
	rootDirCmd.GroupID = shared.GroupUtility
}
