package util

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/occtl/internal/build"
	"github.com/ariel-frischer/occtl/internal/cli/shared"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for occtl",
	Example: `  # Show version info
  occtl version

  # Plain output (for scripts)
  occtl version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			fmt.Fprint(cmd.OutOrStdout(), build.Info())
			return
		}
		printPrettyVersion(cmd)
	},
}

func init() {
	versionCmd.GroupID = shared.GroupUtility
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}

func printPrettyVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if build.IsDevBuild() {
		fmt.Fprintln(out, cyan("occtl"), build.Version, "(development build)")
	} else {
		fmt.Fprintln(out, cyan("occtl"), build.Version)
	}
	info := []struct {
		label string
		value string
	}{
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(out, "  %s %s\n", yellow(fmt.Sprintf("%-9s", item.label)), item.value)
	}
}

// truncateCommit shortens commit hash to 7 characters
func truncateCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
