// Package control provides the commands that drive the assistant:
// toggle, start, stop and events.
package control

import (
	"github.com/spf13/cobra"
)

// Register adds the assistant commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(eventsCmd)
}
