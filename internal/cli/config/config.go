package config

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/occtl/internal/cli/shared"
	cfgpkg "github.com/ariel-frischer/occtl/internal/config"
	clierrors "github.com/ariel-frischer/occtl/internal/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration as JSON, followed by the files it was
loaded from.

Sources are layered, later ones winning: defaults, the global file
(~/.config/occtl/config.json), the local file (./.occtl.json or --config),
and OCCTL_* environment variables. Nested keys use a double underscore,
e.g. OCCTL_EVENTS__ENABLED=true.`,
	Example: `  # Show the configuration
  occtl config

  # Use tmux with a horizontal split everywhere
  occtl config set provider tmux
  occtl config set tmux.options "-v -l 40%"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := cfgpkg.Load(configPath)
		if err != nil {
			return err
		}
		return cfgpkg.Show(cmd.OutOrStdout(), cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the global config file, or with --project in
the local one. The value is validated against the key's type first.`,
	Example: `  # Subscribe to events after toggle and start
  occtl config set events.enabled true

  # Pin the server port for this project only
  occtl config set port 4096 --project`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Print the effective value of a configuration key.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		keyPath, err := knownKeyPath(key)
		if err != nil {
			return err
		}
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := cfgpkg.Load(configPath)
		if err != nil {
			return err
		}
		value, err := effectiveValue(cfg, keyPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, value)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all available configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeKeys(cmd.OutOrStdout())
	},
}

func init() {
	configCmd.GroupID = shared.GroupConfiguration

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configKeysCmd)

	configSetCmd.Flags().Bool("project", false, "Set in the local config file instead of the global one")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if _, err := knownKeyPath(key); err != nil {
		return err
	}

	path, scope := targetFile(cmd)
	if path == "" {
		return clierrors.NewConfigError("cannot determine the global config path",
			"Set HOME or XDG_CONFIG_HOME, or use --project")
	}
	if err := cfgpkg.SetConfigValue(path, key, value); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "setting "+key)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s config (%s)\n", key, value, scope, path)
	return nil
}

// targetFile returns the file config set writes to and its scope label.
func targetFile(cmd *cobra.Command) (string, string) {
	project, _ := cmd.Flags().GetBool("project")
	if !project {
		return cfgpkg.GlobalPath(), "global"
	}
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		return configPath, "local"
	}
	return cfgpkg.LocalFileName, "local"
}

func knownKeyPath(key string) ([]string, error) {
	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return nil, clierrors.NewArgumentError(err.Error(), "Run 'occtl config keys' to list valid keys")
	}
	return cfgpkg.ParseKeyPath(key)
}

// effectiveValue reads keyPath out of the loaded configuration by way of its
// JSON form, so the key names match the files.
func effectiveValue(cfg *cfgpkg.Configuration, keyPath []string) (interface{}, error) {
	doc, err := cfgpkg.Document(cfg)
	if err != nil {
		return nil, err
	}
	value, ok := cfgpkg.GetNestedValue(doc, keyPath)
	if !ok {
		return nil, fmt.Errorf("%v not present in configuration", keyPath)
	}
	return value, nil
}

func writeKeys(w io.Writer) error {
	for _, key := range cfgpkg.SortedKeys() {
		schema := cfgpkg.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = fmt.Sprintf("%s %v", typ, schema.AllowedValues)
		}
		if _, err := fmt.Fprintf(w, "%-22s %-10s %s\n", key, typ, schema.Description); err != nil {
			return err
		}
	}
	return nil
}
