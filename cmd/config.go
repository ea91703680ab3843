package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change the configuration",
	Long: `Show the effective configuration, change single keys, or print the
path of the config file. Durations take Go syntax such as 30s or 25m.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one configuration key",
	Long:  `Change one configuration key, e.g. "deskpet config set pomodoro.work_duration 50m".`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func showConfig(out io.Writer) error {
	values := config.Values(app.config)
	if jsonOutput {
		plain := make(map[string]string, len(values))
		for key, value := range values {
			plain[key] = fmt.Sprint(value)
		}
		return writeJSON(out, plain)
	}

	for _, key := range config.Keys() {
		fmt.Fprintf(out, "%-32s %v\n", key, values[key])
	}
	return nil
}
