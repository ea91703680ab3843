package cmd

import (
	"github.com/spf13/cobra"
)

var startHeadless bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the desk pet with a pomodoro already started",
	Long: `Bring the pet up and immediately begin a pomodoro work phase.
Press p in the pet window to stop it again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPet(cmd.Context(), runOptions{headless: startHeadless, startPomodoro: true})
	},
}

func init() {
	startCmd.Flags().BoolVar(&startHeadless, "headless", false, "Run without the terminal UI")
}
