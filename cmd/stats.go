package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary numbers for the saved session",
	Long: `Show summary numbers for the saved session: code blocks, total lines,
execution and success counts, and the first and last activity times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		st, err := mgr.Stats()
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Session %q", mgr.Key())))
		fmt.Println()
		renderStats(st)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
