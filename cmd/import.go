package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slate-console/internal"
	"slate-console/internal/session"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported session file into the store",
	Long: `Import a session from a JSON export and save it under the configured
session key, replacing whatever is stored there. JSON is the only
importable format; the other exports are one-way.

Variable values in the file are previews and are not rebuilt into a
namespace; loading the session in the repl restores code and output
history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		snap, err := session.Decode(data)
		if err != nil {
			return err
		}

		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := mgr.Save(snap); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Imported %d execution(s) into %q", len(snap.CodeHistory), mgr.Key()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
