package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"slate-console/internal"
)

// backupCmd groups the backup subcommands
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage session backups",
	Long: `Create, list, restore and delete backups of the saved session.

Backups live in the same store as the session, under keys carrying the
session key plus a timestamp, so their names sort chronologically.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		snap, ok, err := mgr.Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no saved session under %q, nothing to back up", mgr.Key())
		}
		key, err := mgr.CreateBackup(snap)
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Backup created: %s", key))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		keys, err := mgr.ListBackups()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println(headerStyle.Render("No backups"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d backup(s)", len(keys))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Key")+"\t"+titleStyle.Render("Created")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 70))
		for _, key := range keys {
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n",
				nameStyle.Render(key),
				dimStyle.Render(formatBackupTime(mgr.Key(), key)))
		}
		_ = w.Flush()
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <key>",
	Short: "Restore a backup into the saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		snap, err := mgr.RestoreBackup(args[0])
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Restored %s (%d executions) into %q", args[0], len(snap.CodeHistory), mgr.Key()))
		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, closeStore, err := openManager()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := mgr.DeleteBackup(args[0]); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Deleted %s", args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
}
