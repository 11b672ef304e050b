package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slate-console/internal"
	"slate-console/internal/export"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the saved session to a file",
	Long: `Export the saved session to various formats (jsonl, md, yaml, json).

The session is read from the configured store under the configured key;
use --session-key to pick a different one. The output file is named after
the session key with the format's extension.`,
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
			return fmt.Errorf("no saved session under %q (save one with :save in the repl)", mgr.Key())
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		// Ensure output directory exists
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		filename := fmt.Sprintf("%s.%s", mgr.Key(), exporter.Extension())
		path := filepath.Join(outputDir, filename)

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", path, err)
		}
		if err := exporter.Export(snap, file); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to export session: %w", err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close file %s: %w", path, err)
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d execution(s) written to %s", len(snap.CodeHistory), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
}
