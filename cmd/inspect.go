package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slate-console/internal/session"
)

var (
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the raw contents of the session store",
	Long: `Inspect what the session store really holds, key by key.

Every key is listed with its size and, when the value decodes as a
session snapshot, its format version, execution count and timestamp.
Useful for debugging a store that export or restore refuses to read.

Examples:
  slate inspect                          # Inspect the default store
  slate inspect --store /path/to/db      # Inspect a specific database
  slate inspect --sample 5               # Show 5 history entries per session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer closeStore()

		keys, err := store.Keys("")
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}

		storeDesc := cfg.Store.Path
		if storeDesc == "" {
			storeDesc = "(in-memory)"
		}
		fmt.Printf("Store: %s\n", storeDesc)
		fmt.Printf("Found %d key(s)\n\n", len(keys))

		for _, key := range keys {
			if err := inspectKey(store, key); err != nil {
				fmt.Printf("⚠️  Error inspecting key %s: %v\n", key, err)
				continue
			}
			fmt.Println()
		}
		return nil
	},
}

func inspectKey(store session.Store, key string) error {
	value, ok, err := store.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("key vanished while listing")
	}

	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Key: %s\n", key)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Bytes: %d\n", len(value))

	snap, err := session.Decode([]byte(value))
	if err != nil {
		fmt.Printf("Snapshot: no (%v)\n", err)
		fmt.Printf("Preview: %s\n", previewValue(value))
		return nil
	}

	fmt.Printf("Snapshot: yes (format %s)\n", snap.Version)
	fmt.Printf("Saved: %s\n", snap.Timestamp)
	fmt.Printf("Executions: %d\n", len(snap.CodeHistory))
	fmt.Printf("Variables: %d\n", len(snap.Variables))

	if inspectSampleRows > 0 && len(snap.CodeHistory) > 0 {
		limit := inspectSampleRows
		if limit > len(snap.CodeHistory) {
			limit = len(snap.CodeHistory)
		}
		fmt.Printf("\nSample history (first %d of %d):\n", limit, len(snap.CodeHistory))
		for i := 0; i < limit; i++ {
			status := "ok"
			if i < len(snap.OutputHistory) && !snap.OutputHistory[i].Success {
				status = "failed"
			}
			fmt.Printf("  [%d] (%s) %s\n", i+1, status, firstLine(snap.CodeHistory[i], 60))
		}
	}
	return nil
}

// previewValue shows the head of an undecodable value on one line.
func previewValue(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i] + "..."
	}
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of history entries to show per session")
}
