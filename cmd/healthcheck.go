package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"slate-console/internal"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the console, store and modules all work",
	Long: `Check the health of the console by verifying:
  • Configuration
  • Session store access (write, read, delete round trip)
  • Engine execution
  • Module imports
  • Saved session state

This command is useful for debugging store issues, especially with a
custom --store or --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("Slate Health Check"))
		fmt.Println()

		// Step 1: configuration
		fmt.Println(infoStyle.Render("Step 1: Checking configuration..."))
		fmt.Println(successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			storeDesc := cfg.Store.Path
			if storeDesc == "" {
				storeDesc = "(in-memory)"
			}
			fmt.Printf("   Store path: %s\n", storeDesc)
			fmt.Printf("   Session key: %s\n", cfg.Store.SessionKey)
			fmt.Printf("   Preload: %v\n", cfg.Engine.Preload)
		}
		fmt.Println()

		// Step 2: store round trip
		fmt.Println(infoStyle.Render("Step 2: Testing store access..."))
		store, closeStore, err := openStore()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to open store:"), err)
			os.Exit(1)
		}
		defer closeStore()

		probeKey := cfg.Store.SessionKey + "_healthcheck_probe"
		if err := store.Put(probeKey, "ok"); err != nil {
			fmt.Println(errorStyle.Render("❌ Store write failed:"), err)
			os.Exit(1)
		}
		value, ok, err := store.Get(probeKey)
		if err != nil || !ok || value != "ok" {
			fmt.Println(errorStyle.Render("❌ Store read failed:"), err)
			os.Exit(1)
		}
		if err := store.Delete(probeKey); err != nil {
			fmt.Println(errorStyle.Render("❌ Store delete failed:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Store round trip succeeded"))
		fmt.Println()

		// Step 3: engine execution
		fmt.Println(infoStyle.Render("Step 3: Testing the engine..."))
		eng, err := internal.NewEngine()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to start engine:"), err)
			os.Exit(1)
		}
		res := eng.Evaluate("2 + 2")
		if !res.Success || res.Value == nil || res.Value.String() != "4" {
			fmt.Println(errorStyle.Render("❌ Engine produced a wrong answer:"), res.Stderr)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Engine evaluates"))
		fmt.Println()

		// Step 4: module imports
		fmt.Println(infoStyle.Render("Step 4: Importing modules..."))
		modulesOK := true
		for _, name := range internal.ModuleNames() {
			if err := eng.ImportModule(name, ""); err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Module %s failed:", name)), err)
				modulesOK = false
				continue
			}
			if healthcheckVerbose {
				fmt.Printf("   %s: %s\n", name, internal.ModuleDoc(name))
			}
		}
		if modulesOK {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ %d module(s) import cleanly", len(internal.ModuleNames()))))
		}
		fmt.Println()

		// Step 5: saved session
		fmt.Println(infoStyle.Render("Step 5: Checking the saved session..."))
		mgr := managerForStore(store)
		snap, found, err := mgr.Load()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Saved session is unreadable:"), err)
			os.Exit(1)
		}
		if found {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Saved session found (%d executions)", len(snap.CodeHistory))))
			if healthcheckVerbose {
				fmt.Printf("   Format version: %s\n", snap.Version)
				fmt.Printf("   Last saved: %s\n", snap.Timestamp)
			}
		} else {
			fmt.Println(warningStyle.Render("⚠️  No saved session yet"))
			fmt.Println("   Sessions are created with :save in the repl or run --save.")
		}
		fmt.Println()

		// Summary
		fmt.Println(sectionStyle.Render("Summary"))
		fmt.Println()
		if !modulesOK {
			fmt.Println(errorStyle.Render("❌ Health check failed"))
			fmt.Println("   • One or more modules did not import")
			return fmt.Errorf("health check failed: module import")
		}
		fmt.Println(successStyle.Render("✅ Health check passed!"))
		fmt.Println(successStyle.Render("   • Store: working"))
		fmt.Println(successStyle.Render("   • Engine: working"))
		if found {
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Session: %d execution(s) saved", len(snap.CodeHistory))))
		} else {
			fmt.Println(successStyle.Render("   • Session: none saved yet"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
