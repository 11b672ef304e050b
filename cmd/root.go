package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slate-console/internal"
	"slate-console/internal/session"
)

var (
	verbose    bool
	configPath string
	storePath  string
	sessionKey string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Interactive scripting console with persistent sessions",
	Long: `An interactive scripting console that runs code against a persistent
namespace, capturing printed output, errors and figures as it goes.

Sessions live in a local SQLite store and can be exported in various
formats (JSONL, Markdown, YAML, JSON), backed up and restored.

Features:
  • Persistent namespace across executions, with a live variable inspector
  • Captured stdout, stderr and figure output per execution
  • Loadable modules for plotting, matrices and statistics
  • Session snapshots with import/export and timestamped backups

Quick Start:
  slate repl                     # Start the interactive console
  slate run script.js            # Execute a script file
  slate export --format md       # Export the saved session as Markdown
  slate backup list              # List session backups`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetupLogging(verbose)
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if storePath != "" {
			loaded.Store.Path = storePath
		}
		if sessionKey != "" {
			loaded.Store.SessionKey = sessionKey
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the configured session store. An empty store path keeps
// sessions in memory for the lifetime of the process.
func openStore() (session.Store, func(), error) {
	if cfg.Store.Path == "" {
		return session.NewMemoryStore(), func() {}, nil
	}
	st, err := session.OpenSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

// openManager wires the configured store into a session manager.
func openManager() (*session.Manager, func(), error) {
	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return managerForStore(st), closeStore, nil
}

func managerForStore(st session.Store) *session.Manager {
	return session.NewManager(st, cfg.Store.SessionKey)
}

// newEngine builds an engine with the configured modules preloaded.
func newEngine() (*internal.Engine, error) {
	eng, err := internal.NewEngine()
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.Engine.Preload {
		if err := eng.ImportModule(name, ""); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the session database (default ~/.slate/slate.db)")
	rootCmd.PersistentFlags().StringVar(&sessionKey, "session-key", "", "Key the session is saved under")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
