package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"slate-console/internal"
	"slate-console/internal/session"
)

var (
	runSnippet string
	runSave    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a script file or a one-line expression",
	Long: `Execute a script file against a fresh namespace and print what it
produced. With --eval the argument is evaluated as an expression and its
value printed instead.

The process exits non-zero when execution fails. With --save the run is
written to the session store, where export and backup can pick it up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runSnippet == "" && len(args) == 0 {
			return fmt.Errorf("nothing to run: pass a script file or --eval")
		}
		if runSnippet != "" && len(args) > 0 {
			return fmt.Errorf("pass either a script file or --eval, not both")
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		var src string
		var res *internal.Result
		if runSnippet != "" {
			src = runSnippet
			res = eng.Evaluate(src)
		} else {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			src = string(data)
			res = eng.Execute(src)
		}

		fmt.Print(res.Stdout)
		if res.Value != nil {
			fmt.Println(res.Value.String())
		}
		for _, fig := range res.Plots {
			internal.PrintInfo(fmt.Sprintf("figure: %s", fig.String()))
		}
		if !res.Success {
			fmt.Fprint(os.Stderr, res.Stderr)
		}

		if runSave {
			mgr, closeStore, err := openManager()
			if err != nil {
				return err
			}
			defer closeStore()
			snap := session.BuildSnapshot([]string{src}, []*internal.Result{res}, eng.Variables(), time.Now())
			if err := mgr.Save(snap); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Session saved under %q", mgr.Key()))
		}

		if !res.Success {
			return fmt.Errorf("execution failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runSnippet, "eval", "e", "", "Evaluate an expression instead of a file")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Save the run to the session store")
}
