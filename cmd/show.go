package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"slate-console/internal/session"
)

var (
	limit int
	since string
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 1)

	entryContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session transcript",
	Long: `Display the saved session entry by entry: the code that ran, what it
printed, errors, result values and how many figures it drew.`,
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
			return fmt.Errorf("no saved session under %q", mgr.Key())
		}

		displaySessionHeader(mgr.Key(), snap)

		// Pair code with its output record; history entries past the output
		// list render without one.
		entries := len(snap.CodeHistory)
		shown := 0
		var sinceTime *time.Time
		if since != "" {
			parsed, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			sinceTime = &parsed
		}

		for i := 0; i < entries; i++ {
			var rec *session.OutputRecord
			if i < len(snap.OutputHistory) {
				rec = &snap.OutputHistory[i]
			}
			if sinceTime != nil && !recordAfter(rec, *sinceTime) {
				continue
			}
			if limit > 0 && shown >= limit {
				remaining := countAfter(snap, i, sinceTime)
				fmt.Println()
				fmt.Println(timestampStyle.Render(fmt.Sprintf("... (%d more input(s))", remaining)))
				break
			}
			displayEntry(i+1, entries, snap.CodeHistory[i], rec)
			shown++
		}
		return nil
	},
}

func recordAfter(rec *session.OutputRecord, since time.Time) bool {
	if rec == nil || rec.Timestamp == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, rec.Timestamp)
	if err != nil {
		return false
	}
	return t.After(since) || t.Equal(since)
}

func countAfter(snap *session.Snapshot, from int, sinceTime *time.Time) int {
	count := 0
	for i := from; i < len(snap.CodeHistory); i++ {
		if sinceTime != nil {
			var rec *session.OutputRecord
			if i < len(snap.OutputHistory) {
				rec = &snap.OutputHistory[i]
			}
			if !recordAfter(rec, *sinceTime) {
				continue
			}
		}
		count++
	}
	return count
}

func displaySessionHeader(key string, snap *session.Snapshot) {
	header := sessionHeaderStyle.Render(fmt.Sprintf("Session %s", key))
	fmt.Println(header)

	var metaParts []string
	if snap.Timestamp != "" {
		metaParts = append(metaParts, fmt.Sprintf("Saved: %s", snap.Timestamp))
	}
	metaParts = append(metaParts, fmt.Sprintf("Executions: %d", len(snap.CodeHistory)))
	metaParts = append(metaParts, fmt.Sprintf("Variables: %d", len(snap.Variables)))
	fmt.Println(sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Println()
}

func displayEntry(index, total int, code string, rec *session.OutputRecord) {
	header := inputLabelStyle.Render(fmt.Sprintf("In [%d]", index)) + " " +
		timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if rec != nil && rec.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
			header += " " + timestampStyle.Render(t.Local().Format("15:04:05"))
		} else {
			header += " " + timestampStyle.Render(rec.Timestamp)
		}
	}
	if rec != nil && !rec.Success {
		header += " " + errorStyle.Render("failed")
	}
	fmt.Println(header)

	content := strings.TrimSpace(code)
	if content != "" {
		fmt.Println(entryContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Println(entryContentStyle.Foreground(lipgloss.Color("240")).Render("(empty input)"))
	}

	if rec == nil {
		fmt.Println()
		return
	}
	if out := strings.TrimRight(rec.Stdout, "\n"); out != "" {
		fmt.Println(entryContentStyle.Render(out))
	}
	if errText := strings.TrimRight(rec.Stderr, "\n"); errText != "" {
		fmt.Println(entryContentStyle.Render(errorStyle.Render(errText)))
	}
	if rec.Result != nil {
		fmt.Println(entryContentStyle.Render("=> " + *rec.Result))
	}
	if rec.Plots > 0 {
		fmt.Println(entryContentStyle.Render(timestampStyle.Render(fmt.Sprintf("%d figure(s)", rec.Plots))))
	}
	fmt.Println()
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		// Wrap long lines
		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of entries to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show entries since timestamp (ISO8601)")
}
