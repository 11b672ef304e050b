package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"slate-console/internal/session"
)

// MarkdownExporter renders the session as a readable transcript
type MarkdownExporter struct{}

// Export writes the snapshot as a markdown document with one section per
// execution and a closing variables table.
func (e *MarkdownExporter) Export(snap *session.Snapshot, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Console Session\n\n")
	_, _ = fmt.Fprintf(w, "**Exported:** %s  \n", snap.Timestamp)
	_, _ = fmt.Fprintf(w, "**Format:** %s  \n", snap.Version)
	_, _ = fmt.Fprintf(w, "**Executions:** %d\n\n", len(snap.CodeHistory))

	for i, code := range snap.CodeHistory {
		_, _ = fmt.Fprintf(w, "---\n\n")
		_, _ = fmt.Fprintf(w, "## In [%d]\n\n", i+1)
		_, _ = fmt.Fprintf(w, "```js\n%s\n```\n\n", strings.TrimRight(code, "\n"))

		if i >= len(snap.OutputHistory) {
			continue
		}
		rec := snap.OutputHistory[i]
		if rec.Stdout != "" {
			_, _ = fmt.Fprintf(w, "```\n%s\n```\n\n", strings.TrimRight(rec.Stdout, "\n"))
		}
		if !rec.Success && rec.Stderr != "" {
			_, _ = fmt.Fprintf(w, "**Error:**\n\n```\n%s\n```\n\n", strings.TrimRight(rec.Stderr, "\n"))
		}
		if rec.Result != nil {
			_, _ = fmt.Fprintf(w, "Result: `%s`\n\n", escapeCell(*rec.Result))
		}
		if rec.Plots > 0 {
			_, _ = fmt.Fprintf(w, "*%d figure(s)*\n\n", rec.Plots)
		}
	}

	if len(snap.Variables) > 0 {
		_, _ = fmt.Fprintf(w, "---\n\n")
		_, _ = fmt.Fprintf(w, "## Variables\n\n")
		_, _ = fmt.Fprintf(w, "| Name | Type | Size | Value |\n")
		_, _ = fmt.Fprintf(w, "|------|------|------|-------|\n")

		names := make([]string, 0, len(snap.Variables))
		for name := range snap.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := snap.Variables[name]
			_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				escapeCell(name), escapeCell(v.Type), escapeCell(v.Size), escapeCell(v.Repr))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	return nil
}

// escapeCell keeps table cells on one line with pipes intact
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
