package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"slate-console/internal"
	"slate-console/internal/export"
	"slate-console/internal/session"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive console",
	Long: `Start an interactive console session.

Code runs against a persistent namespace: variables defined in one input
stay available in the next. Printed output, errors and figures are
captured per input. End a line with \ to continue it on the next one, or
use :paste for a whole block.

Meta commands (:help lists them all) inspect variables, search and re-run
history, and save, load, export, import, back up and restore the session.`,
	RunE: runREPL,
}

// replSession holds the live console state for one interactive run. The
// output history is kept in serialized form so loading, importing and
// saving all work on the same records the store holds.
type replSession struct {
	engine  *internal.Engine
	manager *session.Manager
	in      *bufio.Scanner
	code    []string
	outputs []session.OutputRecord
}

func runREPL(cmd *cobra.Command, args []string) error {
	if !cfg.Console.Colors {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	mgr, closeStore, err := openManager()
	if err != nil {
		return err
	}
	defer closeStore()

	rs := &replSession{engine: eng, manager: mgr}
	rs.in = bufio.NewScanner(os.Stdin)
	rs.in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println(headerStyle.Render(fmt.Sprintf("slate %s", version)))
	fmt.Println(dimStyle.Render("Type :help for commands, :quit to leave."))
	if _, ok, err := mgr.Load(); err == nil && ok {
		fmt.Println(dimStyle.Render(fmt.Sprintf("A saved session exists under %q. Use :load to restore it.", mgr.Key())))
	}
	fmt.Println()

	var pending []string
	for {
		prompt := cfg.Console.Prompt
		if len(pending) > 0 {
			prompt = strings.Repeat(".", len(strings.TrimRight(prompt, " "))) + " "
		}
		fmt.Print(promptStyle.Render(prompt))

		if !rs.in.Scan() {
			fmt.Println()
			return rs.in.Err()
		}
		line := rs.in.Text()

		if len(pending) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			quit, err := rs.dispatch(strings.TrimSpace(line))
			if err != nil {
				internal.PrintError(err.Error())
			}
			if quit {
				return nil
			}
			continue
		}

		if strings.HasSuffix(line, "\\") {
			pending = append(pending, strings.TrimSuffix(line, "\\"))
			continue
		}
		pending = append(pending, line)
		src := strings.Join(pending, "\n")
		pending = pending[:0]
		if strings.TrimSpace(src) == "" {
			continue
		}
		rs.execute(src)
	}
}

// execute runs one input and appends it to the session history.
func (rs *replSession) execute(src string) {
	res := rs.engine.Execute(src)
	rs.code = append(rs.code, src)
	rs.outputs = append(rs.outputs, session.NewOutputRecord(res, time.Now()))
	renderResult(res)
}

func renderResult(res *internal.Result) {
	printBlock(os.Stdout, res.Stdout, nil)
	printBlock(os.Stdout, res.Stderr, &failStyle)
	for _, fig := range res.Plots {
		fmt.Println(dimStyle.Render("[figure] " + fig.String()))
	}
}

func renderEval(res *internal.Result) {
	printBlock(os.Stdout, res.Stdout, nil)
	printBlock(os.Stdout, res.Stderr, &failStyle)
	if res.Success && res.Value != nil {
		fmt.Println(countStyle.Render("=>") + " " + res.Value.String())
	}
}

// printBlock writes captured output, keeping the cursor on a fresh line
// and optionally styling the whole block.
func printBlock(w *os.File, text string, style *lipgloss.Style) {
	if text == "" {
		return
	}
	text = strings.TrimRight(text, "\n")
	if style != nil {
		text = style.Render(text)
	}
	_, _ = fmt.Fprintln(w, text)
}

// dispatch handles one :meta command line. It reports whether the REPL
// should exit.
func (rs *replSession) dispatch(line string) (bool, error) {
	fields := strings.Fields(line)
	command := fields[0]
	args := fields[1:]

	switch command {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help", ":h":
		printREPLHelp()
	case ":vars":
		rs.showVariables()
	case ":history":
		rs.showHistory(args)
	case ":search":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: :search <text>")
		}
		rs.searchHistory(strings.Join(args, " "))
	case ":rerun":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: :rerun <n>")
		}
		return false, rs.rerun(args[0])
	case ":eval":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: :eval <expression>")
		}
		renderEval(rs.engine.Evaluate(strings.Join(args, " ")))
	case ":paste":
		rs.paste()
	case ":reset":
		if err := rs.engine.Reset(); err != nil {
			return false, err
		}
		internal.PrintSuccess("Namespace reset. History kept; use :history clear to drop it.")
	case ":drop":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: :drop <name>")
		}
		removed, err := rs.engine.Unset(args[0])
		if err != nil {
			return false, err
		}
		if removed {
			internal.PrintSuccess(fmt.Sprintf("Dropped %s", args[0]))
		} else {
			internal.PrintWarning(fmt.Sprintf("No variable named %s", args[0]))
		}
	case ":save":
		if err := rs.manager.Save(rs.snapshot()); err != nil {
			return false, err
		}
		internal.PrintSuccess(fmt.Sprintf("Session saved under %q", rs.manager.Key()))
	case ":load":
		snap, ok, err := rs.manager.Load()
		if err != nil {
			return false, err
		}
		if !ok {
			internal.PrintWarning(fmt.Sprintf("No saved session under %q", rs.manager.Key()))
			return false, nil
		}
		rs.adopt(snap)
		internal.PrintSuccess(fmt.Sprintf("Loaded %d execution(s) from %q", len(snap.CodeHistory), rs.manager.Key()))
	case ":export":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("usage: :export <file> [format]")
		}
		return false, rs.exportTo(args)
	case ":import":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: :import <file>")
		}
		return false, rs.importFrom(args[0])
	case ":backup":
		key, err := rs.manager.CreateBackup(rs.snapshot())
		if err != nil {
			return false, err
		}
		internal.PrintSuccess(fmt.Sprintf("Backup created: %s", key))
	case ":backups":
		return false, rs.showBackups()
	case ":restore":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: :restore <key|n>")
		}
		return false, rs.restore(args[0])
	case ":stats":
		renderStats(session.SnapshotStats(rs.snapshot()))
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", command)
	}
	return false, nil
}

// snapshot captures the live console state.
func (rs *replSession) snapshot() *session.Snapshot {
	vars := session.RecordVariables(rs.engine.Variables())
	return session.NewSnapshot(rs.code, rs.outputs, vars, time.Now())
}

// adopt replaces the console history with a snapshot's. Variables are not
// rebuilt into the namespace; the snapshot only carries previews.
func (rs *replSession) adopt(snap *session.Snapshot) {
	rs.code = append([]string(nil), snap.CodeHistory...)
	rs.outputs = append([]session.OutputRecord(nil), snap.OutputHistory...)
	if len(snap.Variables) > 0 {
		internal.PrintWarning("Variables were not restored into the namespace; re-run history to rebuild them.")
	}
}

func (rs *replSession) showVariables() {
	vars := rs.engine.Variables()
	if len(vars) == 0 {
		fmt.Println(headerStyle.Render("No variables defined"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("%d variable(s)", len(vars)))
	fmt.Println(header)
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Size")+"\t"+titleStyle.Render("Value")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, name := range rs.engine.UserNames() {
		info, ok := vars[name]
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			nameStyle.Render(name),
			typeStyle.Render(info.Type),
			dimStyle.Render(info.Size),
			info.Repr)
	}
	_ = w.Flush()
}

func (rs *replSession) showHistory(args []string) {
	if len(args) == 1 && args[0] == "clear" {
		rs.code = nil
		rs.outputs = nil
		internal.PrintSuccess("History cleared. Variables kept; use :reset to drop them.")
		return
	}

	window := cfg.Console.HistoryWindow
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			window = n
		}
	}
	if len(rs.code) == 0 {
		fmt.Println(headerStyle.Render("History is empty"))
		return
	}

	start := len(rs.code) - window
	if start < 0 {
		start = 0
	}
	for i := start; i < len(rs.code); i++ {
		rs.printHistoryEntry(i)
	}
	if start > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("(%d earlier entries, :history %d to see them)", start, len(rs.code))))
	}
}

func (rs *replSession) printHistoryEntry(i int) {
	mark := countStyle.Render("✓")
	if i < len(rs.outputs) && !rs.outputs[i].Success {
		mark = failStyle.Render("✗")
	}
	fmt.Printf("%s %s %s\n",
		dimStyle.Render(fmt.Sprintf("[%d]", i+1)),
		mark,
		firstLine(rs.code[i], 70))
}

func (rs *replSession) searchHistory(text string) {
	needle := strings.ToLower(text)
	found := 0
	for i, code := range rs.code {
		if strings.Contains(strings.ToLower(code), needle) {
			rs.printHistoryEntry(i)
			found++
		}
	}
	if found == 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("No history entries match %q", text)))
	}
}

func (rs *replSession) rerun(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(rs.code) {
		return fmt.Errorf("no history entry %q (have 1..%d)", arg, len(rs.code))
	}
	src := rs.code[n-1]
	fmt.Println(dimStyle.Render(fmt.Sprintf("Re-running [%d]:", n)))
	fmt.Println(dimStyle.Render(firstLine(src, 70)))
	rs.execute(src)
	return nil
}

// paste collects lines until a single "." and runs them as one block.
func (rs *replSession) paste() {
	fmt.Println(dimStyle.Render("Paste mode. Finish with a single '.' on its own line."))
	var lines []string
	for {
		fmt.Print(promptStyle.Render("| "))
		if !rs.in.Scan() {
			break
		}
		line := rs.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	src := strings.Join(lines, "\n")
	if strings.TrimSpace(src) == "" {
		return
	}
	rs.execute(src)
}

func (rs *replSession) exportTo(args []string) error {
	path := args[0]
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if len(args) == 2 {
		format = args[1]
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := exporter.Export(rs.snapshot(), file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to export session: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", path, err)
	}
	internal.PrintSuccess(fmt.Sprintf("Exported %d execution(s) to %s", len(rs.code), path))
	return nil
}

func (rs *replSession) importFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	snap, err := session.Decode(data)
	if err != nil {
		return err
	}
	rs.adopt(snap)
	internal.PrintSuccess(fmt.Sprintf("Imported %d execution(s) from %s", len(snap.CodeHistory), path))
	return nil
}

func (rs *replSession) showBackups() error {
	keys, err := rs.manager.ListBackups()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println(headerStyle.Render("No backups"))
		return nil
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%d backup(s), newest first", len(keys))))
	for i, key := range keys {
		fmt.Printf("%s %s %s\n",
			dimStyle.Render(fmt.Sprintf("[%d]", i+1)),
			nameStyle.Render(key),
			dimStyle.Render(formatBackupTime(rs.manager.Key(), key)))
	}
	return nil
}

func (rs *replSession) restore(arg string) error {
	key := arg
	if n, err := strconv.Atoi(arg); err == nil {
		keys, err := rs.manager.ListBackups()
		if err != nil {
			return err
		}
		if n < 1 || n > len(keys) {
			return fmt.Errorf("no backup %d (have 1..%d)", n, len(keys))
		}
		key = keys[n-1]
	}
	snap, err := rs.manager.RestoreBackup(key)
	if err != nil {
		return err
	}
	rs.adopt(snap)
	internal.PrintSuccess(fmt.Sprintf("Restored %s (%d executions)", key, len(snap.CodeHistory)))
	return nil
}

func renderStats(st *session.Stats) {
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	row := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", dimStyle.Render(label), value)
	}
	row("Code blocks", countStyle.Render(strconv.Itoa(st.CodeBlocks)))
	row("Total lines", countStyle.Render(strconv.Itoa(st.TotalLines)))
	row("Executions", countStyle.Render(strconv.Itoa(st.ExecutionCount)))
	row("Successful", countStyle.Render(strconv.Itoa(st.SuccessfulExecutions)))
	row("Session start", formatStatsTime(st.SessionStart))
	row("Last activity", formatStatsTime(st.LastActivity))
	_ = w.Flush()
}

func printREPLHelp() {
	fmt.Println(headerStyle.Render("Console commands"))
	fmt.Println()
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	row := func(cmd, desc string) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", nameStyle.Render(cmd), dimStyle.Render(desc))
	}
	row(":vars", "List variables with type, size and value")
	row(":history [n|clear]", "Show the last n inputs, or clear the history")
	row(":search <text>", "Find history entries containing text")
	row(":rerun <n>", "Run history entry n again")
	row(":eval <expr>", "Evaluate an expression and print its value")
	row(":paste", "Enter a multi-line block, finish with '.'")
	row(":reset", "Reset the namespace, keeping history")
	row(":drop <name>", "Remove one variable")
	row(":save / :load", "Save or load the session in the store")
	row(":export <file> [fmt]", "Write the session as json, jsonl, md or yaml")
	row(":import <file>", "Load histories from an exported JSON file")
	row(":backup / :backups", "Create or list timestamped backups")
	row(":restore <key|n>", "Restore a backup into the store and console")
	row(":stats", "Show summary numbers for this session")
	row(":quit", "Leave the console")
	_ = w.Flush()
	fmt.Println()
	fmt.Println(dimStyle.Render("Anything else runs as code. End a line with \\ to continue it."))
	fmt.Println(dimStyle.Render("Inside code: help() lists builtins, use('plot') imports a module."))
}

// firstLine returns the first line of src, truncated for display.
func firstLine(src string, max int) string {
	line := src
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		line = src[:i] + " ..."
	}
	runes := []rune(line)
	if len(runes) > max {
		line = string(runes[:max]) + "..."
	}
	return line
}

// formatBackupTime renders the timestamp a backup key carries.
func formatBackupTime(sessionKey, backupKey string) string {
	stamp := strings.TrimPrefix(backupKey, sessionKey+"_backup_")
	t, err := time.ParseInLocation("20060102_150405", stamp, time.Local)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatStatsTime(stamp string) string {
	if stamp == "" {
		return dimStyle.Render("-")
	}
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return stamp
}

func init() {
	rootCmd.AddCommand(replCmd)
}
