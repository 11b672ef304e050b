package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// sourceName labels compiled chunks in error positions and stack traces.
const sourceName = "<console>"

// Result captures everything one execution produced. Failures are part
// of the result rather than an error: Success is false, Stderr holds the
// formatted exception and Stdout keeps whatever was printed before the
// failure.
type Result struct {
	Success  bool
	Stdout   string
	Stderr   string
	Value    goja.Value
	Plots    []*Figure
	Duration time.Duration
}

// Engine executes source text against a persistent namespace, capturing
// printed output and figures along the way. Bindings survive between
// calls until Reset. An engine is safe for concurrent use; calls on the
// same engine are serialized.
type Engine struct {
	mu     sync.Mutex
	ns     *Namespace
	canvas *Canvas
	stdout io.Writer
	stderr io.Writer
}

// NewEngine returns an engine with a fresh namespace and an empty canvas.
func NewEngine() (*Engine, error) {
	e := &Engine{
		canvas: newCanvas(),
		stdout: io.Discard,
		stderr: io.Discard,
	}
	ns, err := newNamespace(e)
	if err != nil {
		return nil, fmt.Errorf("namespace setup: %w", err)
	}
	e.ns = ns
	return e, nil
}

// Execute compiles and runs src as a statement block. The completion
// value is discarded; scripts communicate through print and bindings.
// Figures drawn during the run are gathered into the result.
func (e *Engine) Execute(src string) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var stdout bytes.Buffer
	// Both sinks share one capture so console.error interleaves with
	// print in execution order; Stderr reports failures only.
	restore := e.redirect(&stdout, &stdout)
	defer restore()
	e.canvas.clear()

	res := &Result{}
	prog, err := goja.Compile(sourceName, src, false)
	if err == nil {
		_, err = e.runProgram(prog)
	}
	res.Stdout = stdout.String()
	if err != nil {
		res.Stderr = formatException(err)
	} else {
		res.Success = true
		res.Plots = e.canvas.gather()
	}
	res.Duration = time.Since(start)

	log.Debug().
		Bool("success", res.Success).
		Int("plots", len(res.Plots)).
		Dur("duration", res.Duration).
		Msg("execute")
	return res
}

// Evaluate compiles src in expression position and runs it. The value it
// produces is returned in the result; the canvas is left alone and no
// figures are gathered.
func (e *Engine) Evaluate(src string) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	var stdout bytes.Buffer
	restore := e.redirect(&stdout, &stdout)
	defer restore()

	res := &Result{}
	prog, err := goja.Compile(sourceName, "("+src+"\n)", false)
	if err == nil {
		res.Value, err = e.runProgram(prog)
	}
	res.Stdout = stdout.String()
	if err != nil {
		res.Stderr = formatException(err)
		res.Value = nil
	} else {
		res.Success = true
		if res.Value != nil && goja.IsUndefined(res.Value) {
			res.Value = nil
		}
	}
	res.Duration = time.Since(start)

	log.Debug().
		Bool("success", res.Success).
		Dur("duration", res.Duration).
		Msg("evaluate")
	return res
}

// runProgram runs prog on the namespace runtime, converting panics out
// of host callbacks into errors.
func (e *Engine) runProgram(prog *goja.Program) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ex, ok := r.(*goja.Exception); ok {
				err = ex
				return
			}
			err = fmt.Errorf("interpreter panic: %v", r)
		}
	}()
	return e.ns.vm.RunProgram(prog)
}

// redirect points the print and console sinks at the given writers and
// returns a function restoring the previous ones.
func (e *Engine) redirect(out, errw io.Writer) func() {
	prevOut, prevErr := e.stdout, e.stderr
	e.stdout, e.stderr = out, errw
	return func() {
		e.stdout, e.stderr = prevOut, prevErr
	}
}

func (e *Engine) writeOut(s string) {
	_, _ = io.WriteString(e.stdout, s)
}

func (e *Engine) writeErr(s string) {
	_, _ = io.WriteString(e.stderr, s)
}

// Set binds a host value into the namespace.
func (e *Engine) Set(name string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ns.set(name, value)
}

// Unset removes a user binding and reports whether one was removed.
// Reserved console names are refused.
func (e *Engine) Unset(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ns.unset(name)
}

// CountUserDefined reports how many user bindings the namespace holds.
func (e *Engine) CountUserDefined() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ns.userNames())
}

// UserNames lists user bindings in namespace insertion order.
func (e *Engine) UserNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ns.userNames()
}

// Reset discards every user binding by replacing the runtime. Builtins
// are reinstalled and imported modules are re-imported under the names
// they were bound to, so the console keeps working afterwards.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bindings := e.ns.modules
	ns, err := newNamespace(e)
	if err != nil {
		return fmt.Errorf("namespace reset: %w", err)
	}
	e.ns = ns
	for _, mb := range bindings {
		if err := e.importModule(mb.Module, mb.BoundName); err != nil {
			return err
		}
	}
	log.Debug().Int("modules", len(bindings)).Msg("namespace reset")
	return nil
}

// ImportModule binds a host module into the namespace under alias, or
// under its own name when alias is empty.
func (e *Engine) ImportModule(name, alias string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.importModule(name, alias)
}

// importModule is the lock-free import used by both ImportModule and the
// use() builtin, which already runs under the engine mutex.
func (e *Engine) importModule(name, alias string) error {
	mod, ok := availableModules[name]
	if !ok {
		return &ModuleError{
			Name: name,
			Err:  fmt.Errorf("unknown module (have %s)", strings.Join(ModuleNames(), ", ")),
		}
	}
	bound := alias
	if bound == "" {
		bound = name
	}
	obj := mod.build(e, e.ns.vm)
	if err := tagModule(e.ns.vm, obj, name); err != nil {
		return &ModuleError{Name: name, Err: err}
	}
	if err := e.ns.set(bound, obj); err != nil {
		return &ModuleError{Name: name, Err: err}
	}
	e.ns.recordModule(bound, name)
	return nil
}

// formatException renders a runtime or compile failure the way the
// console reports it, including the script stack trace when one exists.
func formatException(err error) string {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		s := ex.String()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		return s
	}
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}
