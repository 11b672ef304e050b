package internal

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/google/uuid"
)

// Series is one plotted dataset inside a figure.
type Series struct {
	Kind  string    `json:"kind"`
	Label string    `json:"label,omitempty"`
	X     []float64 `json:"x,omitempty"`
	Y     []float64 `json:"y"`
}

// Figure is a plot produced during execution. The ID is assigned at
// creation so callers can track figures across captures.
type Figure struct {
	ID     string    `json:"id"`
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"xlabel,omitempty"`
	YLabel string    `json:"ylabel,omitempty"`
	Series []*Series `json:"series"`
}

func newFigure() *Figure {
	return &Figure{ID: uuid.New().String()}
}

// Len reports the number of series on the figure.
func (f *Figure) Len() int { return len(f.Series) }

func (f *Figure) String() string {
	title := f.Title
	if title == "" {
		title = "untitled"
	}
	return fmt.Sprintf("figure(%s, %d series)", title, len(f.Series))
}

// isEmpty reports whether nothing has been drawn on the figure.
func (f *Figure) isEmpty() bool {
	for _, s := range f.Series {
		if len(s.Y) > 0 {
			return false
		}
	}
	return true
}

// Canvas collects the figures drawn during one execution. It is guarded
// by the engine mutex.
type Canvas struct {
	figures []*Figure
	cur     *Figure
}

func newCanvas() *Canvas { return &Canvas{} }

func (c *Canvas) clear() {
	c.figures = nil
	c.cur = nil
}

// open makes f the current figure and registers it for gathering.
func (c *Canvas) open(f *Figure) {
	c.cur = f
	for _, g := range c.figures {
		if g == f {
			return
		}
	}
	c.figures = append(c.figures, f)
}

// current returns the figure drawing operations target, creating one when
// none is open.
func (c *Canvas) current() *Figure {
	if c.cur == nil {
		c.open(newFigure())
	}
	return c.cur
}

// gather returns the non-empty figures accumulated since the last clear
// and empties the canvas.
func (c *Canvas) gather() []*Figure {
	var out []*Figure
	for _, f := range c.figures {
		if !f.isEmpty() {
			out = append(out, f)
		}
	}
	c.clear()
	return out
}

func buildPlotModule(e *Engine, vm *goja.Runtime) *goja.Object {
	mod := vm.NewObject()

	figure := func(call goja.FunctionCall) goja.Value {
		f := newFigure()
		if len(call.Arguments) > 0 {
			f.Title = call.Argument(0).String()
		}
		e.canvas.open(f)
		return vm.ToValue(f)
	}

	draw := func(kind string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			series, err := seriesFromArgs(kind, call.Arguments)
			if err != nil {
				panic(vm.NewTypeError("%s: %v", kind, err))
			}
			f := e.canvas.current()
			f.Series = append(f.Series, series)
			return vm.ToValue(f)
		}
	}

	setter := func(assign func(*Figure, string)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			f := e.canvas.current()
			assign(f, call.Argument(0).String())
			return vm.ToValue(f)
		}
	}

	count := func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(len(e.canvas.figures))
	}

	_ = mod.Set("figure", figure)
	_ = mod.Set("line", draw("line"))
	_ = mod.Set("scatter", draw("scatter"))
	_ = mod.Set("bar", draw("bar"))
	_ = mod.Set("title", setter(func(f *Figure, s string) { f.Title = s }))
	_ = mod.Set("xlabel", setter(func(f *Figure, s string) { f.XLabel = s }))
	_ = mod.Set("ylabel", setter(func(f *Figure, s string) { f.YLabel = s }))
	_ = mod.Set("count", count)
	return mod
}

// seriesFromArgs interprets drawing arguments: one or two numeric arrays
// depending on kind, plus an optional string label in any position.
func seriesFromArgs(kind string, args []goja.Value) (*Series, error) {
	var arrays [][]float64
	label := ""
	for _, arg := range args {
		if s, ok := arg.Export().(string); ok {
			label = s
			continue
		}
		vals, ok := toFloats(arg)
		if !ok {
			return nil, fmt.Errorf("expected an array of numbers")
		}
		arrays = append(arrays, vals)
	}
	s := &Series{Kind: kind, Label: label}
	switch len(arrays) {
	case 1:
		if kind == "scatter" {
			return nil, fmt.Errorf("needs both x and y arrays")
		}
		s.Y = arrays[0]
	case 2:
		if kind == "bar" {
			return nil, fmt.Errorf("takes a single value array")
		}
		if len(arrays[0]) != len(arrays[1]) {
			return nil, fmt.Errorf("x and y lengths differ: %d vs %d", len(arrays[0]), len(arrays[1]))
		}
		s.X = arrays[0]
		s.Y = arrays[1]
	default:
		return nil, fmt.Errorf("expected 1 or 2 value arrays, got %d", len(arrays))
	}
	return s, nil
}
