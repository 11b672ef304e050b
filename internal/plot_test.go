package internal

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dop251/goja"
)

func TestCanvas(t *testing.T) {
	c := newCanvas()

	f := c.current()
	if f == nil {
		t.Fatal("current() should open a figure on demand")
	}
	if c.current() != f {
		t.Error("current() should keep returning the open figure")
	}

	// Opening the same figure again must not duplicate it.
	c.open(f)
	f.Series = append(f.Series, &Series{Kind: "line", Y: []float64{1}})

	got := c.gather()
	if len(got) != 1 || got[0] != f {
		t.Fatalf("gather() = %v, want the one drawn figure", got)
	}
	// The canvas is empty again after gathering.
	if got := c.gather(); len(got) != 0 {
		t.Errorf("second gather() = %v, want nothing", got)
	}
}

func TestCanvas_DropsEmptyFigures(t *testing.T) {
	c := newCanvas()
	c.open(newFigure())
	drawn := newFigure()
	c.open(drawn)
	drawn.Series = append(drawn.Series, &Series{Kind: "bar", Y: []float64{2}})

	got := c.gather()
	if len(got) != 1 || got[0] != drawn {
		t.Errorf("gather() = %v, want only the drawn figure", got)
	}
}

func TestFigure(t *testing.T) {
	a, b := newFigure(), newFigure()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("figure IDs should be unique, got %q and %q", a.ID, b.ID)
	}

	if got := a.String(); got != "figure(untitled, 0 series)" {
		t.Errorf("String() = %q", got)
	}
	a.Title = "sales"
	a.Series = append(a.Series, &Series{Kind: "line", Y: []float64{1, 2}})
	if got := a.String(); got != "figure(sales, 1 series)" {
		t.Errorf("String() = %q", got)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}

func TestSeriesFromArgs(t *testing.T) {
	vm := goja.New()
	arr := func(vals ...interface{}) goja.Value { return vm.NewArray(vals...) }

	tests := []struct {
		name    string
		kind    string
		args    []goja.Value
		want    *Series
		wantErr string
	}{
		{
			name: "line with y only",
			kind: "line",
			args: []goja.Value{arr(int64(1), int64(2), int64(3))},
			want: &Series{Kind: "line", Y: []float64{1, 2, 3}},
		},
		{
			name: "line with x and y",
			kind: "line",
			args: []goja.Value{arr(int64(0), int64(1)), arr(2.5, 3.5)},
			want: &Series{Kind: "line", X: []float64{0, 1}, Y: []float64{2.5, 3.5}},
		},
		{
			name: "label in any position",
			kind: "line",
			args: []goja.Value{vm.ToValue("revenue"), arr(int64(1))},
			want: &Series{Kind: "line", Label: "revenue", Y: []float64{1}},
		},
		{
			name:    "scatter needs x and y",
			kind:    "scatter",
			args:    []goja.Value{arr(int64(1), int64(2))},
			wantErr: "needs both x and y",
		},
		{
			name:    "bar takes one array",
			kind:    "bar",
			args:    []goja.Value{arr(int64(1)), arr(int64(2))},
			wantErr: "single value array",
		},
		{
			name:    "length mismatch",
			kind:    "scatter",
			args:    []goja.Value{arr(int64(1), int64(2)), arr(int64(3))},
			wantErr: "lengths differ",
		},
		{
			name:    "no arrays",
			kind:    "line",
			args:    []goja.Value{vm.ToValue("just a label")},
			wantErr: "expected 1 or 2 value arrays",
		},
		{
			name:    "non-numeric array",
			kind:    "line",
			args:    []goja.Value{arr("a", "b")},
			wantErr: "array of numbers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seriesFromArgs(tt.kind, tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("seriesFromArgs() error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("seriesFromArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("seriesFromArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlotModule(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.ImportModule("plot", ""); err != nil {
		t.Fatal(err)
	}

	t.Run("implicit figure", func(t *testing.T) {
		res := eng.Execute("plot.line([1, 2, 3])")
		if !res.Success {
			t.Fatalf("Execute() failed: %s", res.Stderr)
		}
		if len(res.Plots) != 1 {
			t.Fatalf("got %d figures, want 1", len(res.Plots))
		}
		s := res.Plots[0].Series[0]
		if s.Kind != "line" || !reflect.DeepEqual(s.Y, []float64{1, 2, 3}) {
			t.Errorf("series = %+v", s)
		}
	})

	t.Run("titled figure with labels", func(t *testing.T) {
		src := `
plot.figure("growth")
plot.xlabel("year")
plot.ylabel("users")
plot.scatter([1, 2], [10, 40], "signups")
`
		res := eng.Execute(src)
		if !res.Success {
			t.Fatalf("Execute() failed: %s", res.Stderr)
		}
		if len(res.Plots) != 1 {
			t.Fatalf("got %d figures, want 1", len(res.Plots))
		}
		f := res.Plots[0]
		if f.Title != "growth" || f.XLabel != "year" || f.YLabel != "users" {
			t.Errorf("figure metadata = %+v", f)
		}
		if f.Series[0].Label != "signups" {
			t.Errorf("series label = %q, want signups", f.Series[0].Label)
		}
	})

	t.Run("several figures in one run", func(t *testing.T) {
		src := `
plot.figure("a")
plot.line([1])
plot.figure("b")
plot.bar([2, 3])
`
		res := eng.Execute(src)
		if !res.Success {
			t.Fatalf("Execute() failed: %s", res.Stderr)
		}
		if len(res.Plots) != 2 {
			t.Fatalf("got %d figures, want 2", len(res.Plots))
		}
		if res.Plots[0].Title != "a" || res.Plots[1].Title != "b" {
			t.Errorf("figures = %v, %v", res.Plots[0], res.Plots[1])
		}
	})

	t.Run("empty figure is dropped", func(t *testing.T) {
		res := eng.Execute(`plot.figure("nothing drawn")`)
		if !res.Success {
			t.Fatalf("Execute() failed: %s", res.Stderr)
		}
		if len(res.Plots) != 0 {
			t.Errorf("got %d figures, want none", len(res.Plots))
		}
	})

	t.Run("figures do not leak across runs", func(t *testing.T) {
		if res := eng.Execute("plot.line([5])"); len(res.Plots) != 1 {
			t.Fatalf("got %d figures, want 1", len(res.Plots))
		}
		if res := eng.Execute("x = 1"); len(res.Plots) != 0 {
			t.Errorf("second run picked up %d figures, want none", len(res.Plots))
		}
	})

	t.Run("count reports canvas figures", func(t *testing.T) {
		src := `
before = plot.count()
plot.figure("one")
plot.line([1])
plot.figure("two")
after = plot.count()
`
		res := eng.Execute(src)
		if !res.Success {
			t.Fatalf("Execute() failed: %s", res.Stderr)
		}
		vars := eng.Variables()
		if got := vars["before"].Repr; got != "0" {
			t.Errorf("count before drawing = %s, want 0", got)
		}
		if got := vars["after"].Repr; got != "2" {
			t.Errorf("count after two figures = %s, want 2", got)
		}
	})

	t.Run("bad arguments throw", func(t *testing.T) {
		res := eng.Execute("plot.scatter([1, 2])")
		if res.Success || !strings.Contains(res.Stderr, "needs both x and y") {
			t.Errorf("scatter with one array should fail, stderr %q", res.Stderr)
		}
	})
}
