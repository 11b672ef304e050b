package internal

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// Matrix is a dense row-major numeric matrix exposed to scripts by the
// num module. Its methods surface in scripts with lowered first letters,
// so m.At becomes m.at(r, c).
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix builds a rows x cols matrix filled with zeros.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// MatrixFromRows builds a matrix from equally sized rows.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("rows must not be empty")
	}
	cols := len(rows[0])
	m := &Matrix{rows: len(rows), cols: cols, data: make([]float64, 0, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), cols)
		}
		m.data = append(m.data, row...)
	}
	return m, nil
}

// Identity builds the n x n identity matrix.
func Identity(n int) (*Matrix, error) {
	m, err := NewMatrix(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// Shape reports the extents as (rows, cols).
func (m *Matrix) Shape() []int { return []int{m.rows, m.cols} }

// Len reports the number of rows.
func (m *Matrix) Len() int { return m.rows }

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) (float64, error) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return 0, fmt.Errorf("index (%d, %d) out of range for %dx%d matrix", r, c, m.rows, m.cols)
	}
	return m.data[r*m.cols+c], nil
}

// Set stores v at row r, column c and returns the matrix.
func (m *Matrix) Set(r, c int, v float64) (*Matrix, error) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return nil, fmt.Errorf("index (%d, %d) out of range for %dx%d matrix", r, c, m.rows, m.cols)
	}
	m.data[r*m.cols+c] = v
	return m, nil
}

// T returns the transpose as a new matrix.
func (m *Matrix) T() *Matrix {
	t := &Matrix{rows: m.cols, cols: m.rows, data: make([]float64, len(m.data))}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			t.data[c*t.cols+r] = m.data[r*m.cols+c]
		}
	}
	return t
}

// Mul returns the matrix product m x other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if other == nil {
		return nil, fmt.Errorf("mul needs a matrix argument")
	}
	if m.cols != other.rows {
		return nil, fmt.Errorf("cannot multiply %dx%d by %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	out := &Matrix{rows: m.rows, cols: other.cols, data: make([]float64, m.rows*other.cols)}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < other.cols; c++ {
			var sum float64
			for k := 0; k < m.cols; k++ {
				sum += m.data[r*m.cols+k] * other.data[k*other.cols+c]
			}
			out.data[r*out.cols+c] = sum
		}
	}
	return out, nil
}

// Add returns the element-wise sum of m and other.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if other == nil {
		return nil, fmt.Errorf("add needs a matrix argument")
	}
	if m.rows != other.rows || m.cols != other.cols {
		return nil, fmt.Errorf("cannot add %dx%d and %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, v := range m.data {
		out.data[i] = v + other.data[i]
	}
	return out, nil
}

// Scale returns m with every element multiplied by f.
func (m *Matrix) Scale(f float64) *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, v := range m.data {
		out.data[i] = v * f
	}
	return out
}

// Sum returns the sum of all elements.
func (m *Matrix) Sum() float64 {
	var sum float64
	for _, v := range m.data {
		sum += v
	}
	return sum
}

// Rows returns the matrix contents row by row.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.rows)
	for r := 0; r < m.rows; r++ {
		rows[r] = append([]float64(nil), m.data[r*m.cols:(r+1)*m.cols]...)
	}
	return rows
}

func (m *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "matrix(%dx%d) [", m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[")
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v", m.data[r*m.cols+c])
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}

func buildNumModule(e *Engine, vm *goja.Runtime) *goja.Object {
	mod := vm.NewObject()

	matrix := func(call goja.FunctionCall) goja.Value {
		switch len(call.Arguments) {
		case 1:
			rows, ok := toRows(call.Argument(0))
			if !ok {
				panic(vm.NewTypeError("matrix: expected an array of number rows"))
			}
			m, err := MatrixFromRows(rows)
			if err != nil {
				panic(vm.NewTypeError("matrix: %v", err))
			}
			return vm.ToValue(m)
		case 2:
			m, err := NewMatrix(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()))
			if err != nil {
				panic(vm.NewTypeError("matrix: %v", err))
			}
			return vm.ToValue(m)
		}
		panic(vm.NewTypeError("matrix expects rows or (rows, cols)"))
	}

	zeros := func(call goja.FunctionCall) goja.Value {
		m, err := NewMatrix(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()))
		if err != nil {
			panic(vm.NewTypeError("zeros: %v", err))
		}
		return vm.ToValue(m)
	}

	identity := func(call goja.FunctionCall) goja.Value {
		m, err := Identity(int(call.Argument(0).ToInteger()))
		if err != nil {
			panic(vm.NewTypeError("identity: %v", err))
		}
		return vm.ToValue(m)
	}

	linspace := func(call goja.FunctionCall) goja.Value {
		start := call.Argument(0).ToFloat()
		stop := call.Argument(1).ToFloat()
		n := int(call.Argument(2).ToInteger())
		if n <= 0 {
			panic(vm.NewTypeError("linspace: count must be positive, got %d", n))
		}
		items := make([]interface{}, n)
		items[0] = start
		if n > 1 {
			step := (stop - start) / float64(n-1)
			for i := 1; i < n-1; i++ {
				items[i] = start + float64(i)*step
			}
			items[n-1] = stop
		}
		return vm.NewArray(items...)
	}

	arange := func(call goja.FunctionCall) goja.Value {
		var start, stop float64
		step := 1.0
		switch len(call.Arguments) {
		case 1:
			stop = call.Argument(0).ToFloat()
		case 2:
			start = call.Argument(0).ToFloat()
			stop = call.Argument(1).ToFloat()
		case 3:
			start = call.Argument(0).ToFloat()
			stop = call.Argument(1).ToFloat()
			step = call.Argument(2).ToFloat()
		default:
			panic(vm.NewTypeError("arange expects 1 to 3 arguments, got %d", len(call.Arguments)))
		}
		if step == 0 {
			panic(vm.NewTypeError("arange: step must not be zero"))
		}
		var items []interface{}
		if step > 0 {
			for v := start; v < stop; v += step {
				items = append(items, v)
			}
		} else {
			for v := start; v > stop; v += step {
				items = append(items, v)
			}
		}
		return vm.NewArray(items...)
	}

	_ = mod.Set("matrix", matrix)
	_ = mod.Set("zeros", zeros)
	_ = mod.Set("identity", identity)
	_ = mod.Set("linspace", linspace)
	_ = mod.Set("arange", arange)
	return mod
}
