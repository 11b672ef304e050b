package internal

import (
	"math"
	"sort"

	"github.com/dop251/goja"
)

func buildStatsModule(e *Engine, vm *goja.Runtime) *goja.Object {
	mod := vm.NewObject()

	reducer := func(name string, minLen int, fn func([]float64) float64) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			vals, ok := numericArg(call.Argument(0))
			if !ok {
				panic(vm.NewTypeError("%s: expected an array of numbers or a matrix", name))
			}
			if len(vals) < minLen {
				panic(vm.NewTypeError("%s: needs at least %d values, got %d", name, minLen, len(vals)))
			}
			return vm.ToValue(fn(vals))
		}
	}

	_ = mod.Set("sum", reducer("sum", 0, floatSum))
	_ = mod.Set("mean", reducer("mean", 1, floatMean))
	_ = mod.Set("median", reducer("median", 1, floatMedian))
	_ = mod.Set("variance", reducer("variance", 2, floatVariance))
	_ = mod.Set("stdev", reducer("stdev", 2, floatStdev))
	_ = mod.Set("min", reducer("min", 1, floatMin))
	_ = mod.Set("max", reducer("max", 1, floatMax))
	return mod
}

// numericArg accepts either a script array of numbers or a matrix, whose
// elements are taken in row-major order.
func numericArg(v goja.Value) ([]float64, bool) {
	if m, ok := v.Export().(*Matrix); ok {
		return append([]float64(nil), m.data...), true
	}
	return toFloats(v)
}

func floatSum(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum
}

func floatMean(vals []float64) float64 {
	return floatSum(vals) / float64(len(vals))
}

func floatMedian(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// floatVariance is the sample variance, dividing by n-1.
func floatVariance(vals []float64) float64 {
	mean := floatMean(vals)
	var sum float64
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(vals)-1)
}

func floatStdev(vals []float64) float64 {
	return math.Sqrt(floatVariance(vals))
}

func floatMin(vals []float64) float64 {
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func floatMax(vals []float64) float64 {
	max := vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
