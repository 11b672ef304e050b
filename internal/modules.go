package internal

import (
	"sort"

	"github.com/dop251/goja"
)

// moduleTag is the hidden property that marks module objects. It is not
// enumerable, so it never shows up in listings or loops.
const moduleTag = "__module__"

// hostModule is a module scripts can import with use().
type hostModule struct {
	name  string
	doc   string
	build func(e *Engine, vm *goja.Runtime) *goja.Object
}

var availableModules = map[string]hostModule{
	"plot":  {name: "plot", doc: "figures and data series", build: buildPlotModule},
	"num":   {name: "num", doc: "matrix construction and arithmetic", build: buildNumModule},
	"stats": {name: "stats", doc: "descriptive statistics over arrays", build: buildStatsModule},
}

// ModuleNames lists the importable modules sorted by name.
func ModuleNames() []string {
	names := make([]string, 0, len(availableModules))
	for name := range availableModules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleDoc returns the one-line description of a module.
func ModuleDoc(name string) string {
	return availableModules[name].doc
}

// tagModule marks obj as the module named name.
func tagModule(vm *goja.Runtime, obj *goja.Object, name string) error {
	return obj.DefineDataProperty(moduleTag, vm.ToValue(name), goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)
}

func isModuleObject(obj *goja.Object) bool {
	v := obj.Get(moduleTag)
	return v != nil && !goja.IsUndefined(v)
}

// toFloats converts a script array of numbers into a float slice.
func toFloats(v goja.Value) ([]float64, bool) {
	items, ok := v.Export().([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		switch n := item.(type) {
		case int64:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return nil, false
		}
	}
	return out, true
}

// toRows converts a script array of number arrays into row slices.
func toRows(v goja.Value) ([][]float64, bool) {
	items, ok := v.Export().([]interface{})
	if !ok {
		return nil, false
	}
	rows := make([][]float64, len(items))
	for i, item := range items {
		inner, ok := item.([]interface{})
		if !ok {
			return nil, false
		}
		row := make([]float64, len(inner))
		for j, cell := range inner {
			switch n := cell.(type) {
			case int64:
				row[j] = float64(n)
			case float64:
				row[j] = n
			default:
				return nil, false
			}
		}
		rows[i] = row
	}
	return rows, true
}
