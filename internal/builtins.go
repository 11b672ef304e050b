package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// builtinNames are the console builtins in display order.
var builtinNames = []string{
	"print", "len", "range", "list", "dict", "str", "int", "float",
	"bool", "type", "help", "dir", "use",
}

// installBuiltins populates a fresh runtime with the console builtins,
// the console object and the builtins table itself.
func installBuiltins(e *Engine, vm *goja.Runtime) error {
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		e.writeOut(strings.Join(args, " ") + "\n")
		return goja.Undefined()
	}

	errorFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		e.writeErr(strings.Join(args, " ") + "\n")
		return goja.Undefined()
	}

	lenFunc := func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		switch ex := v.Export().(type) {
		case string:
			return vm.ToValue(utf8.RuneCountInString(ex))
		case []interface{}:
			return vm.ToValue(len(ex))
		case map[string]interface{}:
			return vm.ToValue(len(ex))
		case Sized:
			return vm.ToValue(ex.Len())
		}
		panic(vm.NewTypeError("len: value of type %s has no length", typeName(v)))
	}

	rangeFunc := func(call goja.FunctionCall) goja.Value {
		var start, stop int64
		step := int64(1)
		switch len(call.Arguments) {
		case 1:
			stop = call.Argument(0).ToInteger()
		case 2:
			start = call.Argument(0).ToInteger()
			stop = call.Argument(1).ToInteger()
		case 3:
			start = call.Argument(0).ToInteger()
			stop = call.Argument(1).ToInteger()
			step = call.Argument(2).ToInteger()
		default:
			panic(vm.NewTypeError("range expects 1 to 3 arguments, got %d", len(call.Arguments)))
		}
		if step == 0 {
			panic(vm.NewTypeError("range: step must not be zero"))
		}
		var items []interface{}
		if step > 0 {
			for i := start; i < stop; i += step {
				items = append(items, i)
			}
		} else {
			for i := start; i > stop; i += step {
				items = append(items, i)
			}
		}
		return vm.NewArray(items...)
	}

	listFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.NewArray()
		}
		v := call.Argument(0)
		switch ex := v.Export().(type) {
		case string:
			items := make([]interface{}, 0, len(ex))
			for _, r := range ex {
				items = append(items, string(r))
			}
			return vm.NewArray(items...)
		case []interface{}:
			return vm.NewArray(ex...)
		case map[string]interface{}:
			// keys in insertion order, like looping over the object
			if obj, ok := v.(*goja.Object); ok {
				keys := obj.Keys()
				items := make([]interface{}, len(keys))
				for i, k := range keys {
					items[i] = k
				}
				return vm.NewArray(items...)
			}
		}
		panic(vm.NewTypeError("list: cannot build a list from %s", typeName(v)))
	}

	dictFunc := func(call goja.FunctionCall) goja.Value {
		out := vm.NewObject()
		if len(call.Arguments) == 0 {
			return out
		}
		v := call.Argument(0)
		switch ex := v.Export().(type) {
		case map[string]interface{}:
			if src, ok := v.(*goja.Object); ok {
				for _, k := range src.Keys() {
					_ = out.Set(k, src.Get(k))
				}
				return out
			}
		case []interface{}:
			for _, item := range ex {
				pair, ok := item.([]interface{})
				if !ok || len(pair) != 2 {
					panic(vm.NewTypeError("dict: expected [key, value] pairs"))
				}
				_ = out.Set(fmt.Sprintf("%v", pair[0]), vm.ToValue(pair[1]))
			}
			return out
		}
		panic(vm.NewTypeError("dict: cannot build a dict from %s", typeName(v)))
	}

	strFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue("")
		}
		return vm.ToValue(call.Argument(0).String())
	}

	intFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(0)
		}
		v := call.Argument(0)
		if s, ok := v.Export().(string); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				panic(vm.NewTypeError("int: cannot parse %q", s))
			}
			return vm.ToValue(n)
		}
		return vm.ToValue(v.ToInteger())
	}

	floatFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(0.0)
		}
		v := call.Argument(0)
		if s, ok := v.Export().(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				panic(vm.NewTypeError("float: cannot parse %q", s))
			}
			return vm.ToValue(f)
		}
		return vm.ToValue(v.ToFloat())
	}

	boolFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(false)
		}
		return vm.ToValue(call.Argument(0).ToBoolean())
	}

	typeFunc := func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(typeName(call.Argument(0)))
	}

	dirFunc := func(call goja.FunctionCall) goja.Value {
		var names []string
		if len(call.Arguments) == 0 {
			names = append(names, vm.GlobalObject().Keys()...)
		} else if obj, ok := call.Argument(0).(*goja.Object); ok {
			names = append(names, obj.Keys()...)
		}
		sort.Strings(names)
		items := make([]interface{}, len(names))
		for i, name := range names {
			items[i] = name
		}
		return vm.NewArray(items...)
	}

	helpFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			e.writeOut(helpText())
			return goja.Undefined()
		}
		v := call.Argument(0)
		if obj, ok := v.(*goja.Object); ok && isModuleObject(obj) {
			name := obj.Get(moduleTag).String()
			exports := obj.Keys()
			sort.Strings(exports)
			e.writeOut(fmt.Sprintf("module %s: %s\n", name, strings.Join(exports, ", ")))
			return goja.Undefined()
		}
		e.writeOut(fmt.Sprintf("%s: %s\n", typeName(v), reprValue(v)))
		return goja.Undefined()
	}

	useFunc := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("use expects a module name"))
		}
		name := call.Argument(0).String()
		alias := ""
		if len(call.Arguments) > 1 {
			alias = call.Argument(1).String()
		}
		if err := e.importModule(name, alias); err != nil {
			panic(vm.NewGoError(err))
		}
		bound := alias
		if bound == "" {
			bound = name
		}
		return vm.Get(bound)
	}

	bindings := map[string]func(goja.FunctionCall) goja.Value{
		"print": printFunc,
		"len":   lenFunc,
		"range": rangeFunc,
		"list":  listFunc,
		"dict":  dictFunc,
		"str":   strFunc,
		"int":   intFunc,
		"float": floatFunc,
		"bool":  boolFunc,
		"type":  typeFunc,
		"help":  helpFunc,
		"dir":   dirFunc,
		"use":   useFunc,
	}
	for _, name := range builtinNames {
		if err := vm.Set(name, bindings[name]); err != nil {
			return fmt.Errorf("set builtin %s: %w", name, err)
		}
	}

	console := vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return fmt.Errorf("set console.log: %w", err)
	}
	if err := console.Set("error", errorFunc); err != nil {
		return fmt.Errorf("set console.error: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("set console: %w", err)
	}

	table := vm.NewObject()
	for _, name := range builtinNames {
		if err := table.Set(name, bindings[name]); err != nil {
			return fmt.Errorf("set builtins.%s: %w", name, err)
		}
	}
	if err := table.Set("console", console); err != nil {
		return fmt.Errorf("set builtins.console: %w", err)
	}
	if err := vm.Set("builtins", table); err != nil {
		return fmt.Errorf("set builtins: %w", err)
	}
	return nil
}

func helpText() string {
	var b strings.Builder
	b.WriteString("builtins: " + strings.Join(builtinNames, ", ") + "\n")
	b.WriteString("modules:\n")
	for _, name := range ModuleNames() {
		fmt.Fprintf(&b, "  %s - %s\n", name, ModuleDoc(name))
	}
	b.WriteString("import a module with use(name) or use(name, alias)\n")
	return b.String()
}
