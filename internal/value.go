package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// reprLimit is the maximum number of characters kept in a value preview.
const reprLimit = 100

// Shaped is implemented by host values with a multi-dimensional layout.
type Shaped interface {
	Shape() []int
}

// Sized is implemented by host values that know their element count.
type Sized interface {
	Len() int
}

// typeName classifies a runtime value for display and serialization.
func typeName(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	if _, ok := goja.AssertFunction(v); ok {
		return "function"
	}
	if obj, ok := v.(*goja.Object); ok && isModuleObject(obj) {
		return "module"
	}
	switch v.Export().(type) {
	case int64, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case *Matrix:
		return "matrix"
	case *Figure:
		return "figure"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	if obj, ok := v.(*goja.Object); ok {
		return strings.ToLower(obj.ClassName())
	}
	return "object"
}

// reprValue renders a single-line preview of a value, capped at reprLimit
// characters.
func reprValue(v goja.Value) string {
	return truncateRepr(rawRepr(v))
}

func rawRepr(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	if _, ok := goja.AssertFunction(v); ok {
		return functionRepr(v)
	}
	if obj, ok := v.(*goja.Object); ok && isModuleObject(obj) {
		return fmt.Sprintf("[module %s]", obj.Get(moduleTag).String())
	}
	switch ex := v.Export().(type) {
	case string:
		return fmt.Sprintf("%q", ex)
	case *Matrix:
		return ex.String()
	case *Figure:
		return ex.String()
	case []interface{}, map[string]interface{}:
		if b, err := json.Marshal(ex); err == nil {
			return string(b)
		}
	}
	return v.String()
}

func functionRepr(v goja.Value) string {
	if obj, ok := v.(*goja.Object); ok {
		if n := obj.Get("name"); n != nil && !goja.IsUndefined(n) && n.String() != "" {
			return fmt.Sprintf("[function %s]", n.String())
		}
	}
	return "[function]"
}

// truncateRepr caps s at reprLimit characters and appends a marker when
// anything was cut off.
func truncateRepr(s string) string {
	if utf8.RuneCountInString(s) <= reprLimit {
		return s
	}
	return string([]rune(s)[:reprLimit]) + "..."
}

// sizeOf describes how big a value is. Shaped host values report their
// shape, countable values report a length, plain values report "scalar"
// and anything that cannot be measured reports "unknown".
func sizeOf(v goja.Value) (desc string) {
	defer func() {
		if recover() != nil {
			desc = "unknown"
		}
	}()
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "scalar"
	}
	if _, ok := goja.AssertFunction(v); ok {
		return "scalar"
	}
	switch ex := v.Export().(type) {
	case Shaped:
		return formatShape(ex.Shape())
	case Sized:
		return fmt.Sprintf("length: %d", ex.Len())
	case string:
		return fmt.Sprintf("length: %d", utf8.RuneCountInString(ex))
	case []interface{}:
		return fmt.Sprintf("length: %d", len(ex))
	case map[string]interface{}:
		return fmt.Sprintf("length: %d", len(ex))
	}
	return "scalar"
}

// formatShape renders dimensions the way the inspector displays them, as
// a tuple like "shape: (2, 3)".
func formatShape(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return fmt.Sprintf("shape: (%s,)", parts[0])
	}
	return fmt.Sprintf("shape: (%s)", strings.Join(parts, ", "))
}
