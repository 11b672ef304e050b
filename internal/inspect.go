package internal

import "github.com/dop251/goja"

// VariableInfo summarizes one user binding for display and export. Value
// holds the live runtime value and is only valid while the namespace it
// came from is alive.
type VariableInfo struct {
	Type  string     `json:"type"`
	Repr  string     `json:"repr"`
	Size  string     `json:"size"`
	Value goja.Value `json:"-"`
}

// Variables reports every user binding keyed by name. Reserved console
// names and dunder-style internals are excluded, and bindings whose
// values cannot be read are skipped rather than failing the whole
// listing.
func (e *Engine) Variables() map[string]VariableInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	vars := make(map[string]VariableInfo)
	for _, name := range e.ns.userNames() {
		if info, ok := describeBinding(e.ns.vm, name); ok {
			vars[name] = info
		}
	}
	return vars
}

// describeBinding reads and classifies one global. Accessors that throw
// while being read make it report ok false.
func describeBinding(vm *goja.Runtime, name string) (info VariableInfo, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	v := vm.GlobalObject().Get(name)
	if v == nil {
		return VariableInfo{}, false
	}
	return VariableInfo{
		Type:  typeName(v),
		Repr:  reprValue(v),
		Size:  sizeOf(v),
		Value: v,
	}, true
}
