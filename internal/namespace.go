package internal

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// moduleBinding records one imported module so reset can re-import it
// under the same name.
type moduleBinding struct {
	BoundName string
	Module    string
}

// Namespace wraps a goja runtime and tracks which global names belong to
// the console itself rather than the user. Bindings created by scripts
// land on the runtime's global object, which keeps insertion order.
type Namespace struct {
	vm       *goja.Runtime
	reserved map[string]struct{}
	modules  []moduleBinding
}

// newNamespace builds a fresh runtime with the console builtins
// installed. Every global present after installation is reserved.
func newNamespace(e *Engine) (*Namespace, error) {
	ns := &Namespace{
		vm:       goja.New(),
		reserved: make(map[string]struct{}),
	}
	if err := installBuiltins(e, ns.vm); err != nil {
		return nil, err
	}
	for _, name := range ns.vm.GlobalObject().Keys() {
		ns.reserved[name] = struct{}{}
	}
	return ns, nil
}

func (ns *Namespace) isReserved(name string) bool {
	_, ok := ns.reserved[name]
	return ok
}

// userNames lists user bindings in namespace insertion order. Reserved
// console names and dunder-style internals are left out.
func (ns *Namespace) userNames() []string {
	var names []string
	for _, name := range ns.vm.GlobalObject().Keys() {
		if ns.isReserved(name) || strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (ns *Namespace) set(name string, value interface{}) error {
	return ns.vm.Set(name, value)
}

// unset removes a user binding and reports whether one was removed.
// Reserved console names, including the builtins table, are refused.
func (ns *Namespace) unset(name string) (bool, error) {
	if ns.isReserved(name) {
		return false, fmt.Errorf("cannot remove protected binding %q", name)
	}
	global := ns.vm.GlobalObject()
	exists := false
	for _, key := range global.Keys() {
		if key == name {
			exists = true
			break
		}
	}
	if !exists {
		return false, nil
	}
	if err := global.Delete(name); err != nil {
		return false, err
	}
	ns.dropModule(name)
	return true, nil
}

// recordModule remembers that a module is bound under the given name.
// Rebinding the same name replaces the earlier record.
func (ns *Namespace) recordModule(bound, module string) {
	for i, mb := range ns.modules {
		if mb.BoundName == bound {
			ns.modules[i].Module = module
			return
		}
	}
	ns.modules = append(ns.modules, moduleBinding{BoundName: bound, Module: module})
}

func (ns *Namespace) dropModule(bound string) {
	for i, mb := range ns.modules {
		if mb.BoundName == bound {
			ns.modules = append(ns.modules[:i], ns.modules[i+1:]...)
			return
		}
	}
}
