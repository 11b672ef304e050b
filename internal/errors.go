package internal

import "fmt"

// ModuleError represents errors importing a host module
type ModuleError struct {
	Name string
	Err  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module error [%s]: %v", e.Name, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}
