package session

import "fmt"

// FormatError represents errors encoding or decoding session documents
type FormatError struct {
	Op  string // "encode", "decode"
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("session format error: %s: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// StoreError represents errors talking to the backing store
type StoreError struct {
	Op  string // "open", "init", "get", "put", "delete", "keys"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
