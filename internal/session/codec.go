package session

import (
	"encoding/json"
	"fmt"
)

// requiredFields must all be present in an imported session document.
var requiredFields = []string{"code_history", "output_history", "timestamp"}

// Encode renders a snapshot as indented canonical JSON.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, &FormatError{Op: "encode", Err: err}
	}
	return data, nil
}

// Decode parses and validates an exported session document. Documents
// missing any required field are rejected; a missing version is treated
// as the current format.
func Decode(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &FormatError{Op: "decode", Err: err}
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, &FormatError{Op: "decode", Err: fmt.Errorf("missing required field %q", name)}
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &FormatError{Op: "decode", Err: err}
	}
	if snap.Version == "" {
		snap.Version = FormatVersion
	}
	return &snap, nil
}
