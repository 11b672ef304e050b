package session

import (
	"encoding/json"
	"time"

	"slate-console/internal"
)

// FormatVersion is written into every exported snapshot.
const FormatVersion = "1.0"

// Snapshot is the serialized form of a console session.
type Snapshot struct {
	Timestamp     string                    `json:"timestamp" yaml:"timestamp"`
	CodeHistory   []string                  `json:"code_history" yaml:"code_history"`
	OutputHistory []OutputRecord            `json:"output_history" yaml:"output_history"`
	Variables     map[string]VariableRecord `json:"variables,omitempty" yaml:"variables,omitempty"`
	Version       string                    `json:"version" yaml:"version"`
}

// OutputRecord is the serialized form of one execution result. Result is
// null for statement blocks and failures; figures are recorded by count
// only.
type OutputRecord struct {
	Success   bool    `json:"success" yaml:"success"`
	Stdout    string  `json:"stdout" yaml:"stdout"`
	Stderr    string  `json:"stderr" yaml:"stderr"`
	Result    *string `json:"result" yaml:"result"`
	Plots     int     `json:"plots" yaml:"plots"`
	Timestamp string  `json:"timestamp" yaml:"timestamp"`
}

// VariableRecord is the serialized form of one namespace binding. Values
// survive the round trip only for plain data; everything else keeps its
// preview and is marked non-serializable.
type VariableRecord struct {
	Type         string      `json:"type" yaml:"type"`
	Repr         string      `json:"repr" yaml:"repr"`
	Size         string      `json:"size" yaml:"size"`
	Serializable bool        `json:"serializable" yaml:"serializable"`
	Value        interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewSnapshot assembles a snapshot from already serialized history.
// outputs must be aligned with codeHistory by the caller.
func NewSnapshot(codeHistory []string, outputs []OutputRecord, vars map[string]VariableRecord, now time.Time) *Snapshot {
	snap := &Snapshot{
		Timestamp:     now.Format(time.RFC3339),
		CodeHistory:   append([]string(nil), codeHistory...),
		OutputHistory: append([]OutputRecord(nil), outputs...),
		Version:       FormatVersion,
	}
	if len(vars) > 0 {
		snap.Variables = make(map[string]VariableRecord, len(vars))
		for name, rec := range vars {
			snap.Variables[name] = rec
		}
	}
	return snap
}

// BuildSnapshot assembles a snapshot straight from live console state.
func BuildSnapshot(codeHistory []string, results []*internal.Result, vars map[string]internal.VariableInfo, now time.Time) *Snapshot {
	outputs := make([]OutputRecord, 0, len(results))
	for _, r := range results {
		outputs = append(outputs, NewOutputRecord(r, now))
	}
	return NewSnapshot(codeHistory, outputs, RecordVariables(vars), now)
}

// NewOutputRecord serializes one execution result.
func NewOutputRecord(r *internal.Result, now time.Time) OutputRecord {
	rec := OutputRecord{
		Success:   r.Success,
		Stdout:    r.Stdout,
		Stderr:    r.Stderr,
		Plots:     len(r.Plots),
		Timestamp: now.Format(time.RFC3339),
	}
	if r.Value != nil {
		text := r.Value.String()
		rec.Result = &text
	}
	return rec
}

// RecordVariables serializes an inspector listing.
func RecordVariables(vars map[string]internal.VariableInfo) map[string]VariableRecord {
	if len(vars) == 0 {
		return nil
	}
	out := make(map[string]VariableRecord, len(vars))
	for name, info := range vars {
		out[name] = NewVariableRecord(info)
	}
	return out
}

// NewVariableRecord serializes one binding. Reading or marshaling a
// hostile value must not break the whole snapshot, so failures fall back
// to the preview-only record.
func NewVariableRecord(info internal.VariableInfo) (rec VariableRecord) {
	rec = VariableRecord{
		Type: info.Type,
		Repr: info.Repr,
		Size: info.Size,
	}
	defer func() {
		if recover() != nil {
			rec.Serializable = false
			rec.Value = nil
		}
	}()
	if info.Value == nil {
		return rec
	}
	switch ex := info.Value.Export().(type) {
	case int64, float64, string, bool, []interface{}, map[string]interface{}:
		if _, err := json.Marshal(ex); err == nil {
			rec.Serializable = true
			rec.Value = ex
		}
	}
	return rec
}
