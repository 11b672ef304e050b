package export

import (
	"testing"

	"slate-console/internal/session"
)

// testSnapshot builds the snapshot the exporter tests share: one
// successful execution with a result and a figure, one failure with
// partial stdout, and a variable of each serializability kind.
func testSnapshot() *session.Snapshot {
	result := "42"
	return &session.Snapshot{
		Timestamp:   "2025-06-01T10:00:10Z",
		CodeHistory: []string{"x = 6 * 7", "print(x)\nbad()"},
		OutputHistory: []session.OutputRecord{
			{Success: true, Result: &result, Plots: 1, Timestamp: "2025-06-01T10:00:00Z"},
			{Success: false, Stdout: "42\n", Stderr: "ReferenceError: bad is not defined\n", Timestamp: "2025-06-01T10:00:05Z"},
		},
		Variables: map[string]session.VariableRecord{
			"x": {Type: "number", Repr: "42", Size: "scalar", Serializable: true, Value: int64(42)},
			"m": {Type: "matrix", Repr: "matrix(2x2) [[0, 0], [0, 0]]", Size: "shape: (2, 2)"},
		},
		Version: session.FormatVersion,
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantExt string
		wantErr bool
	}{
		{
			name:    "jsonl format",
			format:  "jsonl",
			wantExt: "jsonl",
		},
		{
			name:    "markdown format",
			format:  "md",
			wantExt: "md",
		},
		{
			name:    "markdown format long",
			format:  "markdown",
			wantExt: "md",
		},
		{
			name:    "yaml format",
			format:  "yaml",
			wantExt: "yaml",
		},
		{
			name:    "json format",
			format:  "json",
			wantExt: "json",
		},
		{
			name:    "unsupported format",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewExporter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if exporter != nil {
					t.Errorf("NewExporter() returned exporter %T, want nil", exporter)
				}
				return
			}
			if exporter == nil {
				t.Fatal("NewExporter() returned nil exporter")
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Exporter.Extension() = %v, want %v", got, tt.wantExt)
			}
		})
	}
}
