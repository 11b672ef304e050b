package session

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"slate-console/testutil"
)

func TestEncode(t *testing.T) {
	result := "10"
	snap := NewSnapshot(
		[]string{"x = 5\ny = x * 2", "y"},
		[]OutputRecord{
			{Success: true, Timestamp: "2025-06-01T10:00:00Z"},
			{Success: true, Result: &result, Timestamp: "2025-06-01T10:00:05Z"},
		},
		map[string]VariableRecord{
			"x": {Type: "number", Repr: "5", Size: "scalar", Serializable: true, Value: int64(5)},
		},
		time.Date(2025, 6, 1, 10, 0, 10, 0, time.UTC),
	)

	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("Encode() produced invalid JSON:\n%s", data)
	}

	output := string(data)
	for _, want := range []string{
		`"version": "1.0"`,
		`"timestamp": "2025-06-01T10:00:10Z"`,
		`"code_history"`,
		`"output_history"`,
		`"result": "10"`,
		`"serializable": true`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Encoded document should contain %q, got:\n%s", want, output)
		}
	}
	// Human-readable export, so the document is indented.
	if !strings.Contains(output, "\n  \"") {
		t.Error("Encoded document should be indented")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "canonical document",
			data: testutil.SampleSnapshotJSON(),
		},
		{
			name: "missing version defaults",
			data: `{"timestamp": "2025-06-01T10:00:10Z", "code_history": [], "output_history": []}`,
		},
		{
			name:    "missing code_history",
			data:    `{"timestamp": "2025-06-01T10:00:10Z", "output_history": []}`,
			wantErr: `missing required field "code_history"`,
		},
		{
			name:    "missing output_history",
			data:    `{"timestamp": "2025-06-01T10:00:10Z", "code_history": []}`,
			wantErr: `missing required field "output_history"`,
		},
		{
			name:    "missing timestamp",
			data:    `{"code_history": [], "output_history": []}`,
			wantErr: `missing required field "timestamp"`,
		},
		{
			name:    "not an object",
			data:    `[1, 2, 3]`,
			wantErr: "decode",
		},
		{
			name:    "not json",
			data:    "x = 5",
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode([]byte(tt.data))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("Decode() should fail")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Decode() error = %v, want substring %q", err, tt.wantErr)
				}
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Errorf("Decode() error should be a *FormatError, got %T", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if snap.Version != FormatVersion {
				t.Errorf("Version = %q, want %q", snap.Version, FormatVersion)
			}
		})
	}
}

func TestDecode_CanonicalFields(t *testing.T) {
	snap, err := Decode([]byte(testutil.SampleSnapshotJSON()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(snap.CodeHistory) != 2 {
		t.Fatalf("CodeHistory has %d entries, want 2", len(snap.CodeHistory))
	}
	if len(snap.OutputHistory) != 2 {
		t.Fatalf("OutputHistory has %d entries, want 2", len(snap.OutputHistory))
	}
	if !snap.OutputHistory[0].Success || snap.OutputHistory[1].Success {
		t.Error("output records should keep their success flags")
	}
	if snap.OutputHistory[0].Result != nil {
		t.Error("statement blocks carry no result")
	}
	if !strings.Contains(snap.OutputHistory[1].Stderr, "ReferenceError") {
		t.Errorf("Stderr = %q, want the captured error", snap.OutputHistory[1].Stderr)
	}

	x, ok := snap.Variables["x"]
	if !ok || !x.Serializable {
		t.Error("variable x should decode as serializable")
	}
	m, ok := snap.Variables["m"]
	if !ok || m.Serializable {
		t.Error("variable m should decode as non-serializable")
	}
	if m.Repr == "" || m.Size == "" {
		t.Error("non-serializable variables keep their preview")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	result := "42"
	original := NewSnapshot(
		[]string{"x = 6 * 7", "x"},
		[]OutputRecord{
			{Success: true, Timestamp: "2025-06-01T10:00:00Z"},
			{Success: true, Result: &result, Plots: 2, Timestamp: "2025-06-01T10:00:05Z"},
		},
		map[string]VariableRecord{
			"x": {Type: "number", Repr: "42", Size: "scalar", Serializable: true, Value: int64(42)},
			"f": {Type: "function", Repr: "function f(n)", Size: "unknown"},
		},
		time.Date(2025, 6, 1, 10, 0, 10, 0, time.UTC),
	)

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.Timestamp != original.Timestamp {
		t.Errorf("Timestamp = %q, want %q", decoded.Timestamp, original.Timestamp)
	}
	if len(decoded.CodeHistory) != 2 || decoded.CodeHistory[0] != "x = 6 * 7" {
		t.Errorf("CodeHistory did not survive the round trip: %v", decoded.CodeHistory)
	}
	rec := decoded.OutputHistory[1]
	if rec.Result == nil || *rec.Result != "42" {
		t.Error("Result should survive the round trip")
	}
	if rec.Plots != 2 {
		t.Errorf("Plots = %d, want 2", rec.Plots)
	}
	if len(decoded.Variables) != 2 {
		t.Fatalf("Variables has %d entries, want 2", len(decoded.Variables))
	}
	if !decoded.Variables["x"].Serializable || decoded.Variables["f"].Serializable {
		t.Error("serializability flags did not survive the round trip")
	}
}
