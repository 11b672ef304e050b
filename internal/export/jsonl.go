package export

import (
	"encoding/json"
	"fmt"
	"io"

	"slate-console/internal/session"
)

// JSONLExporter writes the session as a stream, one execution per line
type JSONLExporter struct{}

// Export writes one JSON object per history entry. Code and output are
// matched by index; entries past the shorter history carry what exists.
func (e *JSONLExporter) Export(snap *session.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)

	n := len(snap.CodeHistory)
	if len(snap.OutputHistory) > n {
		n = len(snap.OutputHistory)
	}
	for i := 0; i < n; i++ {
		obj := map[string]interface{}{
			"index": i,
		}
		if i < len(snap.CodeHistory) {
			obj["code"] = snap.CodeHistory[i]
		}
		if i < len(snap.OutputHistory) {
			rec := snap.OutputHistory[i]
			obj["success"] = rec.Success
			obj["stdout"] = rec.Stdout
			obj["stderr"] = rec.Stderr
			obj["plots"] = rec.Plots
			if rec.Result != nil {
				obj["result"] = *rec.Result
			}
			if rec.Timestamp != "" {
				obj["timestamp"] = rec.Timestamp
			}
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
