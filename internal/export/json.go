package export

import (
	"encoding/json"
	"io"

	"slate-console/internal/session"
)

// JSONExporter writes the canonical session document (pretty-printed)
type JSONExporter struct{}

// Export writes the snapshot as indented JSON
func (e *JSONExporter) Export(snap *session.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(snap)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
