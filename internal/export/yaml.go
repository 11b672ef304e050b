package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"slate-console/internal/session"
)

// YAMLExporter writes the session document as YAML
type YAMLExporter struct{}

// Export writes the snapshot in YAML format
func (e *YAMLExporter) Export(snap *session.Snapshot, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(snap)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
