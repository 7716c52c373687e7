package metrics

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"recut/internal/services"
)

// WriteTextfile writes the current metrics in the node_exporter textfile
// format. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "metrics", "textfile", "Failed to create metrics directory", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return services.Wrap(services.ErrTransient, "metrics", "textfile", "Failed to write metrics textfile", err)
	}
	return nil
}
