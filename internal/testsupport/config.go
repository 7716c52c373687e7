package testsupport

import (
	"path/filepath"
	"testing"

	"recut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Logging.File = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithNearMiss enables one-edit fuzzy matching on the test config.
func WithNearMiss(minLength int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.NearMiss = true
		b.cfg.Alignment.NearMissMinLength = minLength
	}
}

// WithSplitSpeakers toggles per-speaker range splitting.
func WithSplitSpeakers(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.SplitSpeakers = enabled
	}
}

// WithCaptionFormat overrides the default caption output format.
func WithCaptionFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Captions.Format = format
	}
}

// WithMetricsTextfile points the metrics textfile into the test directory.
func WithMetricsTextfile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
