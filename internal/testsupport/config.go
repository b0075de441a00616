package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"seqdeliver/internal/config"
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
	cfgVal.Paths.ArchiveRoot = filepath.Join(base, "archive")
	cfgVal.Paths.ProductionRoot = filepath.Join(base, "production")
	cfgVal.Paths.ProjectRoot = filepath.Join(base, "projects")
	cfgVal.Paths.RunQCRoot = filepath.Join(base, "runqc")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRsyncOpts overrides the sample sync options on the test config.
func WithRsyncOpts(opts string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rsync.SampleOpts = opts
	}
}

// WithStubbedRsync writes a stub rsync executable printing the given
// output and points the config at it.
func WithStubbedRsync(output string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "rsync")
		script := "#!/bin/sh\necho \"" + output + "\"\n"
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub rsync: %v", err)
		}
		b.cfg.Rsync.Binary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
