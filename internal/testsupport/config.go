package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"correioszpl/internal/config"
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
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.JournalPath = filepath.Join(base, "state", "journal.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Spool.PollIntervalMS = 5

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

// WithNetworkPrinter points the test config at a raw TCP printer.
func WithNetworkPrinter(address string, port int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Printer.Type = "network"
		b.cfg.Printer.Address = address
		b.cfg.Printer.Port = port
	}
}

// WithSpoolPrinter points the test config at a CUPS destination.
func WithSpoolPrinter(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Printer.Type = "spool"
		b.cfg.Printer.Name = name
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the configured CUPS binaries are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = b.cfg.SpoolBinaries()
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		prependPath(b, binDir)
	}
}

// WithStubScript installs an executable shell script named name on PATH.
// body is the script after the shebang line.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		prependPath(b, binDir)
	}
}

func prependPath(b *configBuilder, dir string) {
	oldPath := os.Getenv("PATH")
	if strings.HasPrefix(oldPath, dir+string(os.PathListSeparator)) {
		return
	}
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
