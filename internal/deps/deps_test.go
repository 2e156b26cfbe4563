package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "lpstat")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	tools := []Tool{
		{Role: "list", Binary: present},
		{Role: "query", Binary: "clearly-not-present-lpq"},
	}

	reports := Resolve(tools)
	if len(reports) != len(tools) {
		t.Fatalf("expected %d reports, got %d", len(tools), len(reports))
	}
	if !reports[0].Available() {
		t.Fatalf("expected lpstat stub to resolve, got %v", reports[0].Err)
	}
	if reports[0].Detail() != present {
		t.Fatalf("expected resolved path %q, got %q", present, reports[0].Detail())
	}
	if reports[1].Available() {
		t.Fatal("expected missing binary to be unavailable")
	}
	if reports[1].Detail() != `binary "clearly-not-present-lpq" not found` {
		t.Fatalf("unexpected detail %q", reports[1].Detail())
	}
}

func TestResolveUnconfigured(t *testing.T) {
	reports := Resolve([]Tool{{Role: "cancel", Binary: "  ", Optional: true}})
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Available() {
		t.Fatal("expected blank command to be unavailable")
	}
	if reports[0].Detail() != "cancel command not configured" {
		t.Fatalf("unexpected detail %q", reports[0].Detail())
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	reports := Resolve([]Tool{
		{Role: "submit", Binary: "clearly-not-present-lp", Optional: true},
		{Role: "raw submit", Binary: "clearly-not-present-lpr"},
	})
	missing := Missing(reports)
	if len(missing) != 1 || missing[0].Role != "raw submit" {
		t.Fatalf("unexpected missing set %#v", missing)
	}
}
