package preflight

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"correioszpl/internal/config"
	"correioszpl/internal/spool"
)

type listRunner struct {
	out  string
	code int
}

func (r listRunner) Run(context.Context, string, []string, []byte) (spool.Result, error) {
	return spool.Result{Stdout: r.out, ExitCode: r.code}, nil
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckNetworkPrinter_Reachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		if conn, err := ln.Accept(); err == nil {
			conn.Close()
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)

	result := CheckNetworkPrinter(context.Background(), "127.0.0.1", addr.Port)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNetworkPrinter_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	result := CheckNetworkPrinter(context.Background(), "127.0.0.1", port)
	if result.Passed {
		t.Fatal("expected failure for closed port")
	}
}

func TestCheckNetworkPrinter_MissingAddress(t *testing.T) {
	result := CheckNetworkPrinter(context.Background(), " ", 9100)
	if result.Passed || result.Detail != "missing address" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestCheckSpoolPrinter(t *testing.T) {
	ctx := context.Background()
	if r := CheckSpoolPrinter(ctx, listRunner{out: "Office\nZebra\n"}, spool.Commands{}, "Zebra"); !r.Passed {
		t.Fatalf("expected installed printer to pass, got %s", r.Detail)
	}
	if r := CheckSpoolPrinter(ctx, listRunner{out: "Office\n"}, spool.Commands{}, "Zebra"); r.Passed {
		t.Fatal("expected missing printer to fail")
	}
	if r := CheckSpoolPrinter(ctx, listRunner{code: 1}, spool.Commands{}, "Zebra"); r.Passed {
		t.Fatal("expected list failure to fail")
	}
	if r := CheckSpoolPrinter(ctx, listRunner{}, spool.Commands{}, ""); r.Passed || r.Detail != "missing printer name" {
		t.Fatalf("unexpected result %#v", r)
	}
}

func TestRunAllSpool(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.JournalPath = filepath.Join(t.TempDir(), "journal.db")
	cfg.Printer.Name = "Zebra"

	results := RunAll(context.Background(), &cfg, listRunner{out: "Zebra\n"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass, got %s", r.Name, r.Detail)
		}
	}
	if results[2].Name != "Spool printer" {
		t.Fatalf("expected spool check last, got %s", results[2].Name)
	}
}

func TestCheckSystemDepsOptionalForNetwork(t *testing.T) {
	cfg := config.Default()
	cfg.Printer.Type = "network"
	for _, st := range CheckSystemDeps(&cfg) {
		if !st.Optional {
			t.Fatalf("expected %s to be optional for network printers", st.Role)
		}
	}
	cfg.Printer.Type = "spool"
	statuses := CheckSystemDeps(&cfg)
	if statuses[0].Optional {
		t.Fatal("expected lpstat to be required for spool printers")
	}
}
