package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"correioszpl/internal/config"
	"correioszpl/internal/deps"
	"correioszpl/internal/failures"
	"correioszpl/internal/spool"
)

const printerProbeTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckNetworkPrinter opens and immediately closes a TCP connection to the
// printer. Nothing is written.
func CheckNetworkPrinter(ctx context.Context, address string, port int) Result {
	const name = "Network printer"

	address = strings.TrimSpace(address)
	if address == "" {
		return Result{Name: name, Detail: "missing address"}
	}
	target := net.JoinHostPort(address, strconv.Itoa(port))

	checkCtx, cancel := context.WithTimeout(ctx, printerProbeTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(checkCtx, "tcp", target)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", target, summarizeDialError(err))}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", target)}
}

// CheckSpoolPrinter verifies the CUPS destination is installed.
func CheckSpoolPrinter(ctx context.Context, runner spool.Runner, commands spool.Commands, printer string) Result {
	const name = "Spool printer"

	printer = strings.TrimSpace(printer)
	if printer == "" {
		return Result{Name: name, Detail: "missing printer name"}
	}
	if runner == nil {
		runner = spool.DefaultRunner()
	}
	printers, err := spool.List(ctx, runner, commands)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", printer, err)}
	}
	if !spool.Installed(printers, printer) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not installed; found %d destinations)", printer, len(printers))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (installed)", printer)}
}

// CheckSystemDeps resolves the CUPS client binaries. They are optional when
// labels go to a network printer.
func CheckSystemDeps(cfg *config.Config) []deps.Report {
	optional := cfg.Printer.Type == "network"
	return deps.Resolve([]deps.Tool{
		{Role: "lpstat", Binary: cfg.Spool.ListCommand, Purpose: "Lists installed spool printers", Optional: optional},
		{Role: "lpq", Binary: cfg.Spool.QueryCommand, Purpose: "Reports spool queue progress", Optional: optional},
		{Role: "lpr", Binary: cfg.Spool.RawSubmitCommand, Purpose: "Submits raw label jobs", Optional: optional},
		{Role: "lp", Binary: cfg.Spool.SubmitCommand, Purpose: "Submits jobs with print options", Optional: true},
		{Role: "lprm", Binary: cfg.Spool.CancelCommand, Purpose: "Cancels spool jobs", Optional: true},
	})
}

func summarizeDialError(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "error: " + failures.ErrTimeout.Error()
	}
	return "error: " + err.Error()
}
