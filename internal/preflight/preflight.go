package preflight

import (
	"context"
	"path/filepath"

	"correioszpl/internal/config"
	"correioszpl/internal/spool"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to the configured printer type.
func RunAll(ctx context.Context, cfg *config.Config, runner spool.Runner) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Journal directory", filepath.Dir(cfg.Paths.JournalPath)),
	}

	switch cfg.Printer.Type {
	case "network":
		results = append(results, CheckNetworkPrinter(ctx, cfg.Printer.Address, cfg.Printer.Port))
	default:
		results = append(results, CheckSpoolPrinter(ctx, runner, SpoolCommands(cfg), cfg.Printer.Name))
	}
	return results
}

// SpoolCommands maps the configured binaries onto the spool command set.
func SpoolCommands(cfg *config.Config) spool.Commands {
	return spool.Commands{
		List:      cfg.Spool.ListCommand,
		Query:     cfg.Spool.QueryCommand,
		Submit:    cfg.Spool.SubmitCommand,
		SubmitRaw: cfg.Spool.RawSubmitCommand,
		Cancel:    cfg.Spool.CancelCommand,
	}
}
