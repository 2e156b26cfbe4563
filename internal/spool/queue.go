package spool

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"correioszpl/internal/failures"
)

// lpq prints a status line and a column header before the job rows.
const queueHeaderLines = 2

var columnSeparator = regexp.MustCompile(`[ ]{2,}`)

// List returns the installed destinations reported by the list command.
func List(ctx context.Context, runner Runner, commands Commands) ([]string, error) {
	if runner == nil {
		runner = DefaultRunner()
	}
	commands = commands.withDefaults()

	res, err := runner.Run(ctx, commands.List, []string{"-e"}, nil)
	if err != nil {
		return nil, failures.Wrap(failures.ErrPrinterListUnavailable, "spool", "list printers", "", err)
	}
	if res.ExitCode != 0 {
		return nil, failures.Wrap(failures.ErrPrinterListUnavailable, "spool", "list printers", "",
			&failures.ProcessError{Command: commands.List, ExitCode: res.ExitCode, Stderr: trimNewline(res.Stderr)})
	}
	return splitLines(res.Stdout), nil
}

// Query returns the queue rows of one destination.
func Query(ctx context.Context, runner Runner, commands Commands, name string) ([]Status, error) {
	if runner == nil {
		runner = DefaultRunner()
	}
	commands = commands.withDefaults()

	res, err := runner.Run(ctx, commands.Query, []string{"-P", name}, nil)
	if err != nil {
		return nil, fmt.Errorf("query %s queue: %w", name, err)
	}
	if res.ExitCode != 0 {
		return nil, &failures.ProcessError{Command: commands.Query, ExitCode: res.ExitCode, Stderr: trimNewline(res.Stderr)}
	}
	return parseQueue(res.Stdout), nil
}

// Cancel removes job id from the spool without a tracked Job.
func Cancel(ctx context.Context, runner Runner, commands Commands, id int) error {
	if runner == nil {
		runner = DefaultRunner()
	}
	if id <= 0 {
		return fmt.Errorf("cancel job %d: %w", id, failures.ErrValidation)
	}
	return cancelJob(ctx, runner, commands.withDefaults().Cancel, id)
}

func cancelJob(ctx context.Context, runner Runner, binary string, id int) error {
	res, err := runner.Run(ctx, binary, []string{strconv.Itoa(id)}, nil)
	if err != nil {
		return failures.Wrap(failures.ErrProcess, "spool", "cancel job", strconv.Itoa(id), err)
	}
	if res.ExitCode != 0 {
		return &failures.ProcessError{
			Command:  binary,
			ExitCode: res.ExitCode,
			Stderr:   trimNewline(res.Stderr),
		}
	}
	return nil
}

// Installed reports whether name is among the listed destinations.
func Installed(printers []string, name string) bool {
	for _, p := range printers {
		if p == name {
			return true
		}
	}
	return false
}

// parseQueue turns lpq output into status rows. Rows with an unreadable
// rank or identifier are skipped.
func parseQueue(stdout string) []Status {
	lines := splitLines(stdout)
	if len(lines) <= queueHeaderLines {
		return nil
	}
	rows := make([]Status, 0, len(lines)-queueHeaderLines)
	for _, line := range lines[queueHeaderLines:] {
		cols := columnSeparator.Split(strings.TrimSpace(line), -1)
		if len(cols) < 3 {
			continue
		}
		status := Status{Owner: cols[1]}
		if cols[0] == "active" {
			status.Active = true
		} else {
			pos, err := strconv.Atoi(trimOrdinal(cols[0]))
			if err != nil {
				continue
			}
			status.Position = pos
		}
		id, err := strconv.Atoi(cols[2])
		if err != nil {
			continue
		}
		status.ID = id
		if len(cols) > 3 {
			status.Files = cols[3]
		}
		if len(cols) > 4 {
			status.TotalSize = cols[4]
		}
		rows = append(rows, status)
	}
	return rows
}

// trimOrdinal drops the two-letter suffix from ranks like "1st" or "22nd".
func trimOrdinal(rank string) string {
	if len(rank) < 3 {
		return rank
	}
	return rank[:len(rank)-2]
}

func splitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
