package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrEncoding               = errors.New("encoding error")
	ErrPrinterNotFound        = errors.New("printer not found")
	ErrPrinterListUnavailable = errors.New("printer list unavailable")
	ErrConnection             = errors.New("connection error")
	ErrTimeout                = errors.New("timeout")
	ErrProcess                = errors.New("process error")
)

// Status values recorded for failed dispatches.
const (
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The marker should be one of the exported sentinels above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcess
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Validation reports a missing or malformed input section. The section name is
// part of the message so callers can tell recipient from sender.
func Validation(section, message string) error {
	return Wrap(ErrValidation, section, "", message, nil)
}

// Status maps a dispatch error to the journal status persisted for it.
// Input errors need a corrected request; everything else is a failed attempt.
func Status(err error) string {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrPrinterNotFound):
		return StatusInvalid
	default:
		return StatusFailed
	}
}

// ProcessError reports a CUPS tool that exited with a non-zero code.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no error output"
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, msg)
}

// Is lets errors.Is(err, ErrProcess) match any ProcessError.
func (e *ProcessError) Is(target error) bool {
	return target == ErrProcess
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "label failure"
	}
	return strings.Join(parts, ": ")
}
