// Package failures defines the error taxonomy shared by the label pipeline and
// the print transports.
//
// Every failure carries one of the exported marker sentinels so callers can
// branch with errors.Is regardless of how deeply the cause was wrapped. Use
// Wrap to attach stage and operation context; use ProcessError for non-zero
// exits from CUPS tools so the captured standard error travels with it.
package failures
