// Package spool submits raw label documents to the CUPS print spool and
// tracks the resulting jobs.
//
// A Printer owns a watcher goroutine that polls the queue of one destination
// and reconciles every tracked Job against the rows it reports. Jobs move
// through a small state machine (pending, sent, error, completed, deleted)
// and publish each transition on their Events channel. All interaction with
// CUPS goes through the Runner interface so tests can script command output.
package spool
