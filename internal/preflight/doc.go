// Package preflight provides readiness checks for the printers and paths
// correioszpl depends on.
//
// The CLI "correioszpl doctor" command runs RunAll and renders the results;
// individual checks are exported so callers can probe a single printer.
// Checks only report; none of them create directories or change state.
package preflight
