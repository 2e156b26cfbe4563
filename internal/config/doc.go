// Package config loads, normalizes, and validates correioszpl configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the CORREIOSZPL_PRINTER_NAME environment override.
// The Config type covers the scratch directory for symbol rendering, the
// label defaults, the printer transport, the CUPS binaries, and logging.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
