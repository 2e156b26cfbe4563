// Package zpl assembles the final label document.
//
// Assemble lays out a prepared label.Label, its embedded symbol and a carrier
// logo on a fixed template with a handful of conditional lines. Logo artwork
// is held as ready-made ^GFA graphic fields: DefaultLogos draws simple marks
// so the module works without any asset files, and LoadLogos swaps in PNG
// artwork configured on disk.
package zpl
