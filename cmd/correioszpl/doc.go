// Command correioszpl renders carrier shipping labels as ZPL and sends them
// to label printers.
//
// A request is a JSON document with "options" and "label" sections, read
// from a file argument or standard input. Options missing from the request
// fall back to the configuration file.
//
//	correioszpl render label.json > label.zpl
//	correioszpl print --wait label.json
//	correioszpl history
package main
