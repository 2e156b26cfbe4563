// Package dispatch turns label requests into printed labels.
//
// Service is the facade used by the CLI: Render runs the encoding pipeline
// (prepare, payload, symbol, template) and returns the ZPL document;
// PrintLabel renders and hands the document to a Dispatcher, recording the
// outcome and any later spool job transitions in the journal.
//
// Dispatcher owns transport selection. Network printers receive the document
// over one raw TCP connection; spool printers go through CUPS, with one
// spool.Printer (and its queue watcher) kept per destination until Close.
package dispatch
