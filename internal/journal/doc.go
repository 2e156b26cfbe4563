// Package journal records dispatched labels and print job transitions in
// SQLite.
//
// Every PrintLabel call produces one dispatch row keyed by a correlation id;
// spool jobs append an event row for each lifecycle transition and move the
// dispatch status along with them. The history is what `correioszpl history`
// reads back.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package journal
