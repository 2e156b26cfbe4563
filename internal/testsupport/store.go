package testsupport

import (
	"context"
	"testing"

	"correioszpl/internal/config"
	"correioszpl/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordDispatch inserts a sent dispatch for tests using the provided store.
func RecordDispatch(t testing.TB, store *journal.Store, id, trackNumber string) *journal.Dispatch {
	t.Helper()

	d := journal.Dispatch{
		ID:          id,
		TrackNumber: trackNumber,
		Transport:   "spool",
		Destination: "zebra",
		Status:      journal.StatusSent,
	}
	if err := store.Record(context.Background(), d); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	got, err := store.Get(context.Background(), id)
	if err != nil || got == nil {
		t.Fatalf("store.Get(%q): %v", id, err)
	}
	return got
}
