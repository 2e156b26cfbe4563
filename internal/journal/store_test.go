package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"correioszpl/internal/journal"
	"correioszpl/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	d := testsupport.RecordDispatch(t, store, "d-1", "SZ123456789BR")
	if d.TrackNumber != "SZ123456789BR" {
		t.Fatalf("unexpected track number %q", d.TrackNumber)
	}
	if d.Status != journal.StatusSent {
		t.Fatalf("expected sent, got %q", d.Status)
	}
	if d.CreatedAt.IsZero() || !d.CreatedAt.Equal(d.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v / %v", d.CreatedAt, d.UpdatedAt)
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %#v", missing)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.RecordDispatch(t, store, "d-1", "SZ1")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	got, err := reopened.Get(context.Background(), "d-1")
	if err != nil || got == nil {
		t.Fatalf("expected row after reopen, got %#v (%v)", got, err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := journal.Open(path); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	if err := store.Record(context.Background(), journal.Dispatch{TrackNumber: "SZ1"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestRecordEventMovesStatus(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.RecordDispatch(t, store, "d-1", "SZ1")

	if err := store.RecordEvent(ctx, "d-1", "updated", "active", journal.StatusSent); err != nil {
		t.Fatalf("RecordEvent updated: %v", err)
	}
	if err := store.RecordEvent(ctx, "d-1", "completed", "", journal.StatusCompleted); err != nil {
		t.Fatalf("RecordEvent completed: %v", err)
	}
	// Terminal status sticks.
	if err := store.RecordEvent(ctx, "d-1", "deleted", "", journal.StatusDeleted); err != nil {
		t.Fatalf("RecordEvent deleted: %v", err)
	}

	got, err := store.Get(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != journal.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}

	events, err := store.Events(ctx, "d-1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Event != "updated" || events[0].Detail != "active" {
		t.Fatalf("unexpected first event %#v", events[0])
	}
	if events[1].Event != "completed" || events[1].Detail != "" {
		t.Fatalf("unexpected second event %#v", events[1])
	}
}

func TestListOrdersAndFilters(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := []journal.Dispatch{
		{ID: "a", TrackNumber: "SZ1", Transport: "network", Destination: "10.0.0.5:9100", Status: journal.StatusSent, CreatedAt: base},
		{ID: "b", TrackNumber: "SZ2", Transport: "spool", Destination: "zebra", Status: journal.StatusFailed, ErrorMessage: "boom", CreatedAt: base.Add(time.Minute)},
		{ID: "c", TrackNumber: "SZ3", Transport: "spool", Destination: "zebra", Status: journal.StatusInvalid, JobID: 7, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, d := range rows {
		if err := store.Record(ctx, d); err != nil {
			t.Fatalf("Record %s: %v", d.ID, err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %v", ids(all))
	}
	if all[0].JobID != 7 {
		t.Fatalf("expected job id 7, got %d", all[0].JobID)
	}
	if all[1].ErrorMessage != "boom" {
		t.Fatalf("expected error message, got %q", all[1].ErrorMessage)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Fatalf("unexpected limited list: %v", ids(limited))
	}

	failed, err := store.List(ctx, 0, journal.StatusFailed, journal.StatusInvalid)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed rows, got %v", ids(failed))
	}
}

func TestSubSecondTimestampsKeepOrder(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	whole := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fraction := whole.Add(100 * time.Millisecond)

	for _, d := range []journal.Dispatch{
		{ID: "whole", TrackNumber: "SZ1", Transport: "spool", Destination: "zebra", Status: journal.StatusCompleted, CreatedAt: whole},
		{ID: "fraction", TrackNumber: "SZ2", Transport: "spool", Destination: "zebra", Status: journal.StatusCompleted, CreatedAt: fraction},
	} {
		if err := store.Record(ctx, d); err != nil {
			t.Fatalf("Record %s: %v", d.ID, err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "fraction" || all[1].ID != "whole" {
		t.Fatalf("unexpected order: %v", ids(all))
	}
	if !all[0].CreatedAt.Equal(fraction) {
		t.Fatalf("created_at round trip: got %v want %v", all[0].CreatedAt, fraction)
	}

	removed, err := store.Prune(ctx, whole.Add(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected only the whole-second row pruned, got %d", removed)
	}
	left, err := store.Get(ctx, "fraction")
	if err != nil || left == nil {
		t.Fatalf("expected fraction row to survive: %v", err)
	}
}

func TestPrune(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	if err := store.Record(ctx, journal.Dispatch{ID: "old", TrackNumber: "SZ1", Transport: "spool", Destination: "z", Status: journal.StatusCompleted, CreatedAt: old}); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	testsupport.RecordDispatch(t, store, "new", "SZ2")
	if err := store.RecordEvent(ctx, "old", "completed", "", journal.StatusCompleted); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	removed, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned row, got %d", removed)
	}
	events, err := store.Events(ctx, "old")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected cascade delete of events, got %d", len(events))
	}
}

func TestStatusTerminal(t *testing.T) {
	if journal.StatusSent.Terminal() {
		t.Fatal("sent must not be terminal")
	}
	for _, st := range []journal.Status{journal.StatusCompleted, journal.StatusDeleted, journal.StatusFailed, journal.StatusInvalid} {
		if !st.Terminal() {
			t.Fatalf("%q should be terminal", st)
		}
	}
}

func ids(ds []*journal.Dispatch) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestLookupByPrefix(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.RecordDispatch(t, store, "abc12345-0000", "SZ1")
	testsupport.RecordDispatch(t, store, "abd99999-0000", "SZ2")

	got, err := store.Lookup(ctx, "abc1")
	if err != nil || got == nil || got.TrackNumber != "SZ1" {
		t.Fatalf("expected SZ1 by prefix, got %#v (%v)", got, err)
	}
	got, err = store.Lookup(ctx, "abd99999-0000")
	if err != nil || got == nil || got.TrackNumber != "SZ2" {
		t.Fatalf("expected SZ2 by full id, got %#v (%v)", got, err)
	}
	if _, err := store.Lookup(ctx, "ab"); !errors.Is(err, journal.ErrAmbiguousPrefix) {
		t.Fatalf("expected ambiguous prefix error, got %v", err)
	}
	got, err = store.Lookup(ctx, "a_c")
	if err != nil || got != nil {
		t.Fatalf("expected wildcard characters to match literally, got %#v (%v)", got, err)
	}
}
