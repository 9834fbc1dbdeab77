package chronicle

import (
	"path/filepath"
	"testing"

	"github.com/varkess/ecosphere/internal/world"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chronicle.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAppendAndReadEvents(t *testing.T) {
	db := testDB(t)

	events := []world.Event{
		{Year: 1, Layer: "geography", Kind: "tectonic", Description: "quake"},
		{Year: 2, Layer: "ecosystem", Kind: "extinction", Description: "a species died out"},
		{Year: 3, Layer: "civilization", Kind: "emergence", Description: "a civilization emerged"},
	}
	if err := db.AppendEvents(events); err != nil {
		t.Fatalf("AppendEvents: %v", err)
	}

	got, err := db.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Newest first.
	if got[0].Year != 3 || got[2].Year != 1 {
		t.Errorf("events out of order: %+v", got)
	}
	if got[0] != events[2] {
		t.Errorf("round trip mangled the event: %+v vs %+v", got[0], events[2])
	}
}

func TestRecentEventsLimit(t *testing.T) {
	db := testDB(t)

	var events []world.Event
	for year := 1; year <= 20; year++ {
		events = append(events, world.Event{Year: year, Layer: "world", Kind: "test", Description: "x"})
	}
	if err := db.AppendEvents(events); err != nil {
		t.Fatal(err)
	}

	got, err := db.RecentEvents(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d events, want 5", len(got))
	}
	if got[0].Year != 20 {
		t.Errorf("newest event year %d, want 20", got[0].Year)
	}
}

func TestAppendEventsEmptyBatch(t *testing.T) {
	db := testDB(t)
	if err := db.AppendEvents(nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := testDB(t)

	if err := db.SaveMeta("planet_name", "Zephyria"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetMeta("planet_name")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Zephyria" {
		t.Errorf("GetMeta = %q, want Zephyria", got)
	}

	// Keys are upserted, not duplicated.
	if err := db.SaveMeta("planet_name", "Zephyria-2"); err != nil {
		t.Fatal(err)
	}
	if got, _ := db.GetMeta("planet_name"); got != "Zephyria-2" {
		t.Errorf("GetMeta after overwrite = %q", got)
	}

	if _, err := db.GetMeta("missing"); err == nil {
		t.Error("missing key did not error")
	}
}

func TestSaveSnapshotReplaces(t *testing.T) {
	db := testDB(t)

	s := world.Summary{Name: "Zephyria", Age: 100}
	if err := db.SaveSnapshot(100, s); err != nil {
		t.Fatal(err)
	}
	s.SizeKm = 12000
	if err := db.SaveSnapshot(100, s); err != nil {
		t.Fatalf("replacing snapshot: %v", err)
	}

	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM snapshots"); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("snapshots table has %d rows, want 1", n)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronicle.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if got, err := db.GetMeta("seed"); err != nil || got != "42" {
		t.Errorf("GetMeta after reopen = %q, %v", got, err)
	}
}
