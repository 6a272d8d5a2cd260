package things

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

// testNow is the frozen clock every fixture store runs on.
var testNow = time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)

// testOffset is the calibration offset fixtures are seeded against.
// Day-aligned so anchor rows calibrate to exactly this value.
const testOffset int64 = 978307200

// testSchema mirrors the slice of the Things schema the queries touch.
// uuid deliberately carries no PRIMARY KEY constraint: the dedup tests
// need two rows sharing an identifier, which the merge logic must
// collapse.
const testSchema = `
	CREATE TABLE TMTask (
		uuid TEXT,
		title TEXT,
		type INTEGER DEFAULT 0,
		status INTEGER DEFAULT 0,
		notes TEXT,
		start INTEGER DEFAULT 0,
		startBucket INTEGER DEFAULT 0,
		startDate INTEGER,
		deadline INTEGER,
		creationDate REAL,
		userModificationDate REAL,
		stopDate REAL,
		reminderTime REAL,
		project TEXT,
		area TEXT,
		heading TEXT,
		trashed INTEGER DEFAULT 0,
		todayIndex INTEGER DEFAULT 0,
		"index" INTEGER DEFAULT 0,
		recurrenceRule BLOB,
		nextInstanceStartDate INTEGER,
		instanceCreationPaused INTEGER DEFAULT 0
	);
	CREATE TABLE TMArea (uuid TEXT PRIMARY KEY, title TEXT);
	CREATE TABLE TMTag (uuid TEXT PRIMARY KEY, title TEXT, shortcut TEXT);
	CREATE TABLE TMTaskTag (tasks TEXT, tags TEXT);
	CREATE TABLE TMChecklistItem (
		uuid TEXT PRIMARY KEY,
		title TEXT,
		status INTEGER DEFAULT 0,
		task TEXT,
		"index" INTEGER DEFAULT 0
	);
`

// newTestStore creates a Things-shaped database in a temp dir and a
// Store over it with a frozen clock. The returned *sql.DB is a
// read-write seeding handle; the store itself opens read-only.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "main.sqlite")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open seed database: %v", err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewStore(dbPath)
	store.now = func() time.Time { return testNow }
	t.Cleanup(func() { store.Close() })

	return store, db
}

// precalibrate pins the store's offset so query tests don't depend on
// which rows happen to win the calibration scan.
func precalibrate(store *Store, offset int64) {
	store.cal.cached = offset
	store.cal.calibrated = true
}

// rawToday is "today" under testNow expressed in the raw schedule
// encoding.
func rawToday() int64 {
	return dayFloor(testNow.Unix()) - testOffset
}

// taskRow seeds one TMTask row. Pointer fields seed NULL when nil.
type taskRow struct {
	uuid         string
	title        string
	kind         int
	status       int
	notes        string
	start        int
	startBucket  int
	startDate    *int64
	deadline     *int64
	creation     float64
	modification float64
	stop         *float64
	reminder     *float64
	project      *string
	area         *string
	heading      *string
	trashed      int
	todayIndex   int
	position     int
	rule         []byte
	nextInstance *int64
	paused       int
}

func seedTask(t *testing.T, db *sql.DB, row taskRow) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO TMTask (
			uuid, title, type, status, notes,
			start, startBucket, startDate, deadline,
			creationDate, userModificationDate, stopDate, reminderTime,
			project, area, heading,
			trashed, todayIndex, "index",
			recurrenceRule, nextInstanceStartDate, instanceCreationPaused
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		row.uuid, row.title, row.kind, row.status, row.notes,
		row.start, row.startBucket, row.startDate, row.deadline,
		row.creation, row.modification, row.stop, row.reminder,
		row.project, row.area, row.heading,
		row.trashed, row.todayIndex, row.position,
		row.rule, row.nextInstance, row.paused,
	)
	if err != nil {
		t.Fatalf("Failed to seed task %s: %v", row.uuid, err)
	}
}

func seedTag(t *testing.T, db *sql.DB, id, title, shortcut string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO TMTag (uuid, title, shortcut) VALUES (?, ?, ?)`, id, title, shortcut); err != nil {
		t.Fatalf("Failed to seed tag %s: %v", id, err)
	}
}

func tagTask(t *testing.T, db *sql.DB, taskID, tagID string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO TMTaskTag (tasks, tags) VALUES (?, ?)`, taskID, tagID); err != nil {
		t.Fatalf("Failed to associate task %s with tag %s: %v", taskID, tagID, err)
	}
}

func seedArea(t *testing.T, db *sql.DB, id, title string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO TMArea (uuid, title) VALUES (?, ?)`, id, title); err != nil {
		t.Fatalf("Failed to seed area %s: %v", id, err)
	}
}

func seedChecklistItem(t *testing.T, db *sql.DB, id, title string, status int, taskID string, position int) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO TMChecklistItem (uuid, title, status, task, "index") VALUES (?, ?, ?, ?, ?)`,
		id, title, status, taskID, position,
	); err != nil {
		t.Fatalf("Failed to seed checklist item %s: %v", id, err)
	}
}

func i64p(v int64) *int64     { return &v }
func f64p(v float64) *float64 { return &v }
func strp(v string) *string   { return &v }

func taskIDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestStoreLazyOpen(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "main.sqlite"))
	defer store.Close()

	// NewStore must not touch the file; the error surfaces on first
	// query.
	if store.db != nil {
		t.Fatal("Given a new store, the connection should not be open before first use")
	}

	if _, err := store.List(context.Background(), "inbox"); err == nil {
		t.Fatal("Given a nonexistent database, queries should fail")
	}
}

func TestStoreCloseWithoutOpen(t *testing.T) {
	store := NewStore("unused")
	if err := store.Close(); err != nil {
		t.Fatalf("Close before first use should be a no-op, got %v", err)
	}
}

func TestStoreSharedConnection(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.conn()
	if err != nil {
		t.Fatalf("Failed to open connection: %v", err)
	}
	second, err := store.conn()
	if err != nil {
		t.Fatalf("Failed to reuse connection: %v", err)
	}
	if first != second {
		t.Error("Given two conn calls, the same handle should be reused")
	}
}

func TestStoreReadOnly(t *testing.T) {
	store, _ := newTestStore(t)

	db, err := store.conn()
	if err != nil {
		t.Fatalf("Failed to open connection: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO TMTask (uuid) VALUES ('x')`); err == nil {
		t.Error("Given a read-only store connection, writes should fail")
	}
}
