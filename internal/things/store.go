package things

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrUnknownList is returned by List for a name that matches no
// canonical view. The HTTP layer maps it to a 404.
var ErrUnknownList = errors.New("unknown list")

// Store is a read-only handle on the Things database. The connection
// is opened lazily on first use and shared for the process lifetime;
// concurrent readers need no mutual exclusion because no writes
// originate here.
type Store struct {
	path string

	mu  sync.Mutex
	db  *sql.DB
	cal Calibrator

	// now is the clock used for calibration and the today/upcoming
	// window. Tests substitute a fixed clock.
	now func() time.Time
}

// NewStore creates a store for the database at path. The file is not
// touched until the first query.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// conn returns the shared connection, opening it read-only on first
// use.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", s.path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open things database: %w", err)
	}
	s.db = db
	return db, nil
}

// Close releases the underlying connection if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

// offset returns the calibrated schedule-date offset, computing it on
// first use.
func (s *Store) offset() (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	return s.cal.Offset(db, s.now()), nil
}
