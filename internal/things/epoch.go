package things

import (
	"database/sql"
	"sync"
	"time"
)

const daySeconds = 86400

// cocoaEpochOffset converts seconds-since-2001-01-01 (the fixed date
// family: creationDate, userModificationDate, stopDate, reminderTime)
// into Unix seconds.
const cocoaEpochOffset int64 = 978307200

// fallbackOffset is used when the store has no reference row to
// calibrate against. It is the one calibration ever observed during
// development, where raw schedule values were seconds since the Cocoa
// reference date. A fresh install with zero scheduled tasks has never
// been validated against this constant.
const fallbackOffset = cocoaEpochOffset

// Calibrator infers the offset between raw schedule values
// (startDate, deadline, nextInstanceStartDate) and Unix time. The
// database records these against an origin that appears nowhere in the
// schema, so the only way to decode them is to find a row whose
// calendar day is known: the most recently scheduled active task,
// assumed to be dated today or very close to it.
//
// The result is memoized for the process lifetime. Calibration is pure,
// so a stale read during a race is harmless, but the mutex keeps the
// query from running more than once.
type Calibrator struct {
	mu         sync.Mutex
	calibrated bool
	cached     int64
}

// Offset returns the memoized offset, calibrating on first call.
func (c *Calibrator) Offset(db *sql.DB, now time.Time) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.calibrated {
		c.cached = calibrate(db, now)
		c.calibrated = true
	}
	return c.cached
}

// Reset discards the memoized offset so the next Offset call
// recalibrates. Test hook; production code never calls it because the
// store's epoch choice cannot change within a run.
func (c *Calibrator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calibrated = false
	c.cached = 0
}

// calibrate anchors the raw schedule encoding against the clock. The
// most recently scheduled incomplete task is assumed to be dated today;
// both sides are floored to day granularity so time-of-day cannot skew
// the offset.
func calibrate(db *sql.DB, now time.Time) int64 {
	var raw sql.NullInt64
	err := db.QueryRow(`
		SELECT startDate FROM TMTask
		WHERE trashed = 0 AND status = 0 AND start = 1 AND startDate IS NOT NULL
		ORDER BY startDate DESC LIMIT 1
	`).Scan(&raw)
	if err != nil || !raw.Valid {
		return fallbackOffset
	}

	nowDay := dayFloor(now.Unix())
	rawDay := dayFloor(raw.Int64)
	return nowDay - rawDay
}

func dayFloor(sec int64) int64 {
	// Integer division truncates toward zero; raw values and Unix
	// times in this store are far from the 1970 boundary, so flooring
	// and truncation agree.
	return sec / daySeconds * daySeconds
}

// decodeScheduleDate converts a raw schedule value to a calendar day
// using the calibrated offset. Time-of-day is discarded.
func decodeScheduleDate(raw, offset int64) time.Time {
	t := time.Unix(raw+offset, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// decodeTimestamp converts a fixed-family value (Cocoa reference
// seconds) to Unix time. Fractional seconds are dropped.
func decodeTimestamp(raw float64) time.Time {
	return time.Unix(int64(raw)+cocoaEpochOffset, 0).UTC()
}
