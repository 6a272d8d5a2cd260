package things

import (
	"database/sql"
)

// Raw column codes. These are observed values, not documented ones;
// decode functions treat anything unrecognized as the most common case
// rather than erroring, since the host app may add codes at any time.
const (
	rawKindTodo    = 0
	rawKindProject = 1
	rawKindHeading = 2

	rawStatusOpen      = 0
	rawStatusCanceled  = 2
	rawStatusCompleted = 3

	rawStartInbox   = 0
	rawStartAnytime = 1
	rawStartSomeday = 2
)

const dateLayout = "2006-01-02"

// rawTask mirrors the scanned TMTask columns. projectArea is the
// parent project's area, joined in so the decoder can resolve
// inheritance without a second query.
type rawTask struct {
	uuid         string
	title        sql.NullString
	kind         sql.NullInt64
	status       sql.NullInt64
	notes        sql.NullString
	start        sql.NullInt64
	startBucket  sql.NullInt64
	startDate    sql.NullInt64
	deadline     sql.NullInt64
	creation     sql.NullFloat64
	modification sql.NullFloat64
	stop         sql.NullFloat64
	reminder     sql.NullFloat64
	project      sql.NullString
	area         sql.NullString
	projectArea  sql.NullString
	heading      sql.NullString
	rule         []byte
	nextInstance sql.NullInt64
	paused       sql.NullInt64
}

// taskColumns is the projection every task query selects, aligned with
// rawTask's scan order.
const taskColumns = `
	t.uuid, t.title, t.type, t.status, t.notes,
	t.start, t.startBucket, t.startDate, t.deadline,
	t.creationDate, t.userModificationDate, t.stopDate, t.reminderTime,
	t.project, t.area, p.area, t.heading,
	t.recurrenceRule, t.nextInstanceStartDate, t.instanceCreationPaused`

// taskFrom joins each task to its parent project for area inheritance.
const taskFrom = `
	FROM TMTask t
	LEFT JOIN TMTask p ON p.uuid = t.project`

func (r *rawTask) scan(row interface{ Scan(...any) error }) error {
	return row.Scan(
		&r.uuid, &r.title, &r.kind, &r.status, &r.notes,
		&r.start, &r.startBucket, &r.startDate, &r.deadline,
		&r.creation, &r.modification, &r.stop, &r.reminder,
		&r.project, &r.area, &r.projectArea, &r.heading,
		&r.rule, &r.nextInstance, &r.paused,
	)
}

func decodeKind(code sql.NullInt64) Kind {
	switch code.Int64 {
	case rawKindProject:
		return KindProject
	case rawKindHeading:
		return KindHeading
	default:
		return KindTodo
	}
}

func decodeStatus(code sql.NullInt64) Status {
	switch code.Int64 {
	case rawStatusCompleted:
		return StatusCompleted
	case rawStatusCanceled:
		return StatusCanceled
	default:
		return StatusIncomplete
	}
}

// deriveBucket reconciles the three overlapping scheduling fields into
// one bucket. The source columns are redundant and can disagree; the
// precedence order below is load-bearing and first match wins.
func deriveBucket(start, startBucket int64, hasStartDate bool) Bucket {
	switch {
	case start == rawStartSomeday:
		return BucketSomeday
	case start == rawStartAnytime && hasStartDate:
		return BucketAnytime
	case startBucket != 0:
		return BucketSomeday
	case start == rawStartInbox && !hasStartDate:
		return BucketInbox
	default:
		return BucketAnytime
	}
}

// decodeTask translates one scanned row into the domain model. It is
// pure given the calibration offset: the same row and offset always
// produce the same Task.
func decodeTask(r *rawTask, offset int64) Task {
	t := Task{
		ID:     r.uuid,
		Title:  r.title.String,
		Kind:   decodeKind(r.kind),
		Status: decodeStatus(r.status),
		Notes:  r.notes.String,
		Bucket: deriveBucket(r.start.Int64, r.startBucket.Int64, r.startDate.Valid),
	}

	if r.startDate.Valid {
		t.StartDate = decodeScheduleDate(r.startDate.Int64, offset).Format(dateLayout)
	}
	if r.deadline.Valid {
		t.Deadline = decodeScheduleDate(r.deadline.Int64, offset).Format(dateLayout)
	}
	if r.creation.Valid {
		t.CreatedAt = decodeTimestamp(r.creation.Float64)
	}
	if r.modification.Valid {
		t.ModifiedAt = decodeTimestamp(r.modification.Float64)
	}
	if r.stop.Valid {
		at := decodeTimestamp(r.stop.Float64)
		t.CompletedAt = &at
	}
	if r.reminder.Valid {
		at := decodeTimestamp(r.reminder.Float64)
		t.ReminderAt = &at
	}

	t.Project = r.project.String
	// Own area wins; a task inside a project inherits the project's
	// area only when its own column is unset. The schema has no deeper
	// ownership chains.
	if r.area.Valid && r.area.String != "" {
		t.Area = r.area.String
	} else if r.projectArea.Valid {
		t.Area = r.projectArea.String
	}

	rec := extractRecurrence(r.rule)
	t.Recurring = rec.Recurring
	t.RecurrenceFrequency = rec.Frequency
	if rec.Recurring && r.nextInstance.Valid {
		next := decodeScheduleDate(r.nextInstance.Int64, offset).Format(dateLayout)
		t.NextOccurrence = next
		// A template without a concrete start date still represents a
		// commitment; expose the next occurrence as its effective start
		// so it stays schedulable in forward-looking views.
		if t.StartDate == "" {
			t.StartDate = next
		}
	}

	return t
}
