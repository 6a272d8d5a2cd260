package things

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// resultCap bounds the views that can match arbitrarily many rows.
// Search over an unindexed notes column is a full scan; the cap bounds
// the damage instead of a timeout.
const resultCap = 50

// List returns one of the canonical views by name.
func (s *Store) List(ctx context.Context, name string) ([]Task, error) {
	switch name {
	case "inbox":
		return s.inbox(ctx)
	case "today":
		return s.today(ctx)
	case "upcoming":
		return s.upcoming(ctx)
	case "anytime":
		return s.anytime(ctx)
	case "someday":
		return s.someday(ctx)
	case "logbook":
		return s.logbook(ctx)
	default:
		return nil, ErrUnknownList
	}
}

// fetchRaw runs one task query and scans all rows. where must not be
// empty; limit <= 0 means unbounded.
func (s *Store) fetchRaw(ctx context.Context, db *sql.DB, where, order string, limit int, args ...any) ([]rawTask, error) {
	q := "SELECT" + taskColumns + taskFrom + "\n\tWHERE " + where
	if order != "" {
		q += "\n\tORDER BY " + order
	}
	if limit > 0 {
		q += fmt.Sprintf("\n\tLIMIT %d", limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("task query failed: %w", err)
	}
	defer rows.Close()

	var raws []rawTask
	for rows.Next() {
		var r rawTask
		if err := r.scan(rows); err != nil {
			return nil, err
		}
		raws = append(raws, r)
	}
	return raws, rows.Err()
}

// queryTasks fetches, decodes and attaches relations in one step, for
// views that need no merge logic.
func (s *Store) queryTasks(ctx context.Context, where, order string, limit int, args ...any) ([]Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	offset, err := s.offset()
	if err != nil {
		return nil, err
	}

	raws, err := s.fetchRaw(ctx, db, where, order, limit, args...)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(raws))
	for i := range raws {
		tasks = append(tasks, decodeTask(&raws[i], offset))
	}
	if err := attachRelations(ctx, db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) inbox(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.project IS NULL AND t.heading IS NULL
		AND t.startDate IS NULL AND t.start = 0`,
		"t.uuid ASC", 0)
}

// todayRaw returns "today" expressed in the raw schedule encoding.
func (s *Store) todayRaw(offset int64) int64 {
	return dayFloor(s.now().Unix()) - offset
}

// today merges concrete scheduled tasks with active recurring templates
// whose next occurrence falls inside a one-day tolerance window of
// today. The window absorbs timezone skew between the store's clock and
// the host's. Concrete rows win when a template has already spawned its
// instance for the day.
func (s *Store) today(ctx context.Context) ([]Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	offset, err := s.offset()
	if err != nil {
		return nil, err
	}
	today := s.todayRaw(offset)

	concrete, err := s.fetchRaw(ctx, db, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.start = 1 AND t.startDate IS NOT NULL
		AND t.startDate < ?`,
		"t.todayIndex ASC", 0, today+daySeconds)
	if err != nil {
		return nil, err
	}

	templates, err := s.fetchRaw(ctx, db, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.recurrenceRule IS NOT NULL
		AND IFNULL(t.instanceCreationPaused, 0) = 0
		AND t.nextInstanceStartDate >= ? AND t.nextInstanceStartDate < ?`,
		"t.nextInstanceStartDate ASC", 0, today-daySeconds, today+daySeconds)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(concrete))
	tasks := make([]Task, 0, len(concrete)+len(templates))
	for i := range concrete {
		seen[concrete[i].uuid] = true
		tasks = append(tasks, decodeTask(&concrete[i], offset))
	}
	for i := range templates {
		if seen[templates[i].uuid] {
			continue
		}
		tasks = append(tasks, decodeTask(&templates[i], offset))
	}

	if err := attachRelations(ctx, db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// upcoming merges concrete future tasks with recurring templates whose
// next occurrence is strictly after today, sorted by each row's
// effective date: the next-occurrence value for templates, the start
// date for concrete rows.
func (s *Store) upcoming(ctx context.Context) ([]Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	offset, err := s.offset()
	if err != nil {
		return nil, err
	}
	today := s.todayRaw(offset)

	type dated struct {
		task         Task
		effectiveRaw int64
	}

	concrete, err := s.fetchRaw(ctx, db, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.start = 1 AND t.startDate IS NOT NULL AND t.startDate > ?
		AND IFNULL(t.startBucket, 0) = 0`,
		"t.startDate ASC", 0, today)
	if err != nil {
		return nil, err
	}

	templates, err := s.fetchRaw(ctx, db, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.recurrenceRule IS NOT NULL
		AND IFNULL(t.instanceCreationPaused, 0) = 0
		AND t.nextInstanceStartDate > ?`,
		"t.nextInstanceStartDate ASC", 0, today)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(concrete))
	merged := make([]dated, 0, len(concrete)+len(templates))
	for i := range concrete {
		seen[concrete[i].uuid] = true
		merged = append(merged, dated{decodeTask(&concrete[i], offset), concrete[i].startDate.Int64})
	}
	for i := range templates {
		if seen[templates[i].uuid] {
			continue
		}
		merged = append(merged, dated{decodeTask(&templates[i], offset), templates[i].nextInstance.Int64})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].effectiveRaw < merged[j].effectiveRaw
	})

	tasks := make([]Task, 0, len(merged))
	for _, d := range merged {
		tasks = append(tasks, d.task)
	}
	if err := attachRelations(ctx, db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) anytime(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.start = 1 AND IFNULL(t.startBucket, 0) = 0`,
		`t."index" ASC`, 0)
}

func (s *Store) someday(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.start = 2`,
		"t.creationDate DESC", 0)
}

func (s *Store) logbook(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0 AND t.status IN (2, 3)`,
		"t.stopDate DESC", resultCap)
}

// Search matches q as a case-insensitive substring of title or notes,
// most recently modified first.
func (s *Store) Search(ctx context.Context, q string) ([]Task, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0
		AND (LOWER(t.title) LIKE ? OR LOWER(t.notes) LIKE ?)`,
		"t.userModificationDate DESC", resultCap, pattern, pattern)
}

// TasksByTag returns incomplete tasks carrying the named tag.
func (s *Store) TasksByTag(ctx context.Context, name string) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.type = 0 AND t.status = 0
		AND t.uuid IN (
			SELECT tt.tasks FROM TMTaskTag tt
			JOIN TMTag tg ON tg.uuid = tt.tags
			WHERE tg.title = ?
		)`,
		"t.userModificationDate DESC", 0, name)
}

// ProjectTasks returns a project's non-trashed children in manual
// order, completed and canceled ones included.
func (s *Store) ProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	return s.queryTasks(ctx, `
		t.trashed = 0 AND t.project = ?`,
		`t."index" ASC`, 0, projectID)
}

// Task looks up a single task by identifier. A missing or trashed row
// is (nil, nil), never an error.
func (s *Store) Task(ctx context.Context, id string) (*Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	offset, err := s.offset()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		"SELECT"+taskColumns+taskFrom+"\n\tWHERE t.uuid = ? AND t.trashed = 0", id)

	var r rawTask
	if err := r.scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task lookup failed: %w", err)
	}

	task := decodeTask(&r, offset)
	tasks := []Task{task}
	if err := attachRelations(ctx, db, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// Projects returns all non-trashed projects with their open child
// counts.
func (s *Store) Projects(ctx context.Context) ([]Project, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	offset, err := s.offset()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT"+taskColumns+`,
		(SELECT COUNT(*) FROM TMTask c
		 WHERE c.project = t.uuid AND c.trashed = 0 AND c.type = 0)`+
		taskFrom+`
		WHERE t.trashed = 0 AND t.type = 1
		ORDER BY t."index" ASC`)
	if err != nil {
		return nil, fmt.Errorf("project query failed: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var (
			r          rawTask
			childCount int
		)
		if err := rows.Scan(
			&r.uuid, &r.title, &r.kind, &r.status, &r.notes,
			&r.start, &r.startBucket, &r.startDate, &r.deadline,
			&r.creation, &r.modification, &r.stop, &r.reminder,
			&r.project, &r.area, &r.projectArea, &r.heading,
			&r.rule, &r.nextInstance, &r.paused,
			&childCount,
		); err != nil {
			return nil, err
		}
		projects = append(projects, Project{
			Task:       decodeTask(&r, offset),
			ChildCount: childCount,
		})
	}
	return projects, rows.Err()
}

// Areas returns all areas.
func (s *Store) Areas(ctx context.Context) ([]Area, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT uuid, title FROM TMArea ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("area query failed: %w", err)
	}
	defer rows.Close()

	var areas []Area
	for rows.Next() {
		var (
			id    string
			title sql.NullString
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		areas = append(areas, Area{ID: id, Title: title.String})
	}
	return areas, rows.Err()
}

// Tags returns all tags.
func (s *Store) Tags(ctx context.Context) ([]Tag, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT uuid, title, shortcut FROM TMTag ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("tag query failed: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var (
			id              string
			title, shortcut sql.NullString
		)
		if err := rows.Scan(&id, &title, &shortcut); err != nil {
			return nil, err
		}
		tags = append(tags, Tag{ID: id, Title: title.String, Shortcut: shortcut.String})
	}
	return tags, rows.Err()
}
