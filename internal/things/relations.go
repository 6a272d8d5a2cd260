package things

import (
	"context"
	"database/sql"
	"fmt"
)

// tagsFor returns the tag names attached to a task. Tags are a set; no
// ordering is guaranteed.
func tagsFor(ctx context.Context, db *sql.DB, taskID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT tg.title
		FROM TMTaskTag tt
		JOIN TMTag tg ON tg.uuid = tt.tags
		WHERE tt.tasks = ?
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags for %s: %w", taskID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var title sql.NullString
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		if title.Valid {
			tags = append(tags, title.String)
		}
	}
	return tags, rows.Err()
}

// checklistFor returns a task's checklist items ordered by their stored
// position.
func checklistFor(ctx context.Context, db *sql.DB, taskID string) ([]ChecklistItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT uuid, title, status
		FROM TMChecklistItem
		WHERE task = ?
		ORDER BY "index" ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checklist for %s: %w", taskID, err)
	}
	defer rows.Close()

	var items []ChecklistItem
	for rows.Next() {
		var (
			id     string
			title  sql.NullString
			status sql.NullInt64
		)
		if err := rows.Scan(&id, &title, &status); err != nil {
			return nil, err
		}
		items = append(items, ChecklistItem{
			ID:     id,
			Title:  title.String,
			Status: decodeStatus(status),
		})
	}
	return items, rows.Err()
}

// attachRelations fills in tags and checklist for each task, one
// fan-out query pair per row. Batch fetching would cut query count but
// is not needed for correctness at local-database latencies.
func attachRelations(ctx context.Context, db *sql.DB, tasks []Task) error {
	for i := range tasks {
		tags, err := tagsFor(ctx, db, tasks[i].ID)
		if err != nil {
			return err
		}
		checklist, err := checklistFor(ctx, db, tasks[i].ID)
		if err != nil {
			return err
		}
		tasks[i].Tags = tags
		tasks[i].Checklist = checklist
	}
	return nil
}
