package things

import "time"

// Kind distinguishes the row types that share the TMTask relation.
type Kind string

const (
	KindTodo    Kind = "to-do"
	KindProject Kind = "project"
	KindHeading Kind = "heading"
)

// Status is the completion state of a task or checklist item.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

// Bucket is the coarse scheduling state derived from the raw start
// fields. It is never stored directly; see deriveBucket.
type Bucket string

const (
	BucketInbox   Bucket = "inbox"
	BucketAnytime Bucket = "anytime"
	BucketSomeday Bucket = "someday"
)

// Task is the domain projection of one TMTask row.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Kind      Kind   `json:"kind"`
	Status    Status `json:"status"`
	Notes     string `json:"notes,omitempty"`
	Bucket    Bucket `json:"schedulingBucket,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	Deadline  string `json:"deadline,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	ModifiedAt  time.Time  `json:"modifiedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ReminderAt  *time.Time `json:"reminderTime,omitempty"`

	Project string `json:"parentProject,omitempty"`
	Area    string `json:"area,omitempty"`

	Tags      []string        `json:"tags,omitempty"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`

	Recurring           bool   `json:"isRecurring"`
	RecurrenceFrequency string `json:"recurrenceFrequency,omitempty"`
	NextOccurrence      string `json:"nextOccurrenceDate,omitempty"`
}

// ChecklistItem is one entry of a task's checklist, ordered by its
// stored position.
type ChecklistItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Project is a Task of kind project plus its child count.
type Project struct {
	Task
	ChildCount int `json:"childCount"`
}

// Area is a top-level grouping of projects and tasks.
type Area struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Tag is a user-defined label, optionally bound to a keyboard shortcut.
type Tag struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Shortcut string `json:"shortcut,omitempty"`
}
