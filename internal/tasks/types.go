package tasks

import (
	"context"

	gtasks "google.golang.org/api/tasks/v1"
)

const (
	// DefaultTaskListID addresses the user's default task list.
	DefaultTaskListID = "@default"

	// MaxPageSize is the largest page the remote API hands out.
	MaxPageSize int64 = 100

	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList is a named collection of tasks.
type TaskList struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated string `json:"updated,omitempty"`
}

// Task is a single item in a task list.
//
// TaskListID and TaskListTitle are not part of the remote record; they are
// attached locally when tasks are enumerated across lists.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Due       string `json:"due,omitempty"`
	Status    string `json:"status,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Completed string `json:"completed,omitempty"`
	Position  string `json:"position,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
	Links     []Link `json:"links,omitempty"`
	SelfLink  string `json:"selfLink,omitempty"`
	Etag      string `json:"etag,omitempty"`
	Kind      string `json:"kind,omitempty"`

	TaskListID    string `json:"taskListId,omitempty"`
	TaskListTitle string `json:"taskListTitle,omitempty"`
}

// Link represents a related link in a task
type Link struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title  *string
	Notes  *string
	Due    *string
	Status *string
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Notes == nil && p.Due == nil && p.Status == nil
}

// ListTasksOptions narrows a task listing.
type ListTasksOptions struct {
	MaxResults int64
	PageToken  string
	// ShowCompleted defaults to the remote default (true) when nil.
	ShowCompleted *bool
	ShowHidden    bool
	DueMin        string
	DueMax        string
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Items         []Task
	NextPageToken string
}

// Placement positions a task on insert or move. Parent is passed as a call
// parameter; the remote API ignores it inside the task body.
type Placement struct {
	Parent   string
	Previous string
}

// API is the set of remote operations the workflow engine depends on.
type API interface {
	ListTaskLists(ctx context.Context, maxResults int64) ([]TaskList, error)
	GetTaskList(ctx context.Context, taskListID string) (*TaskList, error)
	InsertTaskList(ctx context.Context, title string) (*TaskList, error)
	UpdateTaskList(ctx context.Context, taskListID, title string) (*TaskList, error)
	DeleteTaskList(ctx context.Context, taskListID string) error

	ListTasks(ctx context.Context, taskListID string, opts ListTasksOptions) (*TaskPage, error)
	GetTask(ctx context.Context, taskListID, taskID string) (*Task, error)
	InsertTask(ctx context.Context, taskListID string, task Task, at Placement) (*Task, error)
	PatchTask(ctx context.Context, taskListID, taskID string, patch TaskPatch) (*Task, error)
	DeleteTask(ctx context.Context, taskListID, taskID string) error
	ClearCompleted(ctx context.Context, taskListID string) error
	MoveTask(ctx context.Context, taskListID, taskID string, at Placement) (*Task, error)
}

func toTaskList(tl *gtasks.TaskList) TaskList {
	if tl == nil {
		return TaskList{}
	}
	return TaskList{
		ID:      tl.Id,
		Title:   tl.Title,
		Updated: tl.Updated,
	}
}

func toTask(t *gtasks.Task) Task {
	if t == nil {
		return Task{}
	}

	result := Task{
		ID:       t.Id,
		Title:    t.Title,
		Notes:    t.Notes,
		Due:      t.Due,
		Status:   t.Status,
		Parent:   t.Parent,
		Position: t.Position,
		Updated:  t.Updated,
		Hidden:   t.Hidden,
		Deleted:  t.Deleted,
		SelfLink: t.SelfLink,
		Etag:     t.Etag,
		Kind:     t.Kind,
	}
	if t.Completed != nil {
		result.Completed = *t.Completed
	}

	if len(t.Links) > 0 {
		result.Links = make([]Link, len(t.Links))
		for i, link := range t.Links {
			result.Links[i] = Link{
				Type:        link.Type,
				Description: link.Description,
				Link:        link.Link,
			}
		}
	}

	return result
}

// fromTask builds the insert body. Parent is deliberately left out.
func fromTask(t Task) *gtasks.Task {
	return &gtasks.Task{
		Title:  t.Title,
		Notes:  t.Notes,
		Due:    t.Due,
		Status: t.Status,
	}
}

func fromPatch(p TaskPatch) *gtasks.Task {
	body := &gtasks.Task{}
	if p.Title != nil {
		body.Title = *p.Title
		body.ForceSendFields = append(body.ForceSendFields, "Title")
	}
	if p.Notes != nil {
		body.Notes = *p.Notes
		body.ForceSendFields = append(body.ForceSendFields, "Notes")
	}
	if p.Due != nil {
		if *p.Due == "" {
			body.NullFields = append(body.NullFields, "Due")
		} else {
			body.Due = *p.Due
		}
	}
	if p.Status != nil {
		body.Status = *p.Status
		body.ForceSendFields = append(body.ForceSendFields, "Status")
		if *p.Status == StatusNeedsAction {
			body.NullFields = append(body.NullFields, "Completed")
		}
	}
	return body
}
