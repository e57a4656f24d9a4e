package workflow

import (
	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// CreateTaskCommand creates one task. An empty TaskListID means the default list.
type CreateTaskCommand struct {
	TaskListID string `json:"taskListId,omitempty"`
	Title      string `json:"title,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Due        string `json:"due,omitempty"`
	Status     string `json:"status,omitempty"`
	Parent     string `json:"parent,omitempty"`
	Previous   string `json:"previous,omitempty"`
}

func (c *CreateTaskCommand) Validate() error {
	if err := requireField("title", "Task title", c.Title); err != nil {
		return err
	}
	if c.Status != "" {
		return validateStatus(&c.Status)
	}
	return nil
}

func (c *CreateTaskCommand) task() tasks.Task {
	status := c.Status
	if status == "" {
		status = tasks.StatusNeedsAction
	}
	return tasks.Task{
		Title:  c.Title,
		Notes:  c.Notes,
		Due:    c.Due,
		Status: status,
	}
}

// UpdateTaskCommand patches the fields that are set.
type UpdateTaskCommand struct {
	TaskListID string  `json:"taskListId,omitempty"`
	TaskID     string  `json:"taskId,omitempty"`
	Title      *string `json:"title,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Due        *string `json:"due,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (c *UpdateTaskCommand) Validate() error {
	if err := requireField("taskId", "Task ID", c.TaskID); err != nil {
		return err
	}
	if c.Title != nil {
		if err := requireField("title", "Task title", *c.Title); err != nil {
			return err
		}
	}
	if err := validateStatus(c.Status); err != nil {
		return err
	}
	if c.patch().Empty() {
		return &ValidationError{Field: "fields", Message: "At least one field to update is required"}
	}
	return nil
}

func (c *UpdateTaskCommand) patch() tasks.TaskPatch {
	return tasks.TaskPatch{Title: c.Title, Notes: c.Notes, Due: c.Due, Status: c.Status}
}

// TaskRef addresses one task, e.g. for delete or complete.
type TaskRef struct {
	TaskListID string `json:"taskListId,omitempty"`
	TaskID     string `json:"taskId,omitempty"`
}

func (c *TaskRef) Validate() error {
	return requireField("taskId", "Task ID", c.TaskID)
}

// MoveTaskCommand relocates a task to another list by copy-then-delete.
type MoveTaskCommand struct {
	TaskID                string `json:"taskId,omitempty"`
	SourceTaskListID      string `json:"sourceTaskListId,omitempty"`
	DestinationTaskListID string `json:"destinationTaskListId,omitempty"`
}

func (c *MoveTaskCommand) Validate() error {
	if err := firstError(
		requireField("taskId", "Task ID", c.TaskID),
		requireField("sourceTaskListId", "Source task list ID", c.SourceTaskListID),
		requireField("destinationTaskListId", "Destination task list ID", c.DestinationTaskListID),
	); err != nil {
		return err
	}
	if c.SourceTaskListID == c.DestinationTaskListID {
		return &ValidationError{
			Field:   "destinationTaskListId",
			Message: "Source and destination task lists must differ",
		}
	}
	return nil
}

// CreateTaskListCommand creates a task list.
type CreateTaskListCommand struct {
	Title string `json:"title,omitempty"`
}

func (c *CreateTaskListCommand) Validate() error {
	return requireField("title", "Task list title", c.Title)
}

// UpdateTaskListCommand renames a task list.
type UpdateTaskListCommand struct {
	TaskListID string `json:"taskListId,omitempty"`
	Title      string `json:"title,omitempty"`
}

func (c *UpdateTaskListCommand) Validate() error {
	return firstError(
		requireField("taskListId", "Task list ID", c.TaskListID),
		requireField("title", "Task list title", c.Title),
	)
}

// DeleteTaskListCommand deletes a task list.
type DeleteTaskListCommand struct {
	TaskListID string `json:"taskListId,omitempty"`
}

func (c *DeleteTaskListCommand) Validate() error {
	return requireField("taskListId", "Task list ID", c.TaskListID)
}

// MakeSubtaskCommand reparents an existing task under another one in the same list.
type MakeSubtaskCommand struct {
	TaskListID   string `json:"taskListId,omitempty"`
	TaskID       string `json:"taskId,omitempty"`
	ParentTaskID string `json:"parentTaskId,omitempty"`
	Previous     string `json:"previous,omitempty"`
}

func (c *MakeSubtaskCommand) Validate() error {
	if err := firstError(
		requireField("taskId", "Task ID", c.TaskID),
		requireField("parentTaskId", "Parent task ID", c.ParentTaskID),
	); err != nil {
		return err
	}
	if c.TaskID == c.ParentTaskID {
		return &ValidationError{Field: "parentTaskId", Message: "A task cannot be its own parent"}
	}
	return nil
}

// CreateSubtaskCommand creates a new task directly under a parent.
type CreateSubtaskCommand struct {
	TaskListID   string `json:"taskListId,omitempty"`
	ParentTaskID string `json:"parentTaskId,omitempty"`
	Title        string `json:"title,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Due          string `json:"due,omitempty"`
	Previous     string `json:"previous,omitempty"`
}

func (c *CreateSubtaskCommand) Validate() error {
	return firstError(
		requireField("parentTaskId", "Parent task ID", c.ParentTaskID),
		requireField("title", "Task title", c.Title),
	)
}

// ListSubtasksCommand lists the direct children of a task.
type ListSubtasksCommand struct {
	TaskListID   string `json:"taskListId,omitempty"`
	ParentTaskID string `json:"parentTaskId,omitempty"`
}

func (c *ListSubtasksCommand) Validate() error {
	return requireField("parentTaskId", "Parent task ID", c.ParentTaskID)
}

// PrefixMapping routes titles starting with "[Prefix]" to the task list titled TaskList.
type PrefixMapping struct {
	Prefix   string `json:"prefix" yaml:"prefix"`
	TaskList string `json:"taskList" yaml:"taskList"`
}

// ReorganizeCommand moves tasks between lists according to title prefixes.
// Mappings are tried in order; the first matching prefix wins.
type ReorganizeCommand struct {
	Mappings []PrefixMapping `json:"mappings,omitempty"`
	DryRun   bool            `json:"dryRun,omitempty"`
}

func (c *ReorganizeCommand) Validate() error {
	if len(c.Mappings) == 0 {
		return &ValidationError{Field: "prefixMappings", Message: "Prefix mappings are required"}
	}
	for _, m := range c.Mappings {
		if m.Prefix == "" {
			return &ValidationError{Field: "prefixMappings", Message: "Prefix mappings must not contain an empty prefix"}
		}
		if m.TaskList == "" {
			return &ValidationError{
				Field:   "prefixMappings",
				Message: "Prefix mapping for [" + m.Prefix + "] needs a destination task list",
			}
		}
	}
	return nil
}

// ListTasksCommand lists one page of a single task list.
type ListTasksCommand struct {
	TaskListID string                 `json:"taskListId,omitempty"`
	Options    tasks.ListTasksOptions `json:"options,omitempty"`
}

func (c *ListTasksCommand) Validate() error {
	if c.Options.MaxResults < 0 || c.Options.MaxResults > tasks.MaxPageSize {
		return &ValidationError{Field: "maxResults", Message: "maxResults must be between 1 and 100"}
	}
	return nil
}

// SearchCommand filters every task by title and notes.
type SearchCommand struct {
	Query string `json:"query,omitempty"`
}

func (c *SearchCommand) Validate() error {
	return requireField("query", "Search query", c.Query)
}
