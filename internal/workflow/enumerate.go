package workflow

import (
	"context"

	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// SkippedList is a task list whose tasks could not be fetched.
type SkippedList struct {
	TaskListID string
	Err        error
}

// Enumeration is a flat view over every task list.
type Enumeration struct {
	Lists   []tasks.TaskList
	Tasks   []tasks.Task
	Skipped []SkippedList
}

// Enumerate fetches all task lists and the first page of tasks in each,
// attaching the owning list's id and title to every task. A list whose
// tasks cannot be fetched is logged and skipped; only a failure to list
// the task lists themselves is returned as an error. Remote ordering is
// preserved.
func (s *Service) Enumerate(ctx context.Context) (*Enumeration, error) {
	lists, err := s.api.ListTaskLists(ctx, tasks.MaxPageSize)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "list task lists")
	}

	result := &Enumeration{Lists: lists}
	for _, list := range lists {
		page, err := s.api.ListTasks(ctx, list.ID, tasks.ListTasksOptions{MaxResults: tasks.MaxPageSize})
		if err != nil {
			s.logger.Warn("skipping task list during enumeration",
				logging.TaskList(list.ID),
				logging.Err(err))
			result.Skipped = append(result.Skipped, SkippedList{TaskListID: list.ID, Err: err})
			continue
		}
		for _, t := range page.Items {
			t.TaskListID = list.ID
			t.TaskListTitle = list.Title
			result.Tasks = append(result.Tasks, t)
		}
	}

	return result, nil
}
