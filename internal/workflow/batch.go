package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// BatchResult is a succeeded element.
type BatchResult struct {
	Index      int             `json:"index"`
	ID         string          `json:"id,omitempty"`
	TaskListID string          `json:"taskListId,omitempty"`
	Title      string          `json:"title,omitempty"`
	Message    string          `json:"message"`
	Task       *tasks.Task     `json:"task,omitempty"`
	TaskList   *tasks.TaskList `json:"taskList,omitempty"`
}

// BatchError is a failed element. Input is the element as received.
type BatchError struct {
	Index int    `json:"index"`
	Input any    `json:"input"`
	Error string `json:"error"`
}

// BatchWarning is an element that completed with a caveat, such as a move
// that left the original behind.
type BatchWarning struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// BatchReport partitions the elements of a batch. Every input element
// appears in exactly one of Results, Errors or Warnings.
type BatchReport struct {
	Operation string         `json:"operation"`
	Results   []BatchResult  `json:"results"`
	Errors    []BatchError   `json:"errors"`
	Warnings  []BatchWarning `json:"warnings,omitempty"`
}

// Total returns the number of processed elements.
func (r *BatchReport) Total() int {
	return len(r.Results) + len(r.Errors) + len(r.Warnings)
}

// Summary returns the "N succeeded, M failed" line.
func (r *BatchReport) Summary() string {
	s := fmt.Sprintf("%s: %d succeeded, %d failed", r.Operation, len(r.Results), len(r.Errors))
	if len(r.Warnings) > 0 {
		s += fmt.Sprintf(", %d with warnings", len(r.Warnings))
	}
	return s
}

// String renders the summary followed by one line per element.
func (r *BatchReport) String() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	for _, res := range r.Results {
		fmt.Fprintf(&b, "\n[%d] ok: %s", res.Index, res.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\n[%d] warning: %s", w.Index, w.Message)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "\n[%d] error: %s", e.Index, e.Error)
	}
	return b.String()
}

// errWarning carries a partially successful element out of a batch step.
type errWarning struct {
	warning BatchWarning
}

func (e *errWarning) Error() string { return e.warning.Message }

// runBatch applies step to every element in order. A validation failure
// records an error without calling step. Failures never stop the loop.
func runBatch[C any](
	ctx context.Context,
	s *Service,
	operation, field string,
	elements []C,
	validate func(*C) error,
	step func(context.Context, *C) (BatchResult, error),
) (*BatchReport, error) {
	if len(elements) == 0 {
		return nil, &ValidationError{Field: field, Message: field + " must contain at least one element"}
	}

	report := &BatchReport{
		Operation: operation,
		Results:   []BatchResult{},
		Errors:    []BatchError{},
	}
	for i := range elements {
		el := &elements[i]
		if err := validate(el); err != nil {
			report.Errors = append(report.Errors, BatchError{Index: i, Input: *el, Error: err.Error()})
			continue
		}

		res, err := step(ctx, el)
		var w *errWarning
		switch {
		case errors.As(err, &w):
			w.warning.Index = i
			report.Warnings = append(report.Warnings, w.warning)
		case err != nil:
			report.Errors = append(report.Errors, BatchError{Index: i, Input: *el, Error: err.Error()})
		default:
			res.Index = i
			report.Results = append(report.Results, res)
		}
	}

	s.logger.Info("batch finished",
		logging.Operation(operation),
		logging.Count(len(elements)),
		slog.Int("succeeded", len(report.Results)),
		slog.Int("failed", len(report.Errors)),
		slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

// BatchCreateTasks creates each task independently.
func (s *Service) BatchCreateTasks(ctx context.Context, cmds []CreateTaskCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch create tasks", "tasks", cmds,
		func(c *CreateTaskCommand) error { return c.Validate() },
		func(ctx context.Context, c *CreateTaskCommand) (BatchResult, error) {
			created, err := s.createTask(ctx, *c)
			if err != nil {
				return BatchResult{}, err
			}
			return taskResult(created, "created task %q (%s)"), nil
		})
}

// BatchUpdateTasks patches each task independently.
func (s *Service) BatchUpdateTasks(ctx context.Context, cmds []UpdateTaskCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch update tasks", "tasks", cmds,
		func(c *UpdateTaskCommand) error { return c.Validate() },
		func(ctx context.Context, c *UpdateTaskCommand) (BatchResult, error) {
			updated, err := s.updateTask(ctx, *c)
			if err != nil {
				return BatchResult{}, err
			}
			return taskResult(updated, "updated task %q (%s)"), nil
		})
}

// BatchDeleteTasks deletes each task independently.
func (s *Service) BatchDeleteTasks(ctx context.Context, refs []TaskRef) (*BatchReport, error) {
	return runBatch(ctx, s, "batch delete tasks", "tasks", refs,
		func(r *TaskRef) error { return r.Validate() },
		func(ctx context.Context, r *TaskRef) (BatchResult, error) {
			listID := orDefault(r.TaskListID)
			if err := s.api.DeleteTask(ctx, listID, r.TaskID); err != nil {
				return BatchResult{}, opError(ErrRemoteCall, err, "delete task %s", r.TaskID)
			}
			return BatchResult{
				ID:         r.TaskID,
				TaskListID: listID,
				Message:    fmt.Sprintf("deleted task %s", r.TaskID),
			}, nil
		})
}

// BatchCompleteTasks marks each task completed independently.
func (s *Service) BatchCompleteTasks(ctx context.Context, refs []TaskRef) (*BatchReport, error) {
	return runBatch(ctx, s, "batch complete tasks", "tasks", refs,
		func(r *TaskRef) error { return r.Validate() },
		func(ctx context.Context, r *TaskRef) (BatchResult, error) {
			done, err := s.completeTask(ctx, *r)
			if err != nil {
				return BatchResult{}, err
			}
			return taskResult(done, "completed task %q (%s)"), nil
		})
}

// BatchGetTasks fetches each task independently.
func (s *Service) BatchGetTasks(ctx context.Context, refs []TaskRef) (*BatchReport, error) {
	return runBatch(ctx, s, "get tasks", "tasks", refs,
		func(r *TaskRef) error { return r.Validate() },
		func(ctx context.Context, r *TaskRef) (BatchResult, error) {
			t, err := s.GetTask(ctx, *r)
			if err != nil {
				return BatchResult{}, err
			}
			return taskResult(t, "task %q (%s)"), nil
		})
}

// BatchMoveTasks transfers each task independently. A transfer that left
// the original behind is reported as a warning, not a result.
func (s *Service) BatchMoveTasks(ctx context.Context, cmds []MoveTaskCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch move tasks", "moves", cmds,
		func(c *MoveTaskCommand) error { return c.Validate() },
		func(ctx context.Context, c *MoveTaskCommand) (BatchResult, error) {
			res, err := s.Transfer(ctx, c.SourceTaskListID, c.DestinationTaskListID, c.TaskID)
			if err != nil {
				return BatchResult{}, err
			}
			if res.Partial {
				return BatchResult{}, &errWarning{warning: BatchWarning{
					ID:      res.NewTaskID,
					Title:   res.Title,
					Message: res.String(),
				}}
			}
			return BatchResult{
				ID:         res.NewTaskID,
				TaskListID: res.DestinationTaskListID,
				Title:      res.Title,
				Message:    res.String(),
			}, nil
		})
}

// BatchCreateTaskLists creates each task list independently.
func (s *Service) BatchCreateTaskLists(ctx context.Context, cmds []CreateTaskListCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch create task lists", "taskLists", cmds,
		func(c *CreateTaskListCommand) error { return c.Validate() },
		func(ctx context.Context, c *CreateTaskListCommand) (BatchResult, error) {
			tl, err := s.CreateTaskList(ctx, *c)
			if err != nil {
				return BatchResult{}, err
			}
			return taskListResult(tl, "created task list %q (%s)"), nil
		})
}

// BatchUpdateTaskLists renames each task list independently.
func (s *Service) BatchUpdateTaskLists(ctx context.Context, cmds []UpdateTaskListCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch update task lists", "taskLists", cmds,
		func(c *UpdateTaskListCommand) error { return c.Validate() },
		func(ctx context.Context, c *UpdateTaskListCommand) (BatchResult, error) {
			tl, err := s.UpdateTaskList(ctx, *c)
			if err != nil {
				return BatchResult{}, err
			}
			return taskListResult(tl, "renamed task list to %q (%s)"), nil
		})
}

// BatchDeleteTaskLists deletes each task list independently.
func (s *Service) BatchDeleteTaskLists(ctx context.Context, cmds []DeleteTaskListCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch delete task lists", "taskLists", cmds,
		func(c *DeleteTaskListCommand) error { return c.Validate() },
		func(ctx context.Context, c *DeleteTaskListCommand) (BatchResult, error) {
			if err := s.DeleteTaskList(ctx, *c); err != nil {
				return BatchResult{}, err
			}
			return BatchResult{
				ID:         c.TaskListID,
				TaskListID: c.TaskListID,
				Message:    fmt.Sprintf("deleted task list %s", c.TaskListID),
			}, nil
		})
}

func taskResult(t *tasks.Task, format string) BatchResult {
	return BatchResult{
		ID:         t.ID,
		TaskListID: t.TaskListID,
		Title:      t.Title,
		Message:    fmt.Sprintf(format, t.Title, t.ID),
		Task:       t,
	}
}

func taskListResult(tl *tasks.TaskList, format string) BatchResult {
	return BatchResult{
		ID:       tl.ID,
		Title:    tl.Title,
		Message:  fmt.Sprintf(format, tl.Title, tl.ID),
		TaskList: tl,
	}
}
