package workflow

import (
	"context"
	"fmt"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// Subtasks is the result of ListSubtasks.
type Subtasks struct {
	Parent   tasks.Task   `json:"parent"`
	Children []tasks.Task `json:"children"`
}

// MakeSubtask moves an existing task under a parent in the same list.
// Both tasks are fetched first; the reparent call is only issued when both exist.
func (s *Service) MakeSubtask(ctx context.Context, cmd MakeSubtaskCommand) (*tasks.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	listID := orDefault(cmd.TaskListID)

	if _, err := s.api.GetTask(ctx, listID, cmd.TaskID); err != nil {
		return nil, opError(ErrVerificationFailed, err, "task %s in list %s", cmd.TaskID, listID)
	}
	if _, err := s.api.GetTask(ctx, listID, cmd.ParentTaskID); err != nil {
		return nil, opError(ErrVerificationFailed, err, "parent task %s in list %s", cmd.ParentTaskID, listID)
	}

	moved, err := s.api.MoveTask(ctx, listID, cmd.TaskID, tasks.Placement{
		Parent:   cmd.ParentTaskID,
		Previous: cmd.Previous,
	})
	if err != nil {
		return nil, opError(ErrReparentFailed, err, "move task %s under %s", cmd.TaskID, cmd.ParentTaskID)
	}
	moved.TaskListID = listID
	return moved, nil
}

// CreateSubtask verifies the parent exists and creates a child under it.
func (s *Service) CreateSubtask(ctx context.Context, cmd CreateSubtaskCommand) (*tasks.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.createSubtask(ctx, cmd)
}

func (s *Service) createSubtask(ctx context.Context, cmd CreateSubtaskCommand) (*tasks.Task, error) {
	listID := orDefault(cmd.TaskListID)
	if _, err := s.api.GetTask(ctx, listID, cmd.ParentTaskID); err != nil {
		return nil, opError(ErrNotFound, err, "parent task %s in list %s", cmd.ParentTaskID, listID)
	}
	return s.createTask(ctx, CreateTaskCommand{
		TaskListID: listID,
		Title:      cmd.Title,
		Notes:      cmd.Notes,
		Due:        cmd.Due,
		Parent:     cmd.ParentTaskID,
		Previous:   cmd.Previous,
	})
}

// ListSubtasks returns the direct children of a task. The remote listing
// has no parent filter, so every page of the list is fetched and filtered
// locally.
func (s *Service) ListSubtasks(ctx context.Context, cmd ListSubtasksCommand) (*Subtasks, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	listID := orDefault(cmd.TaskListID)

	var all []tasks.Task
	token := ""
	for {
		page, err := s.api.ListTasks(ctx, listID, tasks.ListTasksOptions{
			MaxResults: tasks.MaxPageSize,
			PageToken:  token,
		})
		if err != nil {
			return nil, opError(ErrRemoteCall, err, "list tasks in %s", listID)
		}
		all = append(all, page.Items...)
		if page.NextPageToken == "" || page.NextPageToken == token {
			break
		}
		token = page.NextPageToken
	}

	parent, err := s.api.GetTask(ctx, listID, cmd.ParentTaskID)
	if err != nil {
		return nil, opError(ErrNotFound, err, "parent task %s in list %s", cmd.ParentTaskID, listID)
	}
	parent.TaskListID = listID

	result := &Subtasks{Parent: *parent, Children: []tasks.Task{}}
	for _, t := range all {
		if t.Parent == cmd.ParentTaskID {
			t.TaskListID = listID
			result.Children = append(result.Children, t)
		}
	}
	return result, nil
}

// BatchCreateSubtasks creates each child independently.
func (s *Service) BatchCreateSubtasks(ctx context.Context, cmds []CreateSubtaskCommand) (*BatchReport, error) {
	return runBatch(ctx, s, "batch create subtasks", "subtasks", cmds,
		func(c *CreateSubtaskCommand) error { return c.Validate() },
		func(ctx context.Context, c *CreateSubtaskCommand) (BatchResult, error) {
			created, err := s.createSubtask(ctx, *c)
			if err != nil {
				return BatchResult{}, err
			}
			res := taskResult(created, "created subtask %q (%s)")
			res.Message += fmt.Sprintf(" under %s", c.ParentTaskID)
			return res, nil
		})
}
