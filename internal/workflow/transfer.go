package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// TransferResult describes a completed or partially completed move.
type TransferResult struct {
	Title                 string
	OriginalTaskID        string
	NewTaskID             string
	SourceTaskListID      string
	DestinationTaskListID string

	// Partial is set when the copy was created but the original could not
	// be deleted. Both copies then exist and DeleteErr holds the cause.
	Partial   bool
	DeleteErr error
}

// String renders the outcome for humans. Partial transfers name both ids.
func (r *TransferResult) String() string {
	if r.Partial {
		return fmt.Sprintf("Task %q copied to list %s as %s, but the original %s could not be removed from list %s: %v",
			r.Title, r.DestinationTaskListID, r.NewTaskID, r.OriginalTaskID, r.SourceTaskListID, r.DeleteErr)
	}
	return fmt.Sprintf("Task %q moved from list %s to list %s (new id %s)",
		r.Title, r.SourceTaskListID, r.DestinationTaskListID, r.NewTaskID)
}

// MoveTask validates cmd and transfers the task.
func (s *Service) MoveTask(ctx context.Context, cmd MoveTaskCommand) (*TransferResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.Transfer(ctx, cmd.SourceTaskListID, cmd.DestinationTaskListID, cmd.TaskID)
}

// Transfer moves a task to another list. The remote API cannot move
// top-level tasks across lists, so this fetches the task, inserts a copy
// at the top level of the destination and deletes the original. The copy
// gets a new id. A failed delete is not compensated: the result is marked
// Partial and no error is returned.
func (s *Service) Transfer(ctx context.Context, sourceListID, destListID, taskID string) (*TransferResult, error) {
	logger := s.logger.With(logging.Operation("tasks.transfer"), logging.Task(taskID))

	original, err := s.api.GetTask(ctx, sourceListID, taskID)
	if err != nil {
		s.recordTransfer(ctx, TransferFailed)
		return nil, opError(ErrNotFound, err, "task %s in list %s", taskID, sourceListID)
	}
	if original.Title == "" {
		s.recordTransfer(ctx, TransferFailed)
		return nil, opError(ErrNotFound, nil, "task %s in list %s has no title", taskID, sourceListID)
	}

	status := original.Status
	if status == "" {
		status = tasks.StatusNeedsAction
	}
	created, err := s.api.InsertTask(ctx, destListID, tasks.Task{
		Title:  original.Title,
		Notes:  original.Notes,
		Due:    original.Due,
		Status: status,
	}, tasks.Placement{})
	if err != nil {
		s.recordTransfer(ctx, TransferFailed)
		return nil, opError(ErrRemoteCall, err, "create copy of task %s in list %s", taskID, destListID)
	}
	if created == nil || created.ID == "" {
		s.recordTransfer(ctx, TransferFailed)
		return nil, opError(ErrCreateFailed, nil, "create copy of task %s in list %s returned no id", taskID, destListID)
	}

	result := &TransferResult{
		Title:                 original.Title,
		OriginalTaskID:        taskID,
		NewTaskID:             created.ID,
		SourceTaskListID:      sourceListID,
		DestinationTaskListID: destListID,
	}

	if err := s.api.DeleteTask(ctx, sourceListID, taskID); err != nil {
		logger.Warn("task copied but original not deleted",
			logging.TaskList(sourceListID),
			slog.String("new_task_id", created.ID),
			logging.Err(err))
		result.Partial = true
		result.DeleteErr = err
		s.recordTransfer(ctx, TransferPartial)
		return result, nil
	}

	logger.Debug("task transferred", logging.TaskList(destListID), slog.String("new_task_id", created.ID))
	s.recordTransfer(ctx, TransferSuccess)
	return result, nil
}
