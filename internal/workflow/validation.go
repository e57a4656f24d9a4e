package workflow

import (
	"strings"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// requireField returns a ValidationError when value is blank.
func requireField(field, label, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: label + " is required"}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateStatus(status *string) error {
	if status == nil {
		return nil
	}
	switch *status {
	case tasks.StatusNeedsAction, tasks.StatusCompleted:
		return nil
	}
	return &ValidationError{
		Field:   "status",
		Message: "Task status must be " + tasks.StatusNeedsAction + " or " + tasks.StatusCompleted,
	}
}

// orDefault substitutes the default task list for an empty id.
func orDefault(taskListID string) string {
	if strings.TrimSpace(taskListID) == "" {
		return tasks.DefaultTaskListID
	}
	return taskListID
}
