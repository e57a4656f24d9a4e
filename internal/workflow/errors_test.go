package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/gtasks-mcp/internal/tasks/taskstest"
)

func TestValidationErrorIs(t *testing.T) {
	err := error(&ValidationError{Field: "title", Message: "Task title is required"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Task title is required", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)
}

func TestOperationErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("503 backend error")
	err := opError(ErrRemoteCall, cause, "delete task %s", "t1")

	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "delete task t1: 503 backend error", err.Error())

	assert.NotErrorIs(t, err, ErrNotFound)

	missing := opError(ErrRemoteCall, taskstest.NotFound("task"), "delete task %s", "t1")
	assert.ErrorIs(t, missing, ErrRemoteCall)
	assert.ErrorIs(t, missing, ErrNotFound)

	bare := opError(ErrCreateFailed, nil, "create returned no id")
	assert.ErrorIs(t, bare, ErrCreateFailed)
	assert.Equal(t, "create returned no id", bare.Error())
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     interface{ Validate() error }
		wantMsg string
	}{
		{"create without title", &CreateTaskCommand{}, "Task title is required"},
		{"create with bad status", &CreateTaskCommand{Title: "x", Status: "done"}, "Task status must be needsAction or completed"},
		{"create ok", &CreateTaskCommand{Title: "x"}, ""},
		{"update without id", &UpdateTaskCommand{Title: strPtr("x")}, "Task ID is required"},
		{"update without fields", &UpdateTaskCommand{TaskID: "t1"}, "At least one field to update is required"},
		{"update with blank title", &UpdateTaskCommand{TaskID: "t1", Title: strPtr(" ")}, "Task title is required"},
		{"update notes only", &UpdateTaskCommand{TaskID: "t1", Notes: strPtr("")}, ""},
		{"task ref", &TaskRef{}, "Task ID is required"},
		{"move same list", &MoveTaskCommand{TaskID: "t", SourceTaskListID: "a", DestinationTaskListID: "a"}, "Source and destination task lists must differ"},
		{"move without source", &MoveTaskCommand{TaskID: "t", DestinationTaskListID: "a"}, "Source task list ID is required"},
		{"subtask of itself", &MakeSubtaskCommand{TaskID: "t", ParentTaskID: "t"}, "A task cannot be its own parent"},
		{"create subtask without parent", &CreateSubtaskCommand{Title: "x"}, "Parent task ID is required"},
		{"list subtasks", &ListSubtasksCommand{}, "Parent task ID is required"},
		{"empty mappings", &ReorganizeCommand{}, "Prefix mappings are required"},
		{"mapping without list", &ReorganizeCommand{Mappings: []PrefixMapping{{Prefix: "X"}}}, "Prefix mapping for [X] needs a destination task list"},
		{"task list title", &CreateTaskListCommand{Title: "  "}, "Task list title is required"},
		{"rename without id", &UpdateTaskListCommand{Title: "x"}, "Task list ID is required"},
		{"search", &SearchCommand{}, "Search query is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}
