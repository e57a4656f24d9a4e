package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithHelpers(t *testing.T) {
	logger := slog.Default()
	assert.NotNil(t, WithOperation(logger, "tasks.move"))
	assert.NotNil(t, WithTool(logger, "tasks_move_task"))
	assert.NotNil(t, WithAccount(logger, "work"))
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"operation", Operation("list"), KeyOperation, "list"},
		{"service", Service("tasks"), KeyService, "tasks"},
		{"account", Account("work"), KeyAccount, "work"},
		{"tool", Tool("tasks_search"), KeyTool, "tasks_search"},
		{"status", Status(StatusPartial), KeyStatus, "partial"},
		{"task list", TaskList("@default"), KeyTaskList, "@default"},
		{"task", Task("t1"), KeyTask, "t1"},
		{"count", Count(3), KeyCount, "3"},
		{"dry run", DryRun(true), KeyDryRun, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.String())
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	empty := Err(nil)
	assert.Equal(t, "", empty.Key)
	assert.Equal(t, slog.KindGroup, empty.Value.Kind())
}

func TestAnonymizeEmail(t *testing.T) {
	assert.Equal(t, "", AnonymizeEmail(""))

	a := AnonymizeEmail("user@example.com")
	b := AnonymizeEmail("user@example.com")
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "example.com")
	assert.Len(t, a, len("user:")+16)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewHandlerWritesPlainText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("visible", TaskList("abc"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "task_list_id=abc")
	assert.NotContains(t, out, "\x1b[")
}
