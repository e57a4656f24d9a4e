package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gtasks-mcp/internal/tasks"
	"github.com/teemow/gtasks-mcp/internal/tasks/taskstest"
)

func TestReorganizeMovesPrefixedTask(t *testing.T) {
	f := taskstest.New()
	f.AddList("A", "A")
	f.AddList("B", "B")
	f.AddTask("A", tasks.Task{ID: "foo", Title: "[X] foo"})

	report, err := newTestService(f).Reorganize(context.Background(), ReorganizeCommand{
		Mappings: []PrefixMapping{{Prefix: "X", TaskList: "B"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, f.Tasks("A"))

	moved := f.Tasks("B")
	require.Len(t, moved, 1)
	assert.Equal(t, "[X] foo", moved[0].Title)
	assert.NotEqual(t, "foo", moved[0].ID)

	_, err = f.GetTask(context.Background(), "A", "foo")
	assert.True(t, tasks.IsNotFound(err))
	assert.Contains(t, report.String(), "1 succeeded, 0 failed")
}

func TestReorganizeDryRunIssuesNoMutations(t *testing.T) {
	f := taskstest.New()
	f.AddList("a", "Inbox")
	f.AddList("b", "Admin")
	f.AddTask("a", tasks.Task{ID: "1", Title: "[ADMIN] Renew passport"})
	f.AddTask("a", tasks.Task{ID: "2", Title: "Buy milk"})

	report, err := newTestService(f).Reorganize(context.Background(), ReorganizeCommand{
		Mappings: []PrefixMapping{{Prefix: "ADMIN", TaskList: "Admin"}},
		DryRun:   true,
	})
	require.NoError(t, err)

	require.Len(t, report.Planned, 1)
	assert.Equal(t, "1", report.Planned[0].Task.ID)
	assert.Equal(t, "b", report.Planned[0].DestinationTaskListID)
	assert.Equal(t, 0, f.Mutations())
	assert.Len(t, f.Tasks("a"), 2)
	assert.Contains(t, report.String(), "Dry run: 1 task(s) would be moved")
}

func TestReorganizeLiveIssuesOneInsertAndDeletePerPlan(t *testing.T) {
	f := taskstest.New()
	f.AddList("a", "Inbox")
	f.AddList("b", "Admin")
	f.AddList("c", "Home")
	f.AddTask("a", tasks.Task{ID: "1", Title: "[ADMIN] one"})
	f.AddTask("a", tasks.Task{ID: "2", Title: "[HOME] two"})
	f.AddTask("a", tasks.Task{ID: "3", Title: "plain"})
	f.AddTask("b", tasks.Task{ID: "4", Title: "[ADMIN] already there"})

	report, err := newTestService(f).Reorganize(context.Background(), ReorganizeCommand{
		Mappings: []PrefixMapping{
			{Prefix: "ADMIN", TaskList: "Admin"},
			{Prefix: "HOME", TaskList: "Home"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, report.Planned, 2)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 2, f.CallCount(taskstest.OpInsertTask))
	assert.Equal(t, 2, f.CallCount(taskstest.OpDeleteTask))
	assert.Equal(t, 4, f.Mutations())
}

func TestReorganizeContinuesAfterFailure(t *testing.T) {
	f := taskstest.New()
	f.AddList("a", "Inbox")
	f.AddList("b", "Admin")
	f.AddTask("a", tasks.Task{ID: "1", Title: "[ADMIN] one"})
	f.AddTask("a", tasks.Task{ID: "2", Title: "[ADMIN] two"})
	f.AddTask("a", tasks.Task{ID: "3", Title: "[ADMIN] three"})
	f.FailOn(taskstest.OpGetTask, "a/1", errors.New("gone"))
	f.FailOn(taskstest.OpDeleteTask, "a/3", errors.New("forbidden"))

	report, err := newTestService(f).Reorganize(context.Background(), ReorganizeCommand{
		Mappings: []PrefixMapping{{Prefix: "ADMIN", TaskList: "Admin"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "1", report.Failures[0].Plan.Task.ID)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "could not be removed")
	assert.Contains(t, report.String(), "2 succeeded, 1 failed")
}

func TestReorganizeRequiresMappings(t *testing.T) {
	f := taskstest.New()
	_, err := newTestService(f).Reorganize(context.Background(), ReorganizeCommand{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.Calls())
}

func TestPlanMoves(t *testing.T) {
	lists := []tasks.TaskList{
		{ID: "inbox", Title: "Inbox"},
		{ID: "admin", Title: "Admin Tasks"},
		{ID: "admin-exact", Title: "admin tasks"},
	}
	task := func(id, title string) tasks.Task {
		return tasks.Task{ID: id, Title: title, TaskListID: "inbox", TaskListTitle: "Inbox"}
	}

	t.Run("no prefix, no plan", func(t *testing.T) {
		plans, warnings := PlanMoves(lists, []tasks.Task{task("1", "Buy milk")},
			[]PrefixMapping{{Prefix: "ADMIN", TaskList: "Admin Tasks"}})
		assert.Empty(t, plans)
		assert.Empty(t, warnings)
	})

	t.Run("prefix is case sensitive and anchored", func(t *testing.T) {
		plans, _ := PlanMoves(lists, []tasks.Task{
			task("1", "[admin] lower"),
			task("2", "Re: [ADMIN] not at start"),
			task("3", "ADMIN no brackets"),
		}, []PrefixMapping{{Prefix: "ADMIN", TaskList: "Admin Tasks"}})
		assert.Empty(t, plans)
	})

	t.Run("normalized fallback", func(t *testing.T) {
		plans, warnings := PlanMoves(lists, []tasks.Task{task("1", "[ADMIN] Renew passport")},
			[]PrefixMapping{{Prefix: "ADMIN", TaskList: "  ADMIN TASKS "}})
		require.Len(t, plans, 1)
		assert.Empty(t, warnings)
		assert.Equal(t, "admin", plans[0].DestinationTaskListID)
		assert.Equal(t, "Admin Tasks", plans[0].DestinationTitle)
	})

	t.Run("exact match wins over normalized", func(t *testing.T) {
		plans, _ := PlanMoves(lists, []tasks.Task{task("1", "[ADMIN] x")},
			[]PrefixMapping{{Prefix: "ADMIN", TaskList: "admin tasks"}})
		require.Len(t, plans, 1)
		assert.Equal(t, "admin-exact", plans[0].DestinationTaskListID)
	})

	t.Run("first mapping wins", func(t *testing.T) {
		plans, _ := PlanMoves(lists, []tasks.Task{task("1", "[AD] x")}, []PrefixMapping{
			{Prefix: "AD", TaskList: "Admin Tasks"},
			{Prefix: "AD", TaskList: "Inbox"},
		})
		require.Len(t, plans, 1)
		assert.Equal(t, "admin", plans[0].DestinationTaskListID)
		assert.Equal(t, "AD", plans[0].Prefix)
	})

	t.Run("unresolved destination stops at first matching prefix", func(t *testing.T) {
		plans, warnings := PlanMoves(lists, []tasks.Task{task("1", "[AD] x")}, []PrefixMapping{
			{Prefix: "AD", TaskList: "Missing"},
			{Prefix: "AD", TaskList: "Admin Tasks"},
		})
		assert.Empty(t, plans)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `"Missing"`)
	})

	t.Run("already in destination", func(t *testing.T) {
		plans, warnings := PlanMoves(lists, []tasks.Task{task("1", "[IN] x")},
			[]PrefixMapping{{Prefix: "IN", TaskList: "Inbox"}})
		assert.Empty(t, plans)
		assert.Empty(t, warnings)
	})

	t.Run("incomplete tasks are ignored", func(t *testing.T) {
		noList := task("2", "[ADMIN] y")
		noList.TaskListID = ""
		plans, _ := PlanMoves(lists, []tasks.Task{task("", "[ADMIN] x"), noList},
			[]PrefixMapping{{Prefix: "ADMIN", TaskList: "Admin Tasks"}})
		assert.Empty(t, plans)
	})
}

func TestParsePrefixMappingsYAML(t *testing.T) {
	t.Run("ordered mapping", func(t *testing.T) {
		got, err := ParsePrefixMappingsYAML([]byte("WORK: Work\nADMIN: Admin Tasks\nHOME: Home\n"))
		require.NoError(t, err)
		assert.Equal(t, []PrefixMapping{
			{Prefix: "WORK", TaskList: "Work"},
			{Prefix: "ADMIN", TaskList: "Admin Tasks"},
			{Prefix: "HOME", TaskList: "Home"},
		}, got)
	})

	t.Run("sequence", func(t *testing.T) {
		got, err := ParsePrefixMappingsYAML([]byte("- prefix: B\n  taskList: Second\n- prefix: A\n  taskList: First\n"))
		require.NoError(t, err)
		assert.Equal(t, []PrefixMapping{
			{Prefix: "B", TaskList: "Second"},
			{Prefix: "A", TaskList: "First"},
		}, got)
	})

	t.Run("non string destination", func(t *testing.T) {
		_, err := ParsePrefixMappingsYAML([]byte("X:\n  nested: true\n"))
		assert.Error(t, err)
	})
}
