package tasks_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tools/batch"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

// batchHandler decodes the array parameter into commands and runs them with
// a workflow batch method expression such as (*workflow.Service).BatchCreateTasks.
// Per-element failures, including elements that do not decode, end up in the
// report, not in an error result.
func batchHandler[C any](param, action string, run func(*workflow.Service, context.Context, []C) (*workflow.BatchReport, error)) serviceHandler {
	return func(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		elems, err := batch.ParseObjectArray[C](request.GetArguments()[param], param)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		report := &workflow.BatchReport{
			Operation: "batch " + action,
			Results:   []workflow.BatchResult{},
			Errors:    []workflow.BatchError{},
		}
		if len(elems.Items) > 0 {
			report, err = run(svc, ctx, elems.Items)
			if err != nil {
				return toolError(action, err), nil
			}
		}
		return reportResult(elems.Merge(report)), nil
	}
}

var (
	propTaskListID = stringProp("Task list ID (default: '@default')")
	propTaskID     = stringProp("Task ID")
	propTitle      = stringProp("Title")
	propNotes      = stringProp("Notes")
	propDue        = stringProp("Due date (RFC3339)")
	propStatus     = stringProp("'needsAction' or 'completed'")
)

func registerBatchTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	addTool(s, sc, mcp.NewTool("tasks_batch_create_tasks",
		mcp.WithDescription("Create several tasks. Each element is processed independently; failures are listed without stopping the batch."),
		accountOption(),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Tasks to create"),
			objectItems(map[string]any{
				"taskListId": propTaskListID,
				"title":      propTitle,
				"notes":      propNotes,
				"due":        propDue,
				"status":     propStatus,
				"parent":     stringProp("Parent task ID"),
				"previous":   stringProp("Previous sibling task ID"),
			}, "title"),
		),
	), batchHandler("tasks", "create tasks", (*workflow.Service).BatchCreateTasks))

	addTool(s, sc, mcp.NewTool("tasks_batch_update_tasks",
		mcp.WithDescription("Update several tasks. Only the fields given per element are changed."),
		accountOption(),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Task updates"),
			objectItems(map[string]any{
				"taskListId": propTaskListID,
				"taskId":     propTaskID,
				"title":      propTitle,
				"notes":      propNotes,
				"due":        propDue,
				"status":     propStatus,
			}, "taskId"),
		),
	), batchHandler("tasks", "update tasks", (*workflow.Service).BatchUpdateTasks))

	addTool(s, sc, mcp.NewTool("tasks_batch_delete_tasks",
		mcp.WithDescription("Delete several tasks, possibly from different task lists"),
		accountOption(),
		mcp.WithArray("tasks",
			mcp.Required(),
			mcp.Description("Tasks to delete"),
			objectItems(map[string]any{
				"taskListId": propTaskListID,
				"taskId":     propTaskID,
			}, "taskId"),
		),
	), batchHandler("tasks", "delete tasks", (*workflow.Service).BatchDeleteTasks))

	addTool(s, sc, mcp.NewTool("tasks_batch_move_tasks",
		mcp.WithDescription("Move several tasks between task lists (copy then delete). Moves whose copy succeeded but whose original could not be deleted are reported as warnings."),
		accountOption(),
		mcp.WithArray("moves",
			mcp.Required(),
			mcp.Description("Moves to perform"),
			objectItems(map[string]any{
				"taskId":                propTaskID,
				"sourceTaskListId":      stringProp("Task list that holds the task"),
				"destinationTaskListId": stringProp("Task list to move the task to"),
			}, "taskId", "sourceTaskListId", "destinationTaskListId"),
		),
	), batchHandler("moves", "move tasks", (*workflow.Service).BatchMoveTasks))

	addTool(s, sc, mcp.NewTool("tasks_batch_create_task_lists",
		mcp.WithDescription("Create several task lists"),
		accountOption(),
		mcp.WithArray("taskLists",
			mcp.Required(),
			mcp.Description("Task lists to create"),
			objectItems(map[string]any{"title": propTitle}, "title"),
		),
	), batchHandler("taskLists", "create task lists", (*workflow.Service).BatchCreateTaskLists))

	addTool(s, sc, mcp.NewTool("tasks_batch_update_task_lists",
		mcp.WithDescription("Rename several task lists"),
		accountOption(),
		mcp.WithArray("taskLists",
			mcp.Required(),
			mcp.Description("Task list renames"),
			objectItems(map[string]any{
				"taskListId": stringProp("Task list ID"),
				"title":      propTitle,
			}, "taskListId", "title"),
		),
	), batchHandler("taskLists", "update task lists", (*workflow.Service).BatchUpdateTaskLists))

	addTool(s, sc, mcp.NewTool("tasks_batch_delete_task_lists",
		mcp.WithDescription("Delete several task lists and their tasks"),
		accountOption(),
		mcp.WithArray("taskLists",
			mcp.Required(),
			mcp.Description("Task lists to delete"),
			objectItems(map[string]any{"taskListId": stringProp("Task list ID")}, "taskListId"),
		),
	), batchHandler("taskLists", "delete task lists", (*workflow.Service).BatchDeleteTaskLists))
}
