package tasks_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tasks"
	"github.com/teemow/gtasks-mcp/internal/tools/batch"
	"github.com/teemow/gtasks-mcp/internal/tools/common"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

func registerTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	addTool(s, sc, mcp.NewTool("tasks_list",
		mcp.WithDescription("List tasks across all task lists, 10 per list per page. Pass the returned nextCursor to continue."),
		accountOption(),
		mcp.WithString("cursor",
			mcp.Description("Continuation cursor from a previous call"),
		),
	), handleList)

	addTool(s, sc, mcp.NewTool("tasks_list_tasks",
		mcp.WithDescription("List tasks in a single task list"),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithBoolean("showCompleted",
			mcp.Description("Include completed tasks (default: true)"),
		),
		mcp.WithBoolean("showHidden",
			mcp.Description("Include hidden tasks, e.g. cleared completed ones (default: false)"),
		),
		mcp.WithString("dueMin",
			mcp.Description("Lower bound for the due date (RFC3339)"),
		),
		mcp.WithString("dueMax",
			mcp.Description("Upper bound for the due date (RFC3339)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of tasks to return (1-100, default: 100)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token from a previous call"),
		),
	), handleListTasks)

	addTool(s, sc, mcp.NewTool("tasks_get_tasks",
		mcp.WithDescription("Get one or more tasks by ID"),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to retrieve"),
		),
	), handleGetTasks)

	addTool(s, sc, mcp.NewTool("tasks_search",
		mcp.WithDescription("Search tasks in all task lists by title and notes (case-insensitive). Use * and ? for glob patterns."),
		accountOption(),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for, or a glob pattern such as '[ADMIN]*'"),
		),
	), handleSearch)

	if readOnly {
		return
	}

	addTool(s, sc, mcp.NewTool("tasks_create_task",
		mcp.WithDescription("Create a new task"),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("notes",
			mcp.Description("Notes or description for the task"),
		),
		mcp.WithString("due",
			mcp.Description("Due date (RFC3339 format)"),
		),
		mcp.WithString("status",
			mcp.Description("Status: 'needsAction' (default) or 'completed'"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent task ID to create this task as a subtask"),
		),
		mcp.WithString("previous",
			mcp.Description("Previous sibling task ID for positioning"),
		),
	), handleCreateTask)

	addTool(s, sc, mcp.NewTool("tasks_update_task",
		mcp.WithDescription("Update an existing task. Only the fields that are passed are changed; pass an empty due to clear it."),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title for the task"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes or description for the task"),
		),
		mcp.WithString("status",
			mcp.Description("New status: 'needsAction' or 'completed'"),
		),
		mcp.WithString("due",
			mcp.Description("New due date for the task (RFC3339 format)"),
		),
	), handleUpdateTask)

	addTool(s, sc, mcp.NewTool("tasks_delete_task",
		mcp.WithDescription("Delete a task"),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	), handleDeleteTask)

	addTool(s, sc, mcp.NewTool("tasks_complete_tasks",
		mcp.WithDescription("Mark one or more tasks as completed"),
		accountOption(),
		taskListOption("The ID of the task list"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to complete"),
		),
	), handleCompleteTasks)

	addTool(s, sc, mcp.NewTool("tasks_clear_completed",
		mcp.WithDescription("Hide all completed tasks in a task list"),
		accountOption(),
		taskListOption("The ID of the task list"),
	), handleClearCompleted)

	addTool(s, sc, mcp.NewTool("tasks_move_task",
		mcp.WithDescription("Move a task to another task list. The task is copied to the destination and then deleted from the source, so it gets a new ID."),
		accountOption(),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to move"),
		),
		mcp.WithString("sourceTaskListId",
			mcp.Required(),
			mcp.Description("The task list that currently holds the task"),
		),
		mcp.WithString("destinationTaskListId",
			mcp.Required(),
			mcp.Description("The task list to move the task to"),
		),
	), handleMoveTask)
}

func handleList(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := svc.ListPage(ctx, request.GetString("cursor", ""))
	if err != nil {
		return toolError("list tasks", err), nil
	}
	return common.JSONResult("", page), nil
}

func handleListTasks(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	cmd := workflow.ListTasksCommand{
		TaskListID: request.GetString("taskListId", ""),
		Options: tasks.ListTasksOptions{
			MaxResults: int64(request.GetInt("maxResults", 0)),
			PageToken:  request.GetString("pageToken", ""),
			ShowHidden: request.GetBool("showHidden", false),
			DueMin:     request.GetString("dueMin", ""),
			DueMax:     request.GetString("dueMax", ""),
		},
	}
	if _, ok := args["showCompleted"]; ok {
		show := request.GetBool("showCompleted", true)
		cmd.Options.ShowCompleted = &show
	}

	page, err := svc.ListTasks(ctx, cmd)
	if err != nil {
		return toolError("list tasks", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d task(s):", len(page.Items)), page), nil
}

func handleGetTasks(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskListID := request.GetString("taskListId", "")
	taskIDs, err := batch.ParseStringOrArray(request.GetArguments()["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(taskIDs) == 1 {
		task, err := svc.GetTask(ctx, workflow.TaskRef{TaskListID: taskListID, TaskID: taskIDs[0]})
		if err != nil {
			return toolError("get task", err), nil
		}
		return common.JSONResult("", task), nil
	}

	report, err := svc.BatchGetTasks(ctx, taskRefs(taskListID, taskIDs))
	if err != nil {
		return toolError("get tasks", err), nil
	}
	return reportResult(report), nil
}

func handleSearch(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.SearchCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	found, err := svc.Search(ctx, cmd)
	if err != nil {
		return toolError("search tasks", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d matching task(s):", len(found)), found), nil
}

func handleCreateTask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.CreateTaskCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.CreateTask(ctx, cmd)
	if err != nil {
		return toolError("create task", err), nil
	}
	return common.JSONResult("Task created successfully:", task), nil
}

func handleUpdateTask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.UpdateTaskCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.UpdateTask(ctx, cmd)
	if err != nil {
		return toolError("update task", err), nil
	}
	return common.JSONResult("Task updated successfully:", task), nil
}

func handleDeleteTask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var ref workflow.TaskRef
	if err := common.DecodeArgs(request, &ref); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := svc.DeleteTask(ctx, ref); err != nil {
		return toolError("delete task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted successfully", ref.TaskID)), nil
}

func handleCompleteTasks(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskListID := request.GetString("taskListId", "")
	taskIDs, err := batch.ParseStringOrArray(request.GetArguments()["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(taskIDs) == 1 {
		task, err := svc.CompleteTask(ctx, workflow.TaskRef{TaskListID: taskListID, TaskID: taskIDs[0]})
		if err != nil {
			return toolError("complete task", err), nil
		}
		return common.JSONResult("Task completed successfully:", task), nil
	}

	report, err := svc.BatchCompleteTasks(ctx, taskRefs(taskListID, taskIDs))
	if err != nil {
		return toolError("complete tasks", err), nil
	}
	return reportResult(report), nil
}

func handleClearCompleted(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskListID := request.GetString("taskListId", "")
	if err := svc.ClearCompleted(ctx, taskListID); err != nil {
		return toolError("clear completed tasks", err), nil
	}
	if taskListID == "" {
		taskListID = tasks.DefaultTaskListID
	}
	return mcp.NewToolResultText(fmt.Sprintf("Completed tasks cleared from task list %s", taskListID)), nil
}

func handleMoveTask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.MoveTaskCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := svc.MoveTask(ctx, cmd)
	if err != nil {
		return toolError("move task", err), nil
	}
	// A partial transfer is still reported as success: the copy exists.
	return mcp.NewToolResultText(result.String()), nil
}

func taskRefs(taskListID string, taskIDs []string) []workflow.TaskRef {
	refs := make([]workflow.TaskRef, len(taskIDs))
	for i, id := range taskIDs {
		refs[i] = workflow.TaskRef{TaskListID: taskListID, TaskID: id}
	}
	return refs
}
