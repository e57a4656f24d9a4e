package tasks_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tools/common"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

func registerTaskListTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	addTool(s, sc, mcp.NewTool("tasks_list_task_lists",
		mcp.WithDescription("List all task lists for the authenticated user (up to 100)"),
		accountOption(),
	), handleListTaskLists)

	addTool(s, sc, mcp.NewTool("tasks_get_task_list",
		mcp.WithDescription("Get details of a specific task list"),
		accountOption(),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list to retrieve"),
		),
	), handleGetTaskList)

	if readOnly {
		return
	}

	addTool(s, sc, mcp.NewTool("tasks_create_task_list",
		mcp.WithDescription("Create a new task list"),
		accountOption(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new task list"),
		),
	), handleCreateTaskList)

	addTool(s, sc, mcp.NewTool("tasks_update_task_list",
		mcp.WithDescription("Rename a task list"),
		accountOption(),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list to update"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The new title for the task list"),
		),
	), handleUpdateTaskList)

	addTool(s, sc, mcp.NewTool("tasks_delete_task_list",
		mcp.WithDescription("Delete a task list and all tasks in it"),
		accountOption(),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list to delete"),
		),
	), handleDeleteTaskList)
}

func handleListTaskLists(ctx context.Context, svc *workflow.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lists, err := svc.ListTaskLists(ctx)
	if err != nil {
		return toolError("list task lists", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d task list(s):", len(lists)), lists), nil
}

func handleGetTaskList(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskListID := request.GetString("taskListId", "")
	if taskListID == "" {
		return mcp.NewToolResultError("Task list ID is required"), nil
	}
	list, err := svc.GetTaskList(ctx, taskListID)
	if err != nil {
		return toolError("get task list", err), nil
	}
	return common.JSONResult("", list), nil
}

func handleCreateTaskList(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.CreateTaskListCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := svc.CreateTaskList(ctx, cmd)
	if err != nil {
		return toolError("create task list", err), nil
	}
	return common.JSONResult("Task list created successfully:", list), nil
}

func handleUpdateTaskList(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.UpdateTaskListCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := svc.UpdateTaskList(ctx, cmd)
	if err != nil {
		return toolError("update task list", err), nil
	}
	return common.JSONResult("Task list updated successfully:", list), nil
}

func handleDeleteTaskList(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.DeleteTaskListCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := svc.DeleteTaskList(ctx, cmd); err != nil {
		return toolError("delete task list", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task list %s deleted successfully", cmd.TaskListID)), nil
}
