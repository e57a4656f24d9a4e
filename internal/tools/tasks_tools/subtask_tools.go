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

func registerSubtaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	addTool(s, sc, mcp.NewTool("tasks_list_subtasks",
		mcp.WithDescription("List the direct subtasks of a task"),
		accountOption(),
		taskListOption("Task list that holds the parent"),
		mcp.WithString("parentTaskId",
			mcp.Required(),
			mcp.Description("ID of the parent task"),
		),
	), handleListSubtasks)

	if readOnly {
		return
	}

	addTool(s, sc, mcp.NewTool("tasks_make_subtask",
		mcp.WithDescription("Make an existing task a subtask of another task in the same list"),
		accountOption(),
		taskListOption("Task list that holds both tasks"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("ID of the task to nest"),
		),
		mcp.WithString("parentTaskId",
			mcp.Required(),
			mcp.Description("ID of the new parent task"),
		),
		mcp.WithString("previous",
			mcp.Description("ID of the sibling to place the task after"),
		),
	), handleMakeSubtask)

	addTool(s, sc, mcp.NewTool("tasks_create_subtask",
		mcp.WithDescription("Create a new task under an existing parent task"),
		accountOption(),
		taskListOption("Task list that holds the parent"),
		mcp.WithString("parentTaskId",
			mcp.Required(),
			mcp.Description("ID of the parent task"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the subtask"),
		),
		mcp.WithString("notes",
			mcp.Description("Notes of the subtask"),
		),
		mcp.WithString("due",
			mcp.Description("Due date (RFC3339)"),
		),
		mcp.WithString("previous",
			mcp.Description("ID of the sibling to place the subtask after"),
		),
	), handleCreateSubtask)

	addTool(s, sc, mcp.NewTool("tasks_batch_create_subtasks",
		mcp.WithDescription("Create several subtasks. Each element names its own parent."),
		accountOption(),
		mcp.WithArray("subtasks",
			mcp.Required(),
			mcp.Description("Subtasks to create"),
			objectItems(map[string]any{
				"taskListId":   propTaskListID,
				"parentTaskId": stringProp("ID of the parent task"),
				"title":        propTitle,
				"notes":        propNotes,
				"due":          propDue,
				"previous":     stringProp("Previous sibling task ID"),
			}, "parentTaskId", "title"),
		),
	), batchHandler("subtasks", "create subtasks", (*workflow.Service).BatchCreateSubtasks))
}

func handleListSubtasks(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.ListSubtasksCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subtasks, err := svc.ListSubtasks(ctx, cmd)
	if err != nil {
		return toolError("list subtasks", err), nil
	}
	return common.JSONResult(
		fmt.Sprintf("%d subtask(s) of %q:", len(subtasks.Children), subtasks.Parent.Title),
		subtasks,
	), nil
}

func handleMakeSubtask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.MakeSubtaskCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.MakeSubtask(ctx, cmd)
	if err != nil {
		return toolError("make subtask", err), nil
	}
	return common.JSONResult(
		fmt.Sprintf("Task %s is now a subtask of %s:", task.ID, cmd.ParentTaskID),
		task,
	), nil
}

func handleCreateSubtask(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cmd workflow.CreateSubtaskCommand
	if err := common.DecodeArgs(request, &cmd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, err := svc.CreateSubtask(ctx, cmd)
	if err != nil {
		return toolError("create subtask", err), nil
	}
	return common.JSONResult(
		fmt.Sprintf("Subtask created under %s:", cmd.ParentTaskID),
		task,
	), nil
}
