package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

const (
	// TaskURIPrefix is followed by a task id.
	TaskURIPrefix = "gtasks:///"
	// TasksURI lists the first page of tasks across all task lists.
	TasksURI = "gtasks://tasks"
	// TasksPageURIPrefix is followed by a cursor returned in nextCursor.
	TasksPageURIPrefix = "gtasks://tasks/page/"

	mimeJSON = "application/json"
)

// RegisterTaskResources registers the task resources. They always read the
// default account, since resource reads carry no arguments.
func RegisterTaskResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return errors.New("MCP server and server context are required")
	}

	s.AddResource(mcp.NewResource(
		TasksURI,
		"Tasks",
		mcp.WithResourceDescription("First page of tasks across all task lists (10 per list). Follow nextCursor with "+TasksPageURIPrefix+"{cursor}."),
		mcp.WithMIMEType(mimeJSON),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTaskPage(ctx, request, sc, "")
	})

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		TasksPageURIPrefix+"{cursor}",
		"Tasks page",
		mcp.WithTemplateDescription("A later page of tasks across all task lists"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cursor := strings.TrimPrefix(request.Params.URI, TasksPageURIPrefix)
		return handleTaskPage(ctx, request, sc, cursor)
	})

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		TaskURIPrefix+"{taskId}",
		"Task",
		mcp.WithTemplateDescription("A single task, looked up by id across all task lists"),
		mcp.WithTemplateMIMEType(mimeJSON),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTask(ctx, request, sc)
	})

	return nil
}

func handleTaskPage(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext, cursor string) ([]mcp.ResourceContents, error) {
	svc, err := sc.WorkflowForAccount(server.DefaultAccount)
	if err != nil {
		return nil, err
	}
	page, err := svc.ListPage(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return jsonContents(request.Params.URI, page)
}

func handleTask(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	taskID := strings.TrimPrefix(request.Params.URI, TaskURIPrefix)

	svc, err := sc.WorkflowForAccount(server.DefaultAccount)
	if err != nil {
		return nil, err
	}
	task, err := svc.FindTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return nil, fmt.Errorf("task %s not found", taskID)
		}
		return nil, fmt.Errorf("failed to read task %s: %w", taskID, err)
	}
	return jsonContents(request.Params.URI, task)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}
