package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tasks"
	"github.com/teemow/gtasks-mcp/internal/tasks/taskstest"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

func newServerContext(t *testing.T, fake *taskstest.Fake) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.StaticClientFactory(fake))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestRegisterTaskResources(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "test", mcpserver.WithResourceCapabilities(false, false))
	assert.NoError(t, RegisterTaskResources(s, newServerContext(t, taskstest.New())))
	assert.Error(t, RegisterTaskResources(nil, nil))
}

func TestHandleTask(t *testing.T) {
	fake := taskstest.New()
	fake.AddList("inbox", "Inbox")
	fake.AddList("work", "Work")
	task := fake.AddTask("work", tasks.Task{Title: "Write report"})
	sc := newServerContext(t, fake)

	contents, err := handleTask(context.Background(), readRequest(TaskURIPrefix+task.ID), sc)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var got tasks.Task
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "work", got.TaskListID)
	assert.Zero(t, fake.Mutations())
}

func TestHandleTask_NotFound(t *testing.T) {
	fake := taskstest.New()
	fake.AddList("inbox", "Inbox")

	_, err := handleTask(context.Background(), readRequest(TaskURIPrefix+"missing"), newServerContext(t, fake))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task missing not found")
}

func TestHandleTaskPage_FollowsCursor(t *testing.T) {
	fake := taskstest.New()
	fake.AddList("inbox", "Inbox")
	for i := 0; i < 12; i++ {
		fake.AddTask("inbox", tasks.Task{Title: "task"})
	}
	sc := newServerContext(t, fake)

	first := readPage(t, sc, TasksURI, "")
	assert.Len(t, first.Items, 10)
	require.NotEmpty(t, first.NextCursor)

	second := readPage(t, sc, TasksPageURIPrefix+first.NextCursor, first.NextCursor)
	assert.Len(t, second.Items, 2)
	assert.Empty(t, second.NextCursor)
}

func readPage(t *testing.T, sc *server.ServerContext, uri, cursor string) workflow.Page {
	t.Helper()
	contents, err := handleTaskPage(context.Background(), readRequest(uri), sc, cursor)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	var page workflow.Page
	require.NoError(t, json.Unmarshal([]byte(contents[0].(*mcp.TextResourceContents).Text), &page))
	return page
}
