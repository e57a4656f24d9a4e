package tasks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]interface{}
}

type remoteStub struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (s *remoteStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	s.respond(w, r)
}

func (s *remoteStub) last() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newStubClient(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *remoteStub) {
	t.Helper()
	stub := &remoteStub{respond: respond}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.Client(), "test", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c, stub
}

func TestClientListTaskLists(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"items":[{"id":"l1","title":"Inbox","updated":"2025-10-31T14:00:00Z"},{"id":"l2","title":"Admin"}]}`)
	})

	lists, err := c.ListTaskLists(context.Background(), MaxPageSize)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, TaskList{ID: "l1", Title: "Inbox", Updated: "2025-10-31T14:00:00Z"}, lists[0])
	assert.Equal(t, "Admin", lists[1].Title)

	req := stub.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/users/@me/lists"), req.Path)
	assert.Equal(t, []string{"100"}, req.Query["maxResults"])
	assert.Equal(t, "test", c.Account())
}

func TestClientListTasksPassesOptions(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"items":[{"id":"t1","title":"[X] foo","parent":"p1","due":"2025-11-07T00:00:00.000Z"}],"nextPageToken":"next"}`)
	})

	show := false
	page, err := c.ListTasks(context.Background(), "l1", ListTasksOptions{
		MaxResults:    10,
		PageToken:     "tok",
		ShowCompleted: &show,
		ShowHidden:    true,
		DueMin:        "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "next", page.NextPageToken)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].Parent)
	assert.Equal(t, "2025-11-07T00:00:00.000Z", page.Items[0].Due)

	req := stub.last()
	assert.True(t, strings.HasSuffix(req.Path, "/lists/l1/tasks"), req.Path)
	assert.Equal(t, []string{"10"}, req.Query["maxResults"])
	assert.Equal(t, []string{"tok"}, req.Query["pageToken"])
	assert.Equal(t, []string{"false"}, req.Query["showCompleted"])
	assert.Equal(t, []string{"true"}, req.Query["showHidden"])
	assert.Equal(t, []string{"2025-01-01T00:00:00Z"}, req.Query["dueMin"])
	assert.NotContains(t, req.Query, "dueMax")
}

func TestClientInsertTaskSendsParentAsParameter(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"new","title":"child","parent":"p1","status":"needsAction"}`)
	})

	created, err := c.InsertTask(context.Background(), "l1", Task{
		Title:  "child",
		Parent: "ignored-in-body",
		Status: StatusNeedsAction,
	}, Placement{Parent: "p1", Previous: "sib"})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)

	req := stub.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, []string{"p1"}, req.Query["parent"])
	assert.Equal(t, []string{"sib"}, req.Query["previous"])
	assert.Equal(t, "child", req.Body["title"])
	assert.NotContains(t, req.Body, "parent")
}

func TestClientPatchTaskSendsOnlySetFields(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"t1","title":"same","notes":"","status":"needsAction"}`)
	})

	notes := ""
	status := StatusNeedsAction
	_, err := c.PatchTask(context.Background(), "l1", "t1", TaskPatch{Notes: &notes, Status: &status})
	require.NoError(t, err)

	req := stub.last()
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/lists/l1/tasks/t1"), req.Path)
	assert.Contains(t, req.Body, "notes")
	assert.Equal(t, "needsAction", req.Body["status"])
	assert.Contains(t, req.Body, "completed")
	assert.Nil(t, req.Body["completed"])
	assert.NotContains(t, req.Body, "title")
}

func TestClientMoveDeleteClear(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(r.URL.Path, "/clear"):
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, `{"id":"t1","title":"x","parent":"p1"}`)
		}
	})
	ctx := context.Background()

	moved, err := c.MoveTask(ctx, "l1", "t1", Placement{Parent: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", moved.Parent)
	req := stub.last()
	assert.True(t, strings.HasSuffix(req.Path, "/lists/l1/tasks/t1/move"), req.Path)
	assert.Equal(t, []string{"p1"}, req.Query["parent"])

	require.NoError(t, c.DeleteTask(ctx, "l1", "t1"))
	assert.Equal(t, http.MethodDelete, stub.last().Method)

	require.NoError(t, c.ClearCompleted(ctx, "l1"))
	assert.True(t, strings.HasSuffix(stub.last().Path, "/lists/l1/clear"))
}

func TestClientTaskListMutations(t *testing.T) {
	c, stub := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"l9","title":"Renamed"}`)
	})
	ctx := context.Background()

	created, err := c.InsertTaskList(ctx, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "l9", created.ID)
	assert.Equal(t, "Renamed", stub.last().Body["title"])

	updated, err := c.UpdateTaskList(ctx, "l9", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, http.MethodPut, stub.last().Method)

	got, err := c.GetTaskList(ctx, "l9")
	require.NoError(t, err)
	assert.Equal(t, "l9", got.ID)

	require.NoError(t, c.DeleteTaskList(ctx, "l9"))
}

func TestClientNotFound(t *testing.T) {
	c, _ := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"code":404,"message":"Not Found"}}`)
	})

	_, err := c.GetTask(context.Background(), "l1", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to get task")
	assert.False(t, IsNotFound(assert.AnError))
}

func TestToTask(t *testing.T) {
	assert.Equal(t, Task{}, toTask(nil))
	assert.Equal(t, TaskList{}, toTaskList(nil))

	completed := "2025-10-31T10:00:00Z"
	got := toTask(&gtasks.Task{
		Id:        "t1",
		Title:     "Complete project",
		Notes:     "notes",
		Status:    StatusCompleted,
		Due:       "2025-11-07T09:00:00Z",
		Completed: &completed,
		Parent:    "p",
		Position:  "00000000000000000001",
		Hidden:    true,
		Etag:      `"etag"`,
		Kind:      "tasks#task",
		Links: []*gtasks.TaskLinks{
			{Type: "email", Description: "Related email", Link: "https://mail.google.com/x"},
		},
	})

	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, completed, got.Completed)
	assert.Equal(t, "2025-11-07T09:00:00Z", got.Due)
	assert.True(t, got.Hidden)
	assert.Equal(t, "tasks#task", got.Kind)
	require.Len(t, got.Links, 1)
	assert.Equal(t, "email", got.Links[0].Type)
}

func TestFromPatch(t *testing.T) {
	empty := ""
	title := "New"
	status := StatusCompleted

	body := fromPatch(TaskPatch{Title: &title, Due: &empty, Status: &status})
	assert.Equal(t, "New", body.Title)
	assert.ElementsMatch(t, []string{"Title", "Status"}, body.ForceSendFields)
	assert.Equal(t, []string{"Due"}, body.NullFields)

	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Title: &title}.Empty())
}
