package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"
)

// Client wraps the Google Tasks service
type Client struct {
	svc     *gtasks.Service
	account string // The account this client is associated with
}

var _ API = (*Client)(nil)

// NewClient creates a Tasks client that issues requests through httpClient.
// Extra options (for example option.WithEndpoint in tests) are appended.
func NewClient(ctx context.Context, httpClient *http.Client, account string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gtasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// IsNotFound reports whether err carries a 404 from the remote API.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// ListTaskLists lists the user's task lists, at most maxResults of them.
func (c *Client) ListTaskLists(ctx context.Context, maxResults int64) ([]TaskList, error) {
	call := c.svc.Tasklists.List().Context(ctx)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	taskLists := make([]TaskList, 0, len(result.Items))
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}

	return taskLists, nil
}

// GetTaskList retrieves a specific task list by ID
func (c *Client) GetTaskList(ctx context.Context, taskListID string) (*TaskList, error) {
	tl, err := c.svc.Tasklists.Get(taskListID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task list: %w", err)
	}

	result := toTaskList(tl)
	return &result, nil
}

// InsertTaskList creates a new task list
func (c *Client) InsertTaskList(ctx context.Context, title string) (*TaskList, error) {
	created, err := c.svc.Tasklists.Insert(&gtasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}

	result := toTaskList(created)
	return &result, nil
}

// UpdateTaskList renames a task list.
func (c *Client) UpdateTaskList(ctx context.Context, taskListID, title string) (*TaskList, error) {
	body := &gtasks.TaskList{Id: taskListID, Title: title}
	updated, err := c.svc.Tasklists.Update(taskListID, body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task list: %w", err)
	}

	result := toTaskList(updated)
	return &result, nil
}

// DeleteTaskList deletes a task list
func (c *Client) DeleteTaskList(ctx context.Context, taskListID string) error {
	if err := c.svc.Tasklists.Delete(taskListID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete task list: %w", err)
	}
	return nil
}

// ListTasks returns one page of tasks from a task list.
func (c *Client) ListTasks(ctx context.Context, taskListID string, opts ListTasksOptions) (*TaskPage, error) {
	call := c.svc.Tasks.List(taskListID).Context(ctx)

	if opts.MaxResults > 0 {
		call = call.MaxResults(opts.MaxResults)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}
	if opts.ShowCompleted != nil {
		call = call.ShowCompleted(*opts.ShowCompleted)
	}
	if opts.ShowHidden {
		call = call.ShowHidden(true)
	}
	if opts.DueMin != "" {
		call = call.DueMin(opts.DueMin)
	}
	if opts.DueMax != "" {
		call = call.DueMax(opts.DueMax)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	page := &TaskPage{
		Items:         make([]Task, 0, len(result.Items)),
		NextPageToken: result.NextPageToken,
	}
	for _, t := range result.Items {
		page.Items = append(page.Items, toTask(t))
	}

	return page, nil
}

// GetTask retrieves a specific task by ID
func (c *Client) GetTask(ctx context.Context, taskListID, taskID string) (*Task, error) {
	t, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	result := toTask(t)
	return &result, nil
}

// InsertTask creates a task. The parent and previous sibling travel as call
// parameters, never inside the body.
func (c *Client) InsertTask(ctx context.Context, taskListID string, task Task, at Placement) (*Task, error) {
	call := c.svc.Tasks.Insert(taskListID, fromTask(task)).Context(ctx)

	if at.Parent != "" {
		call = call.Parent(at.Parent)
	}
	if at.Previous != "" {
		call = call.Previous(at.Previous)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil
}

// PatchTask sends only the fields set in patch.
func (c *Client) PatchTask(ctx context.Context, taskListID, taskID string, patch TaskPatch) (*Task, error) {
	updated, err := c.svc.Tasks.Patch(taskListID, taskID, fromPatch(patch)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	result := toTask(updated)
	return &result, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string) error {
	if err := c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ClearCompleted hides all completed tasks in a task list.
func (c *Client) ClearCompleted(ctx context.Context, taskListID string) error {
	if err := c.svc.Tasks.Clear(taskListID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return nil
}

// MoveTask repositions a task within its list, optionally under a new parent.
func (c *Client) MoveTask(ctx context.Context, taskListID, taskID string, at Placement) (*Task, error) {
	call := c.svc.Tasks.Move(taskListID, taskID).Context(ctx)

	if at.Parent != "" {
		call = call.Parent(at.Parent)
	}
	if at.Previous != "" {
		call = call.Previous(at.Previous)
	}

	moved, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	result := toTask(moved)
	return &result, nil
}
