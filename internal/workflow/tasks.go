package workflow

import (
	"context"
	"strings"

	"github.com/gobwas/glob"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// ListPageSize is the per-list page size of ListPage.
const ListPageSize int64 = 10

// ListTaskLists returns up to 100 task lists.
func (s *Service) ListTaskLists(ctx context.Context) ([]tasks.TaskList, error) {
	lists, err := s.api.ListTaskLists(ctx, tasks.MaxPageSize)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "list task lists")
	}
	return lists, nil
}

// GetTaskList fetches one task list.
func (s *Service) GetTaskList(ctx context.Context, taskListID string) (*tasks.TaskList, error) {
	tl, err := s.api.GetTaskList(ctx, orDefault(taskListID))
	if err != nil {
		return nil, opError(ErrNotFound, err, "task list %s", orDefault(taskListID))
	}
	return tl, nil
}

// CreateTaskList creates a task list.
func (s *Service) CreateTaskList(ctx context.Context, cmd CreateTaskListCommand) (*tasks.TaskList, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	tl, err := s.api.InsertTaskList(ctx, cmd.Title)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "create task list %q", cmd.Title)
	}
	if tl == nil || tl.ID == "" {
		return nil, opError(ErrCreateFailed, nil, "create task list %q returned no id", cmd.Title)
	}
	return tl, nil
}

// UpdateTaskList renames a task list.
func (s *Service) UpdateTaskList(ctx context.Context, cmd UpdateTaskListCommand) (*tasks.TaskList, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	tl, err := s.api.UpdateTaskList(ctx, cmd.TaskListID, cmd.Title)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "update task list %s", cmd.TaskListID)
	}
	return tl, nil
}

// DeleteTaskList deletes a task list and every task in it.
func (s *Service) DeleteTaskList(ctx context.Context, cmd DeleteTaskListCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := s.api.DeleteTaskList(ctx, cmd.TaskListID); err != nil {
		return opError(ErrRemoteCall, err, "delete task list %s", cmd.TaskListID)
	}
	return nil
}

// ListTasks returns one page of a single list.
func (s *Service) ListTasks(ctx context.Context, cmd ListTasksCommand) (*tasks.TaskPage, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	listID := orDefault(cmd.TaskListID)
	opts := cmd.Options
	if opts.MaxResults == 0 {
		opts.MaxResults = tasks.MaxPageSize
	}
	page, err := s.api.ListTasks(ctx, listID, opts)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "list tasks in %s", listID)
	}
	for i := range page.Items {
		page.Items[i].TaskListID = listID
	}
	return page, nil
}

// GetTask fetches one task.
func (s *Service) GetTask(ctx context.Context, ref TaskRef) (*tasks.Task, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	listID := orDefault(ref.TaskListID)
	t, err := s.api.GetTask(ctx, listID, ref.TaskID)
	if err != nil {
		return nil, opError(ErrNotFound, err, "task %s in list %s", ref.TaskID, listID)
	}
	t.TaskListID = listID
	return t, nil
}

// CreateTask creates a task, optionally under a parent.
func (s *Service) CreateTask(ctx context.Context, cmd CreateTaskCommand) (*tasks.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.createTask(ctx, cmd)
}

func (s *Service) createTask(ctx context.Context, cmd CreateTaskCommand) (*tasks.Task, error) {
	listID := orDefault(cmd.TaskListID)
	created, err := s.api.InsertTask(ctx, listID, cmd.task(), tasks.Placement{
		Parent:   cmd.Parent,
		Previous: cmd.Previous,
	})
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "create task %q", cmd.Title)
	}
	if created == nil || created.ID == "" {
		return nil, opError(ErrCreateFailed, nil, "create task %q returned no id", cmd.Title)
	}
	created.TaskListID = listID
	return created, nil
}

// UpdateTask patches the fields set in cmd.
func (s *Service) UpdateTask(ctx context.Context, cmd UpdateTaskCommand) (*tasks.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.updateTask(ctx, cmd)
}

func (s *Service) updateTask(ctx context.Context, cmd UpdateTaskCommand) (*tasks.Task, error) {
	listID := orDefault(cmd.TaskListID)
	updated, err := s.api.PatchTask(ctx, listID, cmd.TaskID, cmd.patch())
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "update task %s", cmd.TaskID)
	}
	updated.TaskListID = listID
	return updated, nil
}

// DeleteTask deletes one task.
func (s *Service) DeleteTask(ctx context.Context, ref TaskRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if err := s.api.DeleteTask(ctx, orDefault(ref.TaskListID), ref.TaskID); err != nil {
		return opError(ErrRemoteCall, err, "delete task %s", ref.TaskID)
	}
	return nil
}

// CompleteTask marks one task completed.
func (s *Service) CompleteTask(ctx context.Context, ref TaskRef) (*tasks.Task, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return s.completeTask(ctx, ref)
}

func (s *Service) completeTask(ctx context.Context, ref TaskRef) (*tasks.Task, error) {
	status := tasks.StatusCompleted
	return s.updateTask(ctx, UpdateTaskCommand{
		TaskListID: ref.TaskListID,
		TaskID:     ref.TaskID,
		Status:     &status,
	})
}

// ClearCompleted hides every completed task in a list.
func (s *Service) ClearCompleted(ctx context.Context, taskListID string) error {
	listID := orDefault(taskListID)
	if err := s.api.ClearCompleted(ctx, listID); err != nil {
		return opError(ErrRemoteCall, err, "clear completed tasks in %s", listID)
	}
	return nil
}

// Search returns every enumerated task whose title or notes contain the
// query, ignoring case. A query containing * or ? is matched as a glob
// against the title and the notes instead.
func (s *Service) Search(ctx context.Context, cmd SearchCommand) ([]tasks.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	match, err := queryMatcher(cmd.Query)
	if err != nil {
		return nil, err
	}

	enum, err := s.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	found := []tasks.Task{}
	for _, t := range enum.Tasks {
		if match(strings.ToLower(t.Title)) || match(strings.ToLower(t.Notes)) {
			found = append(found, t)
		}
	}
	return found, nil
}

// globLiterals escapes the glob syntax other than * and ?, so a query such
// as "[admin]*" matches the bracketed prefix literally.
var globLiterals = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`)

func queryMatcher(query string) (func(string) bool, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if !strings.ContainsAny(q, "*?") {
		return func(s string) bool { return strings.Contains(s, q) }, nil
	}
	g, err := glob.Compile(globLiterals.Replace(q))
	if err != nil {
		return nil, &ValidationError{Field: "query", Message: "Invalid search pattern: " + err.Error()}
	}
	return g.Match, nil
}

// Page is one pass of ListPage.
type Page struct {
	Items      []tasks.Task `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// ListPage fetches one page of up to ListPageSize tasks from every list,
// passing the same cursor to each. NextCursor is the last non-empty page
// token seen, or empty when every list is exhausted.
func (s *Service) ListPage(ctx context.Context, cursor string) (*Page, error) {
	lists, err := s.api.ListTaskLists(ctx, tasks.MaxPageSize)
	if err != nil {
		return nil, opError(ErrRemoteCall, err, "list task lists")
	}

	page := &Page{Items: []tasks.Task{}}
	for _, list := range lists {
		res, err := s.api.ListTasks(ctx, list.ID, tasks.ListTasksOptions{
			MaxResults: ListPageSize,
			PageToken:  cursor,
		})
		if err != nil {
			return nil, opError(ErrRemoteCall, err, "list tasks in %s", list.ID)
		}
		for _, t := range res.Items {
			t.TaskListID = list.ID
			t.TaskListTitle = list.Title
			page.Items = append(page.Items, t)
		}
		if res.NextPageToken != "" {
			page.NextCursor = res.NextPageToken
		}
	}
	return page, nil
}

// FindTask looks a task up by id across every list. The first match in
// enumeration order is returned.
func (s *Service) FindTask(ctx context.Context, taskID string) (*tasks.Task, error) {
	if err := requireField("taskId", "Task ID", taskID); err != nil {
		return nil, err
	}
	enum, err := s.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range enum.Tasks {
		if t.ID == taskID {
			return &t, nil
		}
	}
	return nil, opError(ErrNotFound, nil, "task %s", taskID)
}
