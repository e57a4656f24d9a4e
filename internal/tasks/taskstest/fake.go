// Package taskstest provides an in-memory tasks.API for tests.
package taskstest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"google.golang.org/api/googleapi"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// Operation names recorded in Calls and used for error injection.
const (
	OpListTaskLists  = "ListTaskLists"
	OpGetTaskList    = "GetTaskList"
	OpInsertTaskList = "InsertTaskList"
	OpUpdateTaskList = "UpdateTaskList"
	OpDeleteTaskList = "DeleteTaskList"
	OpListTasks      = "ListTasks"
	OpGetTask        = "GetTask"
	OpInsertTask     = "InsertTask"
	OpPatchTask      = "PatchTask"
	OpDeleteTask     = "DeleteTask"
	OpClearCompleted = "ClearCompleted"
	OpMoveTask       = "MoveTask"
)

var mutatingOps = map[string]bool{
	OpInsertTaskList: true,
	OpUpdateTaskList: true,
	OpDeleteTaskList: true,
	OpInsertTask:     true,
	OpPatchTask:      true,
	OpDeleteTask:     true,
	OpClearCompleted: true,
	OpMoveTask:       true,
}

// Call is one recorded remote call.
type Call struct {
	Op         string
	TaskListID string
	TaskID     string
	Placement  tasks.Placement
}

// Fake is an in-memory implementation of tasks.API.
type Fake struct {
	mu     sync.Mutex
	lists  []tasks.TaskList
	items  map[string][]tasks.Task
	nextID int
	calls  []Call
	errs   map[string]error

	// BlankInsertIDs makes InsertTask succeed without assigning an id.
	BlankInsertIDs bool
}

var _ tasks.API = (*Fake)(nil)

// New creates an empty fake.
func New() *Fake {
	return &Fake{
		items: make(map[string][]tasks.Task),
		errs:  make(map[string]error),
	}
}

// NotFound builds the error the remote API returns for a missing entity.
func NotFound(what string) error {
	return &googleapi.Error{Code: http.StatusNotFound, Message: what + " not found"}
}

// AddList adds a task list and returns it.
func (f *Fake) AddList(id, title string) tasks.TaskList {
	f.mu.Lock()
	defer f.mu.Unlock()
	tl := tasks.TaskList{ID: id, Title: title, Updated: "2025-01-01T00:00:00.000Z"}
	f.lists = append(f.lists, tl)
	if _, ok := f.items[id]; !ok {
		f.items[id] = nil
	}
	return tl
}

// AddTask appends a task to a list. An empty ID is generated.
func (f *Fake) AddTask(listID string, t tasks.Task) tasks.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = f.newID("task")
	}
	if t.Status == "" {
		t.Status = tasks.StatusNeedsAction
	}
	f.items[listID] = append(f.items[listID], t)
	return t
}

// FailOn injects err for op. key narrows the failure to one task list id or
// to "listID/taskID"; an empty key fails every call of op.
func (f *Fake) FailOn(op, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op+"|"+key] = err
}

// Tasks returns a copy of the tasks currently held by a list.
func (f *Fake) Tasks(listID string) []tasks.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tasks.Task, len(f.items[f.resolve(listID)]))
	copy(out, f.items[f.resolve(listID)])
	return out
}

// Lists returns a copy of the task lists.
func (f *Fake) Lists() []tasks.TaskList {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tasks.TaskList, len(f.lists))
	copy(out, f.lists)
	return out
}

// Calls returns every recorded call in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how often op was called.
func (f *Fake) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Mutations returns the number of calls that change remote state.
func (f *Fake) Mutations() int {
	n := 0
	for _, c := range f.Calls() {
		if mutatingOps[c.Op] {
			n++
		}
	}
	return n
}

func (f *Fake) newID(prefix string) string {
	f.nextID++
	return prefix + "-" + strconv.Itoa(f.nextID)
}

func (f *Fake) resolve(listID string) string {
	if listID == tasks.DefaultTaskListID && len(f.lists) > 0 {
		return f.lists[0].ID
	}
	return listID
}

// record logs the call and returns any injected error. Callers hold f.mu.
func (f *Fake) record(op, listID, taskID string, at tasks.Placement) error {
	f.calls = append(f.calls, Call{Op: op, TaskListID: listID, TaskID: taskID, Placement: at})
	for _, key := range []string{op + "|" + listID + "/" + taskID, op + "|" + listID, op + "|"} {
		if err, ok := f.errs[key]; ok {
			return err
		}
	}
	return nil
}

func (f *Fake) listIndex(listID string) int {
	for i, l := range f.lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

func (f *Fake) taskIndex(listID, taskID string) int {
	for i, t := range f.items[listID] {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// ListTaskLists implements tasks.API.
func (f *Fake) ListTaskLists(_ context.Context, maxResults int64) ([]tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpListTaskLists, "", "", tasks.Placement{}); err != nil {
		return nil, err
	}
	n := len(f.lists)
	if maxResults > 0 && int64(n) > maxResults {
		n = int(maxResults)
	}
	out := make([]tasks.TaskList, n)
	copy(out, f.lists[:n])
	return out, nil
}

// GetTaskList implements tasks.API.
func (f *Fake) GetTaskList(_ context.Context, taskListID string) (*tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpGetTaskList, id, "", tasks.Placement{}); err != nil {
		return nil, err
	}
	i := f.listIndex(id)
	if i < 0 {
		return nil, NotFound("task list")
	}
	tl := f.lists[i]
	return &tl, nil
}

// InsertTaskList implements tasks.API.
func (f *Fake) InsertTaskList(_ context.Context, title string) (*tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpInsertTaskList, "", "", tasks.Placement{}); err != nil {
		return nil, err
	}
	tl := tasks.TaskList{ID: f.newID("list"), Title: title}
	f.lists = append(f.lists, tl)
	f.items[tl.ID] = nil
	return &tl, nil
}

// UpdateTaskList implements tasks.API.
func (f *Fake) UpdateTaskList(_ context.Context, taskListID, title string) (*tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpUpdateTaskList, id, "", tasks.Placement{}); err != nil {
		return nil, err
	}
	i := f.listIndex(id)
	if i < 0 {
		return nil, NotFound("task list")
	}
	f.lists[i].Title = title
	tl := f.lists[i]
	return &tl, nil
}

// DeleteTaskList implements tasks.API.
func (f *Fake) DeleteTaskList(_ context.Context, taskListID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpDeleteTaskList, id, "", tasks.Placement{}); err != nil {
		return err
	}
	i := f.listIndex(id)
	if i < 0 {
		return NotFound("task list")
	}
	f.lists = append(f.lists[:i], f.lists[i+1:]...)
	delete(f.items, id)
	return nil
}

// ListTasks implements tasks.API. Page tokens are offsets into the list.
func (f *Fake) ListTasks(_ context.Context, taskListID string, opts tasks.ListTasksOptions) (*tasks.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpListTasks, id, "", tasks.Placement{}); err != nil {
		return nil, err
	}
	if f.listIndex(id) < 0 {
		return nil, NotFound("task list")
	}

	var visible []tasks.Task
	for _, t := range f.items[id] {
		if t.Hidden && !opts.ShowHidden {
			continue
		}
		if opts.ShowCompleted != nil && !*opts.ShowCompleted && t.Status == tasks.StatusCompleted {
			continue
		}
		visible = append(visible, t)
	}

	start := 0
	if opts.PageToken != "" {
		n, err := strconv.Atoi(opts.PageToken)
		if err != nil {
			return nil, fmt.Errorf("invalid page token %q", opts.PageToken)
		}
		start = n
	}
	size := int(opts.MaxResults)
	if size <= 0 {
		size = int(tasks.MaxPageSize)
	}

	page := &tasks.TaskPage{}
	if start < len(visible) {
		end := start + size
		if end > len(visible) {
			end = len(visible)
		}
		page.Items = append(page.Items, visible[start:end]...)
		if end < len(visible) {
			page.NextPageToken = strconv.Itoa(end)
		}
	}
	return page, nil
}

// GetTask implements tasks.API.
func (f *Fake) GetTask(_ context.Context, taskListID, taskID string) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpGetTask, id, taskID, tasks.Placement{}); err != nil {
		return nil, err
	}
	i := f.taskIndex(id, taskID)
	if i < 0 {
		return nil, NotFound("task")
	}
	t := f.items[id][i]
	return &t, nil
}

// InsertTask implements tasks.API. The body's Parent is ignored, as the remote API does.
func (f *Fake) InsertTask(_ context.Context, taskListID string, task tasks.Task, at tasks.Placement) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpInsertTask, id, "", at); err != nil {
		return nil, err
	}
	if f.listIndex(id) < 0 {
		return nil, NotFound("task list")
	}
	if at.Parent != "" && f.taskIndex(id, at.Parent) < 0 {
		return nil, NotFound("parent task")
	}

	created := tasks.Task{
		Title:  task.Title,
		Notes:  task.Notes,
		Due:    task.Due,
		Status: task.Status,
		Parent: at.Parent,
	}
	if created.Status == "" {
		created.Status = tasks.StatusNeedsAction
	}
	if f.BlankInsertIDs {
		return &created, nil
	}
	created.ID = f.newID("task")
	f.items[id] = append(f.items[id], created)
	return &created, nil
}

// PatchTask implements tasks.API.
func (f *Fake) PatchTask(_ context.Context, taskListID, taskID string, patch tasks.TaskPatch) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpPatchTask, id, taskID, tasks.Placement{}); err != nil {
		return nil, err
	}
	i := f.taskIndex(id, taskID)
	if i < 0 {
		return nil, NotFound("task")
	}
	t := &f.items[id][i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	if patch.Due != nil {
		t.Due = *patch.Due
	}
	if patch.Status != nil {
		t.Status = *patch.Status
		if t.Status == tasks.StatusCompleted {
			t.Completed = "2025-01-01T00:00:00.000Z"
		} else {
			t.Completed = ""
		}
	}
	out := *t
	return &out, nil
}

// DeleteTask implements tasks.API.
func (f *Fake) DeleteTask(_ context.Context, taskListID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpDeleteTask, id, taskID, tasks.Placement{}); err != nil {
		return err
	}
	i := f.taskIndex(id, taskID)
	if i < 0 {
		return NotFound("task")
	}
	f.items[id] = append(f.items[id][:i], f.items[id][i+1:]...)
	return nil
}

// ClearCompleted implements tasks.API by hiding completed tasks.
func (f *Fake) ClearCompleted(_ context.Context, taskListID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpClearCompleted, id, "", tasks.Placement{}); err != nil {
		return err
	}
	if f.listIndex(id) < 0 {
		return NotFound("task list")
	}
	for i := range f.items[id] {
		if f.items[id][i].Status == tasks.StatusCompleted {
			f.items[id][i].Hidden = true
		}
	}
	return nil
}

// MoveTask implements tasks.API. Only the parent is tracked; ordering is not.
func (f *Fake) MoveTask(_ context.Context, taskListID, taskID string, at tasks.Placement) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.resolve(taskListID)
	if err := f.record(OpMoveTask, id, taskID, at); err != nil {
		return nil, err
	}
	i := f.taskIndex(id, taskID)
	if i < 0 {
		return nil, NotFound("task")
	}
	if at.Parent != "" && f.taskIndex(id, at.Parent) < 0 {
		return nil, NotFound("parent task")
	}
	f.items[id][i].Parent = at.Parent
	out := f.items[id][i]
	return &out, nil
}
