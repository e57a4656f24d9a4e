package tasks

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/gtasks-mcp/internal/instrumentation"
)

// Instrumented decorates an API with a client span and a
// google_api_operations sample per remote call.
type Instrumented struct {
	next    API
	metrics *instrumentation.Metrics
}

var _ API = (*Instrumented)(nil)

// NewInstrumented wraps next. A nil metrics recorder still produces spans.
func NewInstrumented(next API, metrics *instrumentation.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: metrics}
}

func (i *Instrumented) observe(ctx context.Context, operation, taskListID, taskID string, call func(context.Context) error) error {
	attrs := make([]attribute.KeyValue, 0, 2)
	if taskListID != "" {
		attrs = append(attrs, attribute.String(instrumentation.SpanAttrTaskList, taskListID))
	}
	if taskID != "" {
		attrs = append(attrs, attribute.String(instrumentation.SpanAttrTask, taskID))
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceTasks, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := call(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	}
	i.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceTasks, operation, status, time.Since(start))
	return err
}

func (i *Instrumented) ListTaskLists(ctx context.Context, maxResults int64) (lists []TaskList, err error) {
	err = i.observe(ctx, instrumentation.OperationList, "", "", func(ctx context.Context) error {
		lists, err = i.next.ListTaskLists(ctx, maxResults)
		return err
	})
	return lists, err
}

func (i *Instrumented) GetTaskList(ctx context.Context, taskListID string) (list *TaskList, err error) {
	err = i.observe(ctx, instrumentation.OperationGet, taskListID, "", func(ctx context.Context) error {
		list, err = i.next.GetTaskList(ctx, taskListID)
		return err
	})
	return list, err
}

func (i *Instrumented) InsertTaskList(ctx context.Context, title string) (list *TaskList, err error) {
	err = i.observe(ctx, instrumentation.OperationCreate, "", "", func(ctx context.Context) error {
		list, err = i.next.InsertTaskList(ctx, title)
		return err
	})
	return list, err
}

func (i *Instrumented) UpdateTaskList(ctx context.Context, taskListID, title string) (list *TaskList, err error) {
	err = i.observe(ctx, instrumentation.OperationUpdate, taskListID, "", func(ctx context.Context) error {
		list, err = i.next.UpdateTaskList(ctx, taskListID, title)
		return err
	})
	return list, err
}

func (i *Instrumented) DeleteTaskList(ctx context.Context, taskListID string) error {
	return i.observe(ctx, instrumentation.OperationDelete, taskListID, "", func(ctx context.Context) error {
		return i.next.DeleteTaskList(ctx, taskListID)
	})
}

func (i *Instrumented) ListTasks(ctx context.Context, taskListID string, opts ListTasksOptions) (page *TaskPage, err error) {
	err = i.observe(ctx, instrumentation.OperationList, taskListID, "", func(ctx context.Context) error {
		page, err = i.next.ListTasks(ctx, taskListID, opts)
		return err
	})
	return page, err
}

func (i *Instrumented) GetTask(ctx context.Context, taskListID, taskID string) (task *Task, err error) {
	err = i.observe(ctx, instrumentation.OperationGet, taskListID, taskID, func(ctx context.Context) error {
		task, err = i.next.GetTask(ctx, taskListID, taskID)
		return err
	})
	return task, err
}

func (i *Instrumented) InsertTask(ctx context.Context, taskListID string, task Task, at Placement) (created *Task, err error) {
	err = i.observe(ctx, instrumentation.OperationCreate, taskListID, "", func(ctx context.Context) error {
		created, err = i.next.InsertTask(ctx, taskListID, task, at)
		return err
	})
	return created, err
}

func (i *Instrumented) PatchTask(ctx context.Context, taskListID, taskID string, patch TaskPatch) (task *Task, err error) {
	err = i.observe(ctx, instrumentation.OperationUpdate, taskListID, taskID, func(ctx context.Context) error {
		task, err = i.next.PatchTask(ctx, taskListID, taskID, patch)
		return err
	})
	return task, err
}

func (i *Instrumented) DeleteTask(ctx context.Context, taskListID, taskID string) error {
	return i.observe(ctx, instrumentation.OperationDelete, taskListID, taskID, func(ctx context.Context) error {
		return i.next.DeleteTask(ctx, taskListID, taskID)
	})
}

func (i *Instrumented) ClearCompleted(ctx context.Context, taskListID string) error {
	return i.observe(ctx, instrumentation.OperationClear, taskListID, "", func(ctx context.Context) error {
		return i.next.ClearCompleted(ctx, taskListID)
	})
}

func (i *Instrumented) MoveTask(ctx context.Context, taskListID, taskID string, at Placement) (task *Task, err error) {
	err = i.observe(ctx, instrumentation.OperationMove, taskListID, taskID, func(ctx context.Context) error {
		task, err = i.next.MoveTask(ctx, taskListID, taskID, at)
		return err
	})
	return task, err
}
