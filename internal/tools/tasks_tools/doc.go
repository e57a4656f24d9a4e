// Package tasks_tools registers the Google Tasks MCP tools.
//
// Every tool accepts an optional 'account' parameter and runs against that
// account's workflow service. Task list ids default to '@default'.
//
// Read tools (always registered):
//   - tasks_list_task_lists, tasks_get_task_list
//   - tasks_list: cursor-paged listing across all task lists
//   - tasks_list_tasks, tasks_get_tasks, tasks_search
//   - tasks_list_subtasks
//
// Write tools (skipped in read-only mode):
//   - tasks_create_task_list, tasks_update_task_list, tasks_delete_task_list
//   - tasks_create_task, tasks_update_task, tasks_delete_task
//   - tasks_complete_tasks, tasks_clear_completed
//   - tasks_move_task: copy then delete across task lists
//   - tasks_make_subtask, tasks_create_subtask
//   - tasks_reorganize: route "[PREFIX] ..." tasks to mapped task lists
//   - tasks_batch_*: per-element batches that report results, errors and warnings
//
// Validation failures are returned as error results with the plain message.
// Batch and reorganize reports are never error results, even when every
// element failed.
package tasks_tools
