// Package workflow composes single remote calls into the task operations
// exposed to clients.
//
// The remote API has no cross-list move, no parent filter on listings and
// no transactional batches. This package fills those gaps:
//
//   - Enumerate walks every task list and flattens their tasks.
//   - Transfer moves a task across lists by copy-then-delete.
//   - Reorganize routes "[PREFIX] ..." titles to mapped lists.
//   - The Batch* methods apply one operation per element, isolating failures.
//   - MakeSubtask, CreateSubtask and ListSubtasks manage task hierarchies.
//
// Every call is issued sequentially and nothing is cached between
// invocations. A transfer whose delete step fails is reported through
// TransferResult.Partial rather than as an error: the copy exists and no
// data was lost.
package workflow
