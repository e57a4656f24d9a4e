// Package tasks is the remote collaborator for Google Tasks.
//
// It defines the API interface the workflow engine depends on, the domain
// types passed across it, and Client, the implementation backed by the
// Google Tasks REST API (google.golang.org/api/tasks/v1).
//
// Every call is independently fallible. Nothing here caches remote state
// or combines calls; multi-step operations such as cross-list moves live in
// the workflow package.
//
// Remote bookkeeping fields (position, etag, links, timestamps) are carried
// as opaque strings exactly as the API returns them. Due dates are passed
// through unparsed.
//
// # Example Usage
//
//	client, err := tasks.NewClient(ctx, httpClient, "default")
//	if err != nil {
//	    return err
//	}
//	lists, err := client.ListTaskLists(ctx, tasks.MaxPageSize)
package tasks
