package google

import gtasks "google.golang.org/api/tasks/v1"

// DefaultOAuthScopes are the scopes the server requests for Google Tasks.
var DefaultOAuthScopes = []string{
	gtasks.TasksScope,
}

// ReadOnlyOAuthScopes are sufficient when the server runs with --read-only.
var ReadOnlyOAuthScopes = []string{
	gtasks.TasksReadonlyScope,
}
