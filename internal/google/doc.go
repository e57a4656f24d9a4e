// Package google loads OAuth2 credentials for the Google Tasks API.
//
// Tokens are read from per-account JSON files in a token directory
// (default ~/.config/gtasks-mcp). Obtaining and storing those tokens is
// handled outside this server; this package only turns them into an
// authenticated HTTP client that refreshes access tokens as needed.
package google
