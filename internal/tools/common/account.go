package common

import (
	"context"
)

// DefaultAccount is used when a call names no account.
const DefaultAccount = "default"

// GetAccountFromArgs extracts the account name from request arguments,
// defaulting to "default".
func GetAccountFromArgs(_ context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return DefaultAccount
}
