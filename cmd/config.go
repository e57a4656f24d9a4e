package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teemow/gtasks-mcp/internal/google"
	"github.com/teemow/gtasks-mcp/internal/logging"
	"github.com/teemow/gtasks-mcp/internal/server"
)

// googleAuthConfig holds the credential settings shared by serve and reorganize.
type googleAuthConfig struct {
	TokenDir        string
	CredentialsFile string
	ClientID        string
	ClientSecret    string
}

func (c *googleAuthConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.TokenDir, "token-dir", google.DefaultTokenDir, "Directory holding per-account OAuth tokens (<account>.json). Can also use GTASKS_TOKEN_DIR env var.")
	cmd.Flags().StringVar(&c.CredentialsFile, "credentials-file", "", "OAuth client credentials JSON from the Google Cloud console, used to refresh tokens. Can also use GOOGLE_APPLICATION_CREDENTIALS_FILE env var.")
	cmd.Flags().StringVar(&c.ClientID, "google-client-id", "", "Google OAuth Client ID for token refresh. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&c.ClientSecret, "google-client-secret", "", "Google OAuth Client Secret for token refresh. Can also use GOOGLE_CLIENT_SECRET env var.")
}

// loadEnv fills settings whose flags were not set explicitly.
func (c *googleAuthConfig) loadEnv(cmd *cobra.Command) {
	stringFromEnv(cmd, "token-dir", "GTASKS_TOKEN_DIR", &c.TokenDir)
	stringFromEnv(cmd, "credentials-file", "GOOGLE_APPLICATION_CREDENTIALS_FILE", &c.CredentialsFile)
	stringFromEnv(cmd, "google-client-id", "GOOGLE_CLIENT_ID", &c.ClientID)
	stringFromEnv(cmd, "google-client-secret", "GOOGLE_CLIENT_SECRET", &c.ClientSecret)
}

// clientFactory builds the per-account Tasks client factory. Without an
// OAuth client config tokens are used as they are and expire after about
// an hour.
func (c *googleAuthConfig) clientFactory(readOnly bool) (server.ClientFactory, google.TokenProvider, error) {
	scopes := google.DefaultOAuthScopes
	if readOnly {
		scopes = google.ReadOnlyOAuthScopes
	}

	oauthConfig, err := google.LoadOAuthConfig(c.CredentialsFile, c.ClientID, c.ClientSecret, scopes)
	if err != nil {
		return nil, nil, err
	}
	if oauthConfig == nil {
		slog.Warn("no OAuth client configured, tokens will not be refreshed",
			"hint", "set --credentials-file or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}

	tp, err := google.NewFileTokenProvider(c.TokenDir, oauthConfig)
	if err != nil {
		return nil, nil, err
	}
	return server.TokenClientFactory(tp, oauthConfig), tp, nil
}

// newLogger returns the stderr logger. LOG_LEVEL overrides --debug.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = logging.ParseLevel(env)
	}
	return logging.NewLogger(level)
}

// stringFromEnv sets *target from env unless the flag was given.
func stringFromEnv(cmd *cobra.Command, flag, env string, target *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

// boolFromEnv sets *target from env unless the flag was given.
func boolFromEnv(cmd *cobra.Command, flag, env string, target *bool) error {
	if cmd.Flags().Changed(flag) {
		return nil
	}
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q (expected true/false): %w", env, v, err)
	}
	*target = parsed
	return nil
}
