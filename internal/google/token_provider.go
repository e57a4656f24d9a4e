package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultTokenDir is where per-account token files are looked up.
const DefaultTokenDir = "~/.config/gtasks-mcp"

// ErrNoToken is returned when no token file exists for an account.
var ErrNoToken = errors.New("no Google OAuth token found")

var accountPattern = regexp.MustCompile(`^[A-Za-z0-9._@+-]+$`)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens from <dir>/<account>.json.
type FileTokenProvider struct {
	dir    string
	config *oauth2.Config
}

// NewFileTokenProvider creates a file based token provider. A leading ~ in
// dir is expanded. config may be nil, in which case tokens are used as-is
// and never refreshed.
func NewFileTokenProvider(dir string, config *oauth2.Config) (*FileTokenProvider, error) {
	if dir == "" {
		dir = DefaultTokenDir
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand token directory: %w", err)
	}
	return &FileTokenProvider{dir: expanded, config: config}, nil
}

// Dir returns the expanded token directory.
func (p *FileTokenProvider) Dir() string {
	return p.dir
}

func (p *FileTokenProvider) tokenPath(account string) (string, error) {
	if !accountPattern.MatchString(account) {
		return "", fmt.Errorf("invalid account name %q", account)
	}
	return filepath.Join(p.dir, account+".json"), nil
}

// GetTokenForAccount retrieves a token from disk for the specified account.
func (p *FileTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	path, err := p.tokenPath(account)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %s (expected %s)", ErrNoToken, account, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s holds neither access nor refresh token", path)
	}
	return &token, nil
}

// HasTokenForAccount checks if a token file exists for the specified account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	path, err := p.tokenPath(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// HTTPClientForAccount returns an HTTP client that authorizes requests with
// the account's token, refreshing it through the OAuth config when one is set.
func HTTPClientForAccount(ctx context.Context, tp TokenProvider, config *oauth2.Config, account string) (*http.Client, error) {
	token, err := tp.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	var ts oauth2.TokenSource
	if config != nil {
		ts = config.TokenSource(ctx, token)
	} else {
		ts = oauth2.StaticTokenSource(token)
	}
	return oauth2.NewClient(ctx, ts), nil
}

// LoadOAuthConfig builds the OAuth client configuration. A credentials JSON
// file downloaded from the Google Cloud console takes precedence; otherwise
// clientID and clientSecret are used. It returns nil when neither is set.
func LoadOAuthConfig(credentialsFile, clientID, clientSecret string, scopes []string) (*oauth2.Config, error) {
	if credentialsFile != "" {
		path, err := homedir.Expand(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand credentials path: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		conf, err := google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials file: %w", err)
		}
		return conf, nil
	}

	if clientID == "" || clientSecret == "" {
		return nil, nil
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}, nil
}
