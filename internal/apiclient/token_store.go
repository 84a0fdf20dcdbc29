package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stemsi/exam-platform/internal/model"
)

// TokenStore persists the session token to a single file.
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenPath is ~/.config/exam-cli/token, falling back to the
// working directory when no config dir is known.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".exam-cli-token"
	}
	return filepath.Join(dir, "exam-cli", "token")
}

// Load returns the stored token, or "" when none is saved.
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Restore loads the saved token into c and checks it with the server. A
// token the server rejects is discarded and (nil, nil) is returned, as it
// is when nothing was saved.
func Restore(ctx context.Context, c *Client, store *TokenStore) (*model.PublicUser, error) {
	token, err := store.Load()
	if err != nil || token == "" {
		return nil, err
	}

	c.SetToken(token)
	user, err := c.Me(ctx)
	if IsAuthError(err) {
		c.SetToken("")
		return nil, store.Clear()
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout forgets the token locally. Tokens are stateless, so there is no
// server call.
func Logout(c *Client, store *TokenStore) error {
	c.SetToken("")
	return store.Clear()
}
