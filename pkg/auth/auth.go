// Package auth stores and retrieves the Todoist API token. The token lives
// in a mode-0600 file under the user's config directory; the environment
// variable wins when set, which keeps scripted use and tests off the
// filesystem. Secure-store backends (keyring etc.) are out of scope: the
// rest of the program only ever asks for the current credential string.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uraniumcovid/yarmtl/pkg/todoist"
)

const (
	xdgAppName = "yarmtl"
	tokenFile  = "todoist_token"

	// EnvToken overrides the stored token when set.
	EnvToken = "YARMTL_TODOIST_TOKEN"
)

// ErrTokenNotFound means no credential is configured anywhere.
var ErrTokenNotFound = errors.New("todoist API token not found, run 'yarmtl --setup-todoist' to configure")

// ConfigDir returns the yarmtl config directory (~/.config/yarmtl).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func tokenPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFile), nil
}

// Token returns the current credential: the environment variable if set,
// otherwise the stored token file.
func Token() (string, error) {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok, nil
	}

	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("cannot read token file %s: %w", path, err)
	}
	tok := strings.TrimSpace(string(content))
	if tok == "" {
		return "", ErrTokenNotFound
	}
	return tok, nil
}

// StoreToken saves the token to the config directory, readable only by the
// owner.
func StoreToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("cannot write token file %s: %w", path, err)
	}
	return nil
}

// DeleteToken removes the stored token. Deleting a token that was never
// stored is not an error.
func DeleteToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Verify checks a token against the API with a cheap read call.
func Verify(ctx context.Context, token string) error {
	client := todoist.NewClient(token)
	if _, err := client.ListProjects(ctx); err != nil {
		return err
	}
	return nil
}
