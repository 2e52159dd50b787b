package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL  = "http://localhost:3000"
	tokenFileName  = ".userapi_token"
	envAPIURL      = "USERAPI_URL"
	envTokenFile   = "USERAPI_TOKEN_FILE"
	tokenFilePerms = 0o600
)

// ErrNotLoggedIn is returned by LoadToken when no token has been saved.
var ErrNotLoggedIn = errors.New("not logged in: run `userctl users login` first")

// APIURL returns the base URL for the user API.
// It can be overridden with the USERAPI_URL environment variable.
func APIURL() string {
	if v := os.Getenv(envAPIURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is where the session token is stored (USERAPI_TOKEN_FILE or ~/.userapi_token).
func TokenPath() string {
	if v := os.Getenv(envTokenFile); v != "" {
		return v
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return tokenFileName
	}
	return filepath.Join(dir, tokenFileName)
}

func SaveToken(token string) error {
	if err := os.WriteFile(TokenPath(), []byte(token), tokenFilePerms); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func LoadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// RemoveToken deletes the saved token. It reports false if none was saved.
func RemoveToken() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
