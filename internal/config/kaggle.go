package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultKaggleUsername is written to kaggle.json when a token is set but
// KAGGLE_USERNAME is not.
const DefaultKaggleUsername = "meddata"

// KaggleCredentials is the content of kaggle.json.
type KaggleCredentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// KaggleCredentialsPath returns <config dir>/kaggle.json.
func (c *Config) KaggleCredentialsPath() string {
	return filepath.Join(c.Kaggle.ConfigDir, "kaggle.json")
}

// EnvKaggleCredentials returns the credentials taken from the environment.
// ok is false when no token is configured.
func (c *Config) EnvKaggleCredentials() (KaggleCredentials, bool) {
	if c.Tokens.Kaggle == "" {
		return KaggleCredentials{}, false
	}
	user := c.Kaggle.Username
	if user == "" {
		user = DefaultKaggleUsername
	}
	return KaggleCredentials{Username: user, Key: c.Tokens.Kaggle}, true
}

// ReadKaggleCredentials reads kaggle.json from the config directory.
func (c *Config) ReadKaggleCredentials() (KaggleCredentials, error) {
	var creds KaggleCredentials

	data, err := os.ReadFile(c.KaggleCredentialsPath())
	if err != nil {
		return creds, fmt.Errorf("failed to read kaggle credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("failed to parse %s: %w", c.KaggleCredentialsPath(), err)
	}
	if creds.Username == "" || creds.Key == "" {
		return creds, fmt.Errorf("%s is missing username or key", c.KaggleCredentialsPath())
	}

	return creds, nil
}

// EnsureKaggleCredentialsFile writes kaggle.json with mode 0600 when a token
// is configured and the file does not exist yet. It reports whether a file
// was written. An existing file is never overwritten.
func (c *Config) EnsureKaggleCredentialsFile() (bool, error) {
	creds, ok := c.EnvKaggleCredentials()
	if !ok {
		return false, nil
	}

	path := c.KaggleCredentialsPath()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(c.Kaggle.ConfigDir, 0o700); err != nil {
		return false, fmt.Errorf("failed to create kaggle config dir: %w", err)
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return false, fmt.Errorf("failed to encode kaggle credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return true, nil
}
