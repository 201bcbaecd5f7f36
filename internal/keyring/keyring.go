// Package keyring keeps noor's secrets in the OS keyring: the remote store
// connection string and the admin secret.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/noor/internal/constants"
)

var (
	// ErrNotFound is returned when no entry is stored under the key
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Key names an entry noor stores
type Key string

const (
	ConnectionString Key = constants.DefaultKeyringUser
	AdminSecret      Key = constants.AdminSecretKeyringKey
)

// Keys lists every entry noor may store
var Keys = []Key{ConnectionString, AdminSecret}

// ParseKey maps a command line name to a Key
func ParseKey(name string) (Key, error) {
	switch name {
	case "remote", "connection", string(ConnectionString):
		return ConnectionString, nil
	case "admin", string(AdminSecret):
		return AdminSecret, nil
	default:
		return "", fmt.Errorf("unknown keyring entry %q (expected remote|admin)", name)
	}
}

// Get returns the stored value for key
func Get(key Key) (string, error) {
	v, err := keyring.Get(constants.AppName, string(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores value under key
func Set(key Key, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if err := keyring.Set(constants.AppName, string(key), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

// Delete removes key
func Delete(key Key) error {
	if err := keyring.Delete(constants.AppName, string(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// GetConnectionString returns the stored remote connection string
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// SetConnectionString stores the remote connection string
func SetConnectionString(connStr string) error {
	return Set(ConnectionString, connStr)
}

// GetAdminSecret returns the stored admin secret
func GetAdminSecret() (string, error) {
	return Get(AdminSecret)
}

// IsAvailable is a best-effort check that the OS keyring can be used
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
