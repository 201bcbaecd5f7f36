package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/noor/internal/logger"
)

var (
	// ErrAuthenticationFailed is returned when a passcode or the admin secret
	// does not match. The attempted transition is rejected and state is unchanged.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrRemoteUnavailable wraps any failure of remote store I/O
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrNoActiveUser is returned by callers that need a logged-in user
	ErrNoActiveUser = errors.New("no active user, run 'noor login' first")
	// ErrUserNotFound is returned when an id is not present in the snapshot
	ErrUserNotFound = errors.New("user not found")
	// ErrNotInitialized is returned when the local cache has not been created
	ErrNotInitialized = errors.New("storage not initialized, run 'noor init' first")
	// ErrAdminRequired is returned for operator-only commands outside admin mode
	ErrAdminRequired = errors.New("admin mode required, run 'noor admin login' first")
)

// Remote wraps err as a RemoteUnavailable failure for the given operation
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, op, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
