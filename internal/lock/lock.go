// Package lock guards the local cache against a second noor process
// writing it at the same time.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live noor process holds the lock
var ErrLocked = errors.New("another noor process is using the local cache")

// Lock is a held lockfile
type Lock struct {
	path string
}

// PathFor returns the lockfile path next to the cache file
func PathFor(cachePath string) string {
	return filepath.Join(filepath.Dir(cachePath), constants.LockfileName)
}

// Acquire takes the lockfile at path. A lockfile left by a dead process, or
// by a pid now used by some other program, is replaced.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	if pid, ok := readPID(path); ok && pid != getpidFunc() && isNoorProcess(pid) {
		return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
	}

	content := strconv.Itoa(getpidFunc())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile if this process still owns it
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if pid, ok := readPID(l.path); ok && pid != getpidFunc() {
		logger.Warn("Lockfile taken over by another process, leaving it", "pid", pid)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func readPID(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		logger.Warn("Ignoring malformed lockfile", "path", path)
		return 0, false
	}
	return pid, true
}

func isNoorProcess(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
