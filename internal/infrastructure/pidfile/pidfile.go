package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Lock is a PID file that keeps a second daemon from starting against the
// same store. The file holds the owning process id; a file left behind by
// a dead process counts as stale and is replaced on the next Acquire.
type Lock struct {
	path string
}

// New creates a lock at the given path. Nothing is written until Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire records the current process id, failing if a live owner already
// holds the file. Stale and unreadable files are silently replaced.
func (l *Lock) Acquire() error {
	if pid, ok := l.owner(); ok {
		if alive(pid) {
			return fmt.Errorf("daemon already running with PID %d", pid)
		}
		_ = os.Remove(l.path)
	}
	data := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(l.path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// KillExisting sends SIGTERM to the recorded owner and waits for it to
// exit, so a forced start can take over the lock.
func (l *Lock) KillExisting() error {
	pid, ok := l.owner()
	if !ok {
		return nil
	}
	if !alive(pid) {
		_ = os.Remove(l.path)
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("signal PID %d: %w", pid, err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			_ = os.Remove(l.path)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("PID %d did not exit after SIGTERM", pid)
}

// Release removes the file. A missing file is not an error, so Release can
// run unconditionally on shutdown.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

// owner reads the pid recorded in the file.
func (l *Lock) owner() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// alive reports whether the process can still receive signals. Signal 0
// probes without delivering anything; EPERM means the process exists but
// belongs to another user.
func alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
