//go:build linux

package proc_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"termproc/proc"

	"golang.org/x/sys/unix"
)

const defaultRoot = "/proc"

// Table implements the proc.Table interface against a procfs tree
type Table struct {
	root string
}

// New creates a Table reading the system process table at /proc
func New() *Table {
	return NewAt(defaultRoot)
}

// NewAt creates a Table rooted at an alternate procfs path, e.g. a fixture
// tree in tests or a /proc mount from another namespace
func NewAt(root string) *Table {
	return &Table{root: root}
}

// Pids enumerates the numeric directory entries of the procfs root.
func (t *Table) Pids() ([]proc.ProcessID, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.root, err)
	}

	var pids []proc.ProcessID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		pids = append(pids, proc.ProcessID(pid))
	}
	return pids, nil
}

// ReadStat reads and parses <root>/<pid>/stat. A process that exited since
// enumeration surfaces as an error wrapping proc.ErrGone.
func (t *Table) ReadStat(pid proc.ProcessID) (*proc.Stat, error) {
	data, err := os.ReadFile(filepath.Join(t.root, strconv.Itoa(int(pid)), "stat"))
	if err != nil {
		// ESRCH shows up when the kernel tears the process down while
		// the entry is still visible.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
			return nil, fmt.Errorf("pid %d: %w", pid, proc.ErrGone)
		}
		return nil, fmt.Errorf("pid %d: read stat: %w", pid, err)
	}
	return proc.ParseStat(pid, strings.TrimSpace(string(data)))
}

// Exists reports whether pid is currently present in the process table.
func (t *Table) Exists(pid proc.ProcessID) bool {
	// Fast path: stat <root>/<pid>
	_, err := os.Stat(filepath.Join(t.root, strconv.Itoa(int(pid))))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return unix.Kill(int(pid), 0) == nil
}
