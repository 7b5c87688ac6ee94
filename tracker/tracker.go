package tracker

import (
	"errors"
	"fmt"

	"termproc/proc"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Tracker owns a registry of live processes and a per-session index of
// foreground processes, and resolves the single active process for each
// terminal session. The registry persists across Refresh calls as an
// identity cache; the session index is derived state, rebuilt every cycle.
//
// A Tracker is not safe for concurrent use. Serialize calls to it,
// typically from a single poll goroutine.
type Tracker struct {
	table     proc.Table
	byPid     map[proc.ProcessID]*proc.Stat
	bySession map[proc.ProcessID][]*proc.Stat
	log       *logger.Logger
}

// New creates an empty Tracker reading from table.
func New(table proc.Table) *Tracker {
	return &Tracker{
		table:     table,
		byPid:     make(map[proc.ProcessID]*proc.Stat),
		bySession: make(map[proc.ProcessID][]*proc.Stat),
		log:       logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "tracker")),
	}
}

// Refresh reconciles the registry against the live process table and
// rebuilds the foreground-session index. Processes that vanish mid-cycle or
// produce unparseable records are skipped for this cycle; only a failure to
// enumerate the table at all is returned to the caller.
func (t *Tracker) Refresh() error {
	pids, err := t.table.Pids()
	if err != nil {
		return fmt.Errorf("enumerate processes: %w", err)
	}

	live := make(map[proc.ProcessID]bool, len(pids))
	for _, pid := range pids {
		live[pid] = true
	}
	for pid := range t.byPid {
		if !live[pid] {
			delete(t.byPid, pid)
		}
	}

	// Rebuild the session index wholesale so stale foreground entries
	// never linger from a previous cycle.
	t.bySession = make(map[proc.ProcessID][]*proc.Stat, len(t.bySession))

	for _, pid := range pids {
		// One fresh read per pid per cycle. PGRP/TPGID go stale within
		// milliseconds of a shell spawning or reaping a child, so the
		// foreground test must never run on cached values.
		fresh, err := t.table.ReadStat(pid)
		if err != nil {
			if !errors.Is(err, proc.ErrGone) {
				t.log.Debugln("Skipping unreadable process", pid, ":", err)
			}
			continue
		}

		rec, ok := t.byPid[pid]
		if !ok || rec.StartTime != fresh.StartTime {
			// First sighting, or the pid was reused by a new process
			// between cycles: the fresh record replaces any prior
			// incarnation outright, never merges with it.
			rec = fresh
			t.byPid[pid] = rec
		}

		if fresh.Foreground() {
			t.bySession[rec.Session] = append(t.bySession[rec.Session], rec)
		}
	}

	t.log.Debugln("Refresh complete:", len(t.byPid), "processes,", len(t.bySession), "sessions with foreground work")

	return nil
}

// Known reports whether pid is currently present in the registry.
func (t *Tracker) Known(pid proc.ProcessID) bool {
	_, ok := t.byPid[pid]
	return ok
}

// Foreground returns the foreground sequence for one session as of the last
// Refresh, in process-table enumeration order. The slice is a view owned by
// the Tracker and is only valid until the next Refresh.
func (t *Tracker) Foreground(session proc.ProcessID) []*proc.Stat {
	return t.bySession[session]
}

// Sessions returns the ids of all sessions that had at least one foreground
// process at the last Refresh, in no particular order.
func (t *Tracker) Sessions() []proc.ProcessID {
	sessions := make([]proc.ProcessID, 0, len(t.bySession))
	for session := range t.bySession {
		sessions = append(sessions, session)
	}
	return sessions
}

// Active resolves the single active process for every session in the
// current index. Sessions where no entry qualifies are omitted.
func (t *Tracker) Active() map[proc.ProcessID]*proc.Stat {
	active := make(map[proc.ProcessID]*proc.Stat, len(t.bySession))
	for session, fg := range t.bySession {
		if rec := resolve(fg); rec != nil {
			active[session] = rec
		}
	}
	return active
}

// ActiveProcesses refreshes the registry and resolves the active process
// for every session with foreground work. This is the entry point a
// terminal polls once per cycle.
func (t *Tracker) ActiveProcesses() (map[proc.ProcessID]*proc.Stat, error) {
	if err := t.Refresh(); err != nil {
		return nil, err
	}
	return t.Active(), nil
}

// resolve picks the active entry from a session's foreground sequence.
// Scanning from the last-enumerated entry backward, the first entry with no
// foreground children of its own wins: a shell whose editor child owns the
// terminal is never the answer while that child is alive.
func resolve(fg []*proc.Stat) *proc.Stat {
	if len(fg) == 1 {
		return fg[0]
	}
	for i := len(fg) - 1; i >= 0; i-- {
		if !hasForegroundChild(fg[i], fg) {
			return fg[i]
		}
	}
	return nil
}

// hasForegroundChild reports whether any entry of fg is a direct child of
// parent started at or after it. The start-time guard filters out children
// reparented onto parent after originally belonging elsewhere.
func hasForegroundChild(parent *proc.Stat, fg []*proc.Stat) bool {
	for _, rec := range fg {
		if rec.PPID == parent.PID && parent.StartTime <= rec.StartTime {
			return true
		}
	}
	return false
}
