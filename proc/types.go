package proc

// ProcessID represents a unique identifier for a process
type ProcessID int

// Stat contains the identity and terminal fields of a single process,
// parsed from its kernel stat record. A Stat is a point-in-time view:
// the identity fields (Name, PPID, Session, StartTime) are fixed for the
// process lifetime, while PGRP/TPGID reflect the moment of the read.
type Stat struct {
	PID       ProcessID    // Process ID
	Name      string       // Command name; may contain spaces and parentheses
	State     ProcessState // Process state (R, S, D, Z, etc.)
	PPID      ProcessID    // Parent process ID (0 for none)
	PGRP      ProcessID    // Process group ID
	Session   ProcessID    // Session ID (equals the session leader's PID)
	TTY       int          // Controlling terminal device ID; <= 0 means none
	TPGID     ProcessID    // Foreground process group of the controlling terminal
	StartTime uint64       // Start time in clock ticks since boot
}

// HasTTY reports whether the process has a controlling terminal.
func (s *Stat) HasTTY() bool {
	return s.TTY > 0
}

// Foreground reports whether the process owned its controlling terminal's
// process group at the time the record was read. Foreground status goes
// stale quickly; decide from a fresh read, not a cached record.
func (s *Stat) Foreground() bool {
	return s.TTY > 0 && s.PGRP == s.TPGID
}
