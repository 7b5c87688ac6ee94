package proc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrGone reports that a process disappeared between enumeration and
	// read. Expected and frequent; callers skip the pid for the cycle.
	ErrGone = errors.New("process gone")

	// ErrMalformedStat reports a stat record that does not follow the
	// documented proc(5) layout.
	ErrMalformedStat = errors.New("malformed stat record")
)

// Field positions inside the whitespace-split remainder after the closing
// parenthesis, per proc(5) (state is field 3 of the full record).
const (
	statState     = 0
	statPPID      = 1
	statPGRP      = 2
	statSession   = 3
	statTTYNr     = 4
	statTPGID     = 5
	statStartTime = 19
)

// ParseStat parses a single stat record line into a Stat.
//
// The command name is the substring between the first '(' and the last ')'
// in the line; names may themselves contain spaces and parentheses, so the
// last ')' matters, not the first. The numeric pid echo before the first
// '(' is discarded. Everything after the last ')' is a fixed positional
// field sequence.
func ParseStat(pid ProcessID, line string) (*Stat, error) {
	open := strings.Index(line, "(")
	closing := strings.LastIndex(line, ")")
	if open < 0 || closing < open {
		return nil, fmt.Errorf("pid %d: no delimited command name: %w", pid, ErrMalformedStat)
	}

	name := line[open+1 : closing]
	fields := strings.Fields(line[closing+1:])
	if len(fields) <= statStartTime {
		return nil, fmt.Errorf("pid %d: %d fields after command name: %w", pid, len(fields), ErrMalformedStat)
	}

	ppid, err := parseID(pid, "ppid", fields[statPPID])
	if err != nil {
		return nil, err
	}
	pgrp, err := parseID(pid, "pgrp", fields[statPGRP])
	if err != nil {
		return nil, err
	}
	session, err := parseID(pid, "session", fields[statSession])
	if err != nil {
		return nil, err
	}
	tty, err := strconv.Atoi(fields[statTTYNr])
	if err != nil {
		return nil, fmt.Errorf("pid %d: tty_nr %q: %w", pid, fields[statTTYNr], ErrMalformedStat)
	}
	tpgid, err := parseID(pid, "tpgid", fields[statTPGID])
	if err != nil {
		return nil, err
	}
	start, err := strconv.ParseUint(fields[statStartTime], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("pid %d: starttime %q: %w", pid, fields[statStartTime], ErrMalformedStat)
	}

	return &Stat{
		PID:       pid,
		Name:      name,
		State:     ProcessState(fields[statState]),
		PPID:      ppid,
		PGRP:      pgrp,
		Session:   session,
		TTY:       tty,
		TPGID:     tpgid,
		StartTime: start,
	}, nil
}

func parseID(pid ProcessID, field, value string) (ProcessID, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("pid %d: %s %q: %w", pid, field, value, ErrMalformedStat)
	}
	return ProcessID(n), nil
}
