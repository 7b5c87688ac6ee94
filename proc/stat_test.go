package proc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statLine assembles a realistic stat record: pid echo, delimited name,
// then the positional remainder with starttime at index 19.
func statLine(pid int, name, state string, ppid, pgrp, session, tty, tpgid int, start uint64) string {
	return fmt.Sprintf("%d (%s) %s %d %d %d %d %d 4194304 181 0 12 0 5 3 0 0 20 0 1 0 %d 9162752 581 18446744073709551615",
		pid, name, state, ppid, pgrp, session, tty, tpgid, start)
}

func TestParseStat(t *testing.T) {
	assert := assert.New(t)

	s, err := ParseStat(42, statLine(42, "bash", "S", 1, 42, 42, 34816, 4711, 12345))
	require.NoError(t, err)

	assert.Equal(ProcessID(42), s.PID)
	assert.Equal("bash", s.Name)
	assert.Equal(ProcessSleeping, s.State)
	assert.Equal(ProcessID(1), s.PPID)
	assert.Equal(ProcessID(42), s.PGRP)
	assert.Equal(ProcessID(42), s.Session)
	assert.Equal(34816, s.TTY)
	assert.Equal(ProcessID(4711), s.TPGID)
	assert.Equal(uint64(12345), s.StartTime)
}

func TestParseStatNameWithSpaces(t *testing.T) {
	assert := assert.New(t)

	s, err := ParseStat(42, statLine(42, "my command", "R", 1, 42, 42, 5, 42, 77))
	require.NoError(t, err)

	assert.Equal("my command", s.Name)
	assert.Equal(ProcessID(1), s.PPID)
	assert.Equal(uint64(77), s.StartTime)
}

func TestParseStatNameWithParens(t *testing.T) {
	assert := assert.New(t)

	// Delimiters are the first '(' and the *last* ')' in the line, so a
	// name like "a(b)c" survives intact and later fields stay aligned.
	s, err := ParseStat(42, statLine(42, "a(b)c", "S", 1, 42, 42, 5, 42, 99))
	require.NoError(t, err)

	assert.Equal("a(b)c", s.Name)
	assert.Equal(ProcessID(42), s.Session)
	assert.Equal(uint64(99), s.StartTime)
}

func TestParseStatNoControllingTerminal(t *testing.T) {
	assert := assert.New(t)

	// tpgid is -1 for processes with no controlling terminal.
	s, err := ParseStat(9, statLine(9, "kworker/0:1", "S", 2, 0, 0, 0, -1, 3))
	require.NoError(t, err)

	assert.False(s.HasTTY())
	assert.False(s.Foreground())
}

func TestParseStatForeground(t *testing.T) {
	assert := assert.New(t)

	fg, err := ParseStat(42, statLine(42, "vim", "S", 40, 42, 40, 5, 42, 10))
	require.NoError(t, err)
	assert.True(fg.Foreground())

	// A controlling terminal alone is not enough: the process group must
	// own it right now.
	bg, err := ParseStat(43, statLine(43, "sleep", "S", 40, 43, 40, 5, 42, 11))
	require.NoError(t, err)
	assert.True(bg.HasTTY())
	assert.False(bg.Foreground())
}

func TestParseStatMalformed(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"no name delimiters", "42 bash S 1 42 42 5 42"},
		{"unclosed name", "42 (bash S 1 42 42 5 42"},
		{"too few fields", "42 (bash) S 1 42"},
		{"non-numeric ppid", "42 (bash) S x 42 42 5 42 0 0 0 0 0 0 0 0 0 0 0 0 0 1 0 0 0"},
		{"non-numeric starttime", "42 (bash) S 1 42 42 5 42 0 0 0 0 0 0 0 0 0 0 0 0 0 x 0 0 0"},
	}

	for _, tc := range cases {
		s, err := ParseStat(42, tc.line)
		assert.Nil(s, tc.name)
		assert.True(errors.Is(err, ErrMalformedStat), tc.name)
	}
}
