package proc

// Table is a read-only view of the OS process table. The canonical
// implementation reads the procfs tree; tests inject in-memory fakes.
//
// The table is racy by nature: a pid returned by Pids may be gone by the
// time ReadStat runs. Implementations signal that with an error wrapping
// ErrGone rather than inventing a record.
type Table interface {
	// Pids enumerates all currently live process ids, in table order.
	Pids() ([]ProcessID, error)

	// ReadStat reads and parses the current stat record for pid. Returns
	// an error wrapping ErrGone if the process no longer exists, or one
	// wrapping ErrMalformedStat if its record cannot be parsed.
	ReadStat(pid ProcessID) (*Stat, error)
}
