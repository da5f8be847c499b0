// Package model defines the core data structures shared across the analyzer.
package model

// ThreadState represents the JVM thread state parsed from a dump.
type ThreadState string

const (
	// StateRunnable indicates a thread that is executing or ready to execute.
	StateRunnable ThreadState = "RUNNABLE"
	// StateBlocked indicates a thread blocked waiting for a monitor lock.
	StateBlocked ThreadState = "BLOCKED"
	// StateWaiting indicates a thread waiting indefinitely for another thread.
	StateWaiting ThreadState = "WAITING"
	// StateTimedWaiting indicates a thread waiting with a specified timeout.
	StateTimedWaiting ThreadState = "TIMED_WAITING"
	// StateNew indicates a thread that has not yet started.
	StateNew ThreadState = "NEW"
	// StateTerminated indicates a thread that has exited.
	StateTerminated ThreadState = "TERMINATED"
	// StateUnknown is used when the state token cannot be recognized.
	StateUnknown ThreadState = "UNKNOWN"
)

// ParseThreadState maps a raw state token to a ThreadState.
// Unrecognized tokens map to StateUnknown rather than failing.
func ParseThreadState(token string) ThreadState {
	switch ThreadState(token) {
	case StateRunnable, StateBlocked, StateWaiting, StateTimedWaiting, StateNew, StateTerminated:
		return ThreadState(token)
	default:
		return StateUnknown
	}
}

// IsBlocking reports whether the state counts as non-runnable time for
// saturation ranking purposes.
func (s ThreadState) IsBlocking() bool {
	switch s {
	case StateBlocked, StateWaiting, StateTimedWaiting:
		return true
	default:
		return false
	}
}

// StackFrame is one parsed line of a stack trace.
type StackFrame struct {
	// Raw is the frame text as it appeared in the dump, without the
	// leading "at " marker.
	Raw string `json:"raw"`

	// Normalized is the frame text after noise filtering. Empty when the
	// frame was dropped by the filter.
	Normalized string `json:"normalized,omitempty"`
}

// ThreadRecord is one thread's entry within a snapshot. It is immutable
// once built by the dump parser.
type ThreadRecord struct {
	// Name is the quoted thread name from the header line.
	Name string `json:"name"`

	// ID is the JVM thread id (#NN in the header), or -1 if absent.
	ID int64 `json:"id"`

	// State is the parsed thread state.
	State ThreadState `json:"state"`

	// Frames is the ordered stack trace, innermost frame first.
	Frames []StackFrame `json:"frames"`

	// SnapshotIndex is the capture order of the owning snapshot.
	SnapshotIndex int `json:"snapshot_index"`
}

// Snapshot is one dump capture. It is discarded after its records are
// consumed by the clusterer.
type Snapshot struct {
	// Index is the capture order within the archive, starting at 0.
	Index int `json:"index"`

	// Name is the archive entry name the snapshot was read from.
	Name string `json:"name"`

	// Records holds the threads extracted from the snapshot text.
	Records []ThreadRecord `json:"records"`
}
