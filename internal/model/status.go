package model

// SessionState represents the lifecycle of a download session
type SessionState string

const (
	// SessionPending means the session exists but the fetch has not begun
	SessionPending SessionState = "Pending"

	// SessionRunning means the engine fetch is in progress
	SessionRunning SessionState = "Running"

	// SessionFinished means the fetch completed and was recorded
	SessionFinished SessionState = "Finished"

	// SessionFailed means the fetch ended with an error or was abandoned
	SessionFailed SessionState = "Failed"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s SessionState) IsTerminal() bool {
	return s == SessionFinished || s == SessionFailed
}

// CanTransition reports whether moving from s to next is allowed
func (s SessionState) CanTransition(next SessionState) bool {
	switch s {
	case SessionPending:
		return next == SessionRunning || next == SessionFailed
	case SessionRunning:
		return next == SessionFinished || next == SessionFailed
	default:
		return false
	}
}
