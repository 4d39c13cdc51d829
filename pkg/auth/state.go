package auth

type State uint8

const (
	StateIdle State = iota
	StateAwaitingExternalResponse
	StateResolved
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingExternalResponse:
		return "awaiting_external_response"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Outcome is the terminal state of the most recent operation.
type Outcome struct {
	State State
	Err   error
}
