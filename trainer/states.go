package trainer

// SessionState is the training session's position in its state machine.
// Transitions happen only inside Session; terminal states are
// SessionComplete and Faulted, both recoverable via Reset.
type SessionState int

const (
	Idle SessionState = iota
	LoadingPosition
	AwaitingPlayerMove
	EvaluatingMove
	PresentingFeedback
	AwaitingOpponentMove
	SessionComplete
	Faulted
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingPosition:
		return "loading-position"
	case AwaitingPlayerMove:
		return "awaiting-player-move"
	case EvaluatingMove:
		return "evaluating-move"
	case PresentingFeedback:
		return "presenting-feedback"
	case AwaitingOpponentMove:
		return "awaiting-opponent-move"
	case SessionComplete:
		return "session-complete"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// Terminal reports whether the session has ended.
func (s SessionState) Terminal() bool {
	return s == SessionComplete || s == Faulted
}
