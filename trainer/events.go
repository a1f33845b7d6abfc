package trainer

import (
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

// Feedback is the structured verdict on one submitted move, emitted while
// the session is PresentingFeedback. Rendering is entirely the consumer's
// business.
type Feedback struct {
	Outcome eval.MoveOutcome

	// Message is a short human-readable summary of the outcome.
	Message string

	// PlayedMove is the move the player submitted, as submitted.
	PlayedMove string

	// BestMove carries a hint (the tablebase's top choice before the
	// move) when the move degraded the position. Empty otherwise.
	BestMove string

	// Unverified is set when the lookup layer was unavailable and the
	// move was accepted without quality feedback.
	Unverified bool
}

// Observer receives session events. Callbacks are invoked synchronously and
// in order; observers must not call back into the Session from inside a
// callback.
type Observer interface {
	StateChanged(state SessionState)
	MoveFeedback(fb Feedback)
}

// ObserverFuncs adapts plain functions to the Observer interface. Either
// field may be nil.
type ObserverFuncs struct {
	OnStateChanged func(state SessionState)
	OnMoveFeedback func(fb Feedback)
}

func (o ObserverFuncs) StateChanged(state SessionState) {
	if o.OnStateChanged != nil {
		o.OnStateChanged(state)
	}
}

func (o ObserverFuncs) MoveFeedback(fb Feedback) {
	if o.OnMoveFeedback != nil {
		o.OnMoveFeedback(fb)
	}
}
