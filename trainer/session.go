// Package trainer sequences a training turn: load a position, wait for the
// player's move, evaluate before and after, classify the difference, feed
// back, and play the tablebase's best reply. The session is a state machine;
// every command is guarded by the current state and every in-flight
// evaluation is guarded by a session epoch so a reset can abandon it
// cleanly.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/rules"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/store"
)

var (
	// ErrInvalidState means a command arrived in a state that does not
	// accept it. The command has no side effect; this is the guard
	// against stale or duplicate UI callbacks.
	ErrInvalidState = errors.New("trainer: command not valid in current state")

	// ErrSuperseded means the session was reset while an evaluation was
	// in flight; the result was discarded without a state transition.
	ErrSuperseded = errors.New("trainer: session reset during evaluation")
)

// Evaluator is the lookup pipeline the session consumes. *tablebase.Service
// is the production implementation.
type Evaluator interface {
	Evaluate(ctx context.Context, fen string) (eval.Evaluation, error)
	BestMove(ctx context.Context, fen string) (eval.CandidateMove, error)
}

// MoveResult is what SubmitMove hands back to the caller alongside the
// emitted Feedback event.
type MoveResult struct {
	Feedback Feedback

	// OpponentReply is the reply that was played, in UCI. Empty when the
	// player retries the position or the session completed.
	OpponentReply string

	// Status is the game-over verdict after all moves of this turn.
	Status rules.GameStatus

	// State is the session state after the turn settled.
	State SessionState

	// Position is the position now facing the player (or the final
	// position when the session completed).
	Position rules.Position
}

type subscriber struct {
	id       int
	observer Observer
}

// Session drives one training session. A process may run many sessions;
// they share the Evaluator (and through it the cache and coalescer), while
// each Session itself processes one command at a time.
type Session struct {
	mu      sync.Mutex
	state   SessionState
	epoch   uint64
	pos     rules.Position
	current store.Position

	positions store.Store
	engine    rules.Engine
	evaluator Evaluator

	obsMu   sync.Mutex
	subs    []subscriber
	nextSub int

	log zerolog.Logger
}

// NewSession wires a session from its collaborators.
func NewSession(positions store.Store, engine rules.Engine, evaluator Evaluator) *Session {
	return &Session{
		state:     Idle,
		positions: positions,
		engine:    engine,
		evaluator: evaluator,
		log:       log.With().Str("component", "trainer").Logger(),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the position currently facing the player.
func (s *Session) Position() rules.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// CurrentExercise returns the stored position the session was started from.
func (s *Session) CurrentExercise() store.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *Session) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, observer: o})
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// StartSession fetches a training position (optionally restricted to a
// category) and readies the session for the player's first move.
func (s *Session) StartSession(ctx context.Context, category string) error {
	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: start while %s", ErrInvalidState, state)
	}
	s.epoch++
	epoch := s.epoch
	s.state = LoadingPosition
	s.mu.Unlock()
	s.notifyState(LoadingPosition)

	stored, err := s.positions.RandomPosition(category)
	if err != nil {
		return s.fault(epoch, fmt.Errorf("failed to load position: %w", err))
	}
	pos, err := rules.PositionFromFEN(stored.FEN)
	if err != nil {
		return s.fault(epoch, fmt.Errorf("stored position is unplayable: %w", err))
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.current = stored
	s.pos = pos
	s.state = AwaitingPlayerMove
	s.mu.Unlock()
	s.notifyState(AwaitingPlayerMove)

	s.log.Info().
		Str("fen", pos.FEN).
		Str("category", stored.Category).
		Str("title", stored.Title).
		Msg("session started")
	return nil
}

// Reset abandons the session and returns to Idle. Any in-flight evaluation
// notices the epoch bump and discards its result.
func (s *Session) Reset() {
	s.mu.Lock()
	s.epoch++
	s.state = Idle
	s.pos = rules.Position{}
	s.current = store.Position{}
	s.mu.Unlock()
	s.notifyState(Idle)
}

// SubmitMove processes one player move through the full pipeline: legality
// check, before/after evaluation, classification, feedback, and — when the
// move did not degrade the position — the opponent's reply. Only
// AwaitingPlayerMove accepts it; a concurrent second call is rejected, not
// queued. Lookup failures never block the move: it is accepted and applied
// with Unclassified feedback.
func (s *Session) SubmitMove(ctx context.Context, move string) (MoveResult, error) {
	s.mu.Lock()
	if s.state != AwaitingPlayerMove {
		state := s.state
		s.mu.Unlock()
		return MoveResult{}, fmt.Errorf("%w: submit while %s", ErrInvalidState, state)
	}
	pos := s.pos
	epoch := s.epoch

	// Illegal moves are rejected synchronously, before any transition or
	// network activity.
	if !s.engine.IsLegal(pos, move) {
		s.mu.Unlock()
		return MoveResult{}, fmt.Errorf("%w: %s", rules.ErrIllegalMove, move)
	}
	s.state = EvaluatingMove
	s.mu.Unlock()
	s.notifyState(EvaluatingMove)

	beforeWDL := eval.Unknown
	bestHint := ""
	unverified := false
	var dtzAfter *int

	if before, err := s.evaluator.Evaluate(ctx, pos.FEN); err != nil {
		unverified = true
		s.log.Warn().Err(err).Str("fen", pos.FEN).Msg("lookup unavailable before move")
	} else {
		beforeWDL = before.WDL
		if len(before.BestMoves) > 0 {
			bestHint = before.BestMoves[0].SAN
		}
	}

	next, err := s.engine.ApplyMove(pos, move)
	if err != nil {
		// The move passed the legality check above; failure to apply it
		// is an integration bug, not a runtime condition.
		return MoveResult{}, s.fault(epoch, fmt.Errorf("rules collaborator rejected a vetted move: %w", err))
	}

	afterWDL := eval.Unknown
	if !unverified {
		if after, err := s.evaluator.Evaluate(ctx, next.FEN); err != nil {
			unverified = true
			s.log.Warn().Err(err).Str("fen", next.FEN).Msg("lookup unavailable after move")
		} else {
			// The resulting position's verdict belongs to the responder;
			// negate it into the mover's perspective for classification.
			afterWDL = after.WDL.Negate()
			dtzAfter = after.DTZ
		}
	}

	outcome := eval.Classify(beforeWDL, afterWDL)
	fb := Feedback{
		Outcome:    outcome,
		PlayedMove: move,
		Unverified: unverified,
		Message:    feedbackMessage(outcome, unverified, dtzAfter),
	}
	if outcome.Transition.Degrading() {
		fb.BestMove = bestHint
	}

	// Commit point: the move sticks unless it degraded the outcome.
	retry := outcome.Transition.Degrading()
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return MoveResult{}, ErrSuperseded
	}
	s.state = PresentingFeedback
	if !retry {
		s.pos = next
	}
	s.mu.Unlock()
	s.notifyState(PresentingFeedback)
	s.notifyFeedback(fb)

	s.log.Info().
		Str("move", move).
		Stringer("transition", outcome.Transition).
		Bool("unverified", unverified).
		Msg("move classified")

	if retry {
		if !s.advance(epoch, AwaitingPlayerMove) {
			return MoveResult{}, ErrSuperseded
		}
		return MoveResult{
			Feedback: fb,
			Status:   rules.Playing,
			State:    AwaitingPlayerMove,
			Position: pos,
		}, nil
	}

	return s.opponentTurn(ctx, epoch, fb, next)
}

// opponentTurn finishes a committed player move: detect game over, play the
// best reply, detect game over again.
func (s *Session) opponentTurn(ctx context.Context, epoch uint64, fb Feedback, pos rules.Position) (MoveResult, error) {
	status, err := s.engine.GameOverState(pos)
	if err != nil {
		return MoveResult{}, s.fault(epoch, fmt.Errorf("game-over check failed: %w", err))
	}
	if status != rules.Playing {
		if !s.advance(epoch, SessionComplete) {
			return MoveResult{}, ErrSuperseded
		}
		s.log.Info().Stringer("status", status).Msg("session complete")
		return MoveResult{Feedback: fb, Status: status, State: SessionComplete, Position: pos}, nil
	}

	if !s.advance(epoch, AwaitingOpponentMove) {
		return MoveResult{}, ErrSuperseded
	}

	reply, err := s.opponentReply(ctx, pos)
	if err != nil {
		return MoveResult{}, s.fault(epoch, err)
	}
	afterReply, err := s.engine.ApplyMove(pos, reply)
	if err != nil {
		return MoveResult{}, s.fault(epoch, fmt.Errorf("rules collaborator rejected opponent reply %s: %w", reply, err))
	}

	status, err = s.engine.GameOverState(afterReply)
	if err != nil {
		return MoveResult{}, s.fault(epoch, fmt.Errorf("game-over check failed: %w", err))
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return MoveResult{}, ErrSuperseded
	}
	s.pos = afterReply
	final := AwaitingPlayerMove
	if status != rules.Playing {
		final = SessionComplete
	}
	s.state = final
	s.mu.Unlock()
	s.notifyState(final)

	s.log.Debug().Str("reply", reply).Str("fen", afterReply.FEN).Msg("opponent replied")
	return MoveResult{
		Feedback:      fb,
		OpponentReply: reply,
		Status:        status,
		State:         final,
		Position:      afterReply,
	}, nil
}

// opponentReply picks the tablebase's best move, falling back to the first
// legal move when the lookup layer is unavailable so training can continue.
func (s *Session) opponentReply(ctx context.Context, pos rules.Position) (string, error) {
	best, err := s.evaluator.BestMove(ctx, pos.FEN)
	if err == nil {
		return best.UCI, nil
	}
	s.log.Warn().Err(err).Str("fen", pos.FEN).Msg("lookup unavailable for reply, using first legal move")

	moves, lerr := s.engine.LegalMoves(pos)
	if lerr != nil {
		return "", fmt.Errorf("failed to enumerate replies: %w", lerr)
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("no legal replies in a position reported as playing")
	}
	return moves[0], nil
}

// Hint returns the tablebase's preferred move for the current position.
func (s *Session) Hint(ctx context.Context) (eval.CandidateMove, error) {
	s.mu.Lock()
	if s.state != AwaitingPlayerMove {
		state := s.state
		s.mu.Unlock()
		return eval.CandidateMove{}, fmt.Errorf("%w: hint while %s", ErrInvalidState, state)
	}
	pos := s.pos
	s.mu.Unlock()
	return s.evaluator.BestMove(ctx, pos.FEN)
}

// advance transitions to the given state unless the session has been reset
// since the pipeline captured its epoch.
func (s *Session) advance(epoch uint64, to SessionState) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Stringer("to", to).Msg("discarding stale transition")
		return false
	}
	s.state = to
	s.mu.Unlock()
	s.notifyState(to)
	return true
}

// fault moves the session to Faulted (epoch permitting) and returns err.
func (s *Session) fault(epoch uint64, err error) error {
	s.log.Error().Err(err).Msg("session faulted")
	if !s.advance(epoch, Faulted) {
		return ErrSuperseded
	}
	return err
}

func (s *Session) notifyState(state SessionState) {
	for _, sub := range s.snapshotSubs() {
		sub.observer.StateChanged(state)
	}
}

func (s *Session) notifyFeedback(fb Feedback) {
	for _, sub := range s.snapshotSubs() {
		sub.observer.MoveFeedback(fb)
	}
}

func (s *Session) snapshotSubs() []subscriber {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	out := make([]subscriber, len(s.subs))
	copy(out, s.subs)
	return out
}

// feedbackMessage renders the one-line summary for a classified move. DTZ
// only ever feeds messaging, never classification.
func feedbackMessage(outcome eval.MoveOutcome, unverified bool, dtz *int) string {
	if unverified {
		return "tablebase unavailable, move accepted but unverified"
	}
	switch outcome.Transition {
	case eval.MaintainedWin:
		if dtz != nil {
			return fmt.Sprintf("still winning, %d moves to conversion", abs(*dtz))
		}
		return "still winning"
	case eval.MaintainedDraw:
		return "holding the draw"
	case eval.MaintainedLoss:
		return "still lost, best defence continues"
	case eval.WinToDraw:
		return "that throws away the win, the position is now drawn"
	case eval.WinToLoss:
		return "that loses a won position"
	case eval.DrawToLoss:
		return "that loses a drawn position"
	case eval.DrawOrLossImproved:
		return "the outcome improved, your opponent had gone wrong earlier"
	}
	return "move accepted"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
