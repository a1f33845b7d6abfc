package tablebase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/cache"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

// Service is the lookup pipeline the rest of the process uses: a
// read-through evaluation cache in front of a coalesced, retrying client.
// One Service is shared by every training session.
type Service struct {
	coalescer *Coalescer
	cache     *cache.EvalCache
	log       zerolog.Logger
}

// NewService composes a client and a cache into the read-through pipeline.
func NewService(client *Client, evalCache *cache.EvalCache) *Service {
	return &Service{
		coalescer: NewCoalescer(client.Lookup),
		cache:     evalCache,
		log:       log.With().Str("component", "tablebase").Logger(),
	}
}

// Evaluate returns the normalized evaluation for fen. Cache hits skip the
// network entirely; misses go through the coalescer so concurrent sessions
// asking about the same position share one request, and successful results
// populate the cache.
func (s *Service) Evaluate(ctx context.Context, fen string) (eval.Evaluation, error) {
	if ev, ok := s.cache.Get(fen); ok {
		s.log.Debug().Str("fen", fen).Msg("eval cache hit")
		return ev, nil
	}

	raw, err := s.coalescer.Get(ctx, fen)
	if err != nil {
		return eval.Evaluation{}, err
	}
	ev, err := NormalizePosition(raw, fen)
	if err != nil {
		return eval.Evaluation{}, err
	}
	s.cache.Put(fen, ev)
	s.log.Debug().
		Str("fen", fen).
		Stringer("wdl", ev.WDL).
		Int("candidates", len(ev.BestMoves)).
		Msg("evaluated position")
	return ev, nil
}

// BestMove returns the top-ranked candidate move for fen.
func (s *Service) BestMove(ctx context.Context, fen string) (eval.CandidateMove, error) {
	ev, err := s.Evaluate(ctx, fen)
	if err != nil {
		return eval.CandidateMove{}, err
	}
	if len(ev.BestMoves) == 0 {
		return eval.CandidateMove{}, fmt.Errorf("%w: no candidate moves reported", ErrMalformedResponse)
	}
	return ev.BestMoves[0], nil
}
