package tablebase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/cache"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/config"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

const kpkFEN = "4k3/8/4K3/4P3/8/8/8/8 w - - 0 1"

func testClient(serverURL string) *Client {
	cfg := config.Default()
	cfg.TablebaseURL = serverURL
	cfg.LookupTimeout = time.Second
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	c := NewClient(cfg)
	c.policy.Jitter = func(time.Duration) time.Duration { return 0 }
	return c
}

func TestLookupSuccess(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		is.Equal(r.URL.Query().Get("fen"), kpkFEN)
		is.True(r.Header.Get("User-Agent") != "")
		w.Write([]byte(`{"category":"win","dtz":13,"moves":[{"uci":"e6d6","san":"Kd6","category":"loss","dtz":-12}]}`))
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL).Lookup(context.Background(), kpkFEN)
	is.NoErr(err)
	is.Equal(raw.Category, "win")
	is.Equal(len(raw.Moves), 1)
	is.Equal(atomic.LoadInt32(&requests), int32(1))
}

// Two transient failures followed by a success must yield a success after
// exactly three attempts.
func TestLookupRetriesTransientFailures(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"category":"draw","moves":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	var attempts int32
	c.onAttempt = func() { atomic.AddInt32(&attempts, 1) }

	raw, err := c.Lookup(context.Background(), kpkFEN)
	require.NoError(t, err)
	assert.Equal(t, "draw", raw.Category)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestLookupExhaustsRetries(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), kpkFEN)
	is.True(errors.Is(err, ErrUnavailable))
	is.Equal(atomic.LoadInt32(&requests), int32(3))
}

// 4xx answers are deterministic; exactly one request, no retries.
func TestLookupOutOfScopeNotRetried(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "position not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), kpkFEN)
	is.True(errors.Is(err, ErrOutOfScope))
	is.Equal(atomic.LoadInt32(&requests), int32(1))
}

// Positions beyond the tablebase's piece count never reach the network.
func TestLookupRejectsTooManyPiecesLocally(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer srv.Close()

	start := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	_, err := testClient(srv.URL).Lookup(context.Background(), start)
	is.True(errors.Is(err, ErrOutOfScope))
	is.Equal(atomic.LoadInt32(&requests), int32(0))
}

func TestLookupMalformedBodyNotRetried(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"category":`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Lookup(context.Background(), kpkFEN)
	is.True(errors.Is(err, ErrMalformedResponse))
	is.Equal(atomic.LoadInt32(&requests), int32(1))
}

func TestRetryPolicyDelayGrows(t *testing.T) {
	is := is.New(t)
	p := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
		Jitter:      func(time.Duration) time.Duration { return 0 },
	}
	is.Equal(p.Delay(0), 100*time.Millisecond)
	is.Equal(p.Delay(1), 200*time.Millisecond)
	is.Equal(p.Delay(2), 400*time.Millisecond)
	is.Equal(p.Delay(3), 800*time.Millisecond)
	is.Equal(p.Delay(4), time.Second)  // capped
	is.Equal(p.Delay(40), time.Second) // shift overflow clamps too
}

func TestRetryPolicyJitterBounded(t *testing.T) {
	p := DefaultRetryPolicy()
	for i := 0; i < 100; i++ {
		d := p.Delay(0)
		assert.GreaterOrEqual(t, d, p.BaseDelay)
		assert.Less(t, d, 2*p.BaseDelay)
	}
}

func TestPieceCount(t *testing.T) {
	is := is.New(t)
	is.Equal(pieceCount(kpkFEN), 3)
	is.Equal(pieceCount("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"), 32)
	is.Equal(pieceCount("8/8/8/8/8/8/8/8 w - - 0 1"), 0)
}

// A cached evaluation must come back untouched by later lookups.
func TestServiceReadThrough(t *testing.T) {
	is := is.New(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"category":"win","dtz":13,"moves":[{"uci":"e6d6","san":"Kd6","category":"loss","dtz":-12}]}`))
	}))
	defer srv.Close()

	svc := NewService(testClient(srv.URL), cache.New(8))
	ev1, err := svc.Evaluate(context.Background(), kpkFEN)
	is.NoErr(err)
	ev2, err := svc.Evaluate(context.Background(), kpkFEN)
	is.NoErr(err)
	is.Equal(atomic.LoadInt32(&requests), int32(1))
	is.Equal(ev1.WDL, eval.Win)
	is.Equal(ev1.PositionKey, ev2.PositionKey)
	is.Equal(ev1.BestMoves[0].UCI, ev2.BestMoves[0].UCI)

	best, err := svc.BestMove(context.Background(), kpkFEN)
	is.NoErr(err)
	is.Equal(best.UCI, "e6d6")
	is.Equal(best.WDL, eval.Win)
}
