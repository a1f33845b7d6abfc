package tablebase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/config"
)

// Client performs a single-position lookup against the remote tablebase
// service. It applies a per-attempt timeout and retries transient failures
// according to its RetryPolicy; scope and payload errors are returned
// immediately.
type Client struct {
	baseURL    string
	userAgent  string
	maxPieces  int
	timeout    time.Duration
	policy     RetryPolicy
	httpClient *http.Client

	// onAttempt, when set, is called once per network attempt. Used by
	// tests to count attempts without a real server in the middle.
	onAttempt func()
}

// NewClient creates a lookup client from the process config.
func NewClient(cfg *config.Config) *Client {
	policy := DefaultRetryPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	policy.BaseDelay = cfg.BaseDelay
	policy.MaxDelay = cfg.MaxDelay
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.TablebaseURL, "/"),
		userAgent:  cfg.UserAgent,
		maxPieces:  cfg.MaxPieces,
		timeout:    cfg.LookupTimeout,
		policy:     policy,
		httpClient: &http.Client{},
	}
}

// Lookup fetches the raw tablebase response for fen. Positions with more
// pieces than the tablebase covers are rejected locally, without a network
// call.
func (c *Client) Lookup(ctx context.Context, fen string) (*RawResponse, error) {
	if n := pieceCount(fen); n > c.maxPieces {
		return nil, fmt.Errorf("%w: %d pieces, tablebase covers up to %d", ErrOutOfScope, n, c.maxPieces)
	}

	var resp *RawResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.lookupOnce(ctx, fen)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.MaxAttempts),
		retry.RetryIf(Retryable),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			return c.policy.Delay(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Uint("attempt", n).Err(err).Msg("tablebase lookup retrying")
		}),
	)
	if err != nil {
		if !Retryable(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// lookupOnce performs exactly one network attempt.
func (c *Client) lookupOnce(ctx context.Context, fen string) (*RawResponse, error) {
	if c.onAttempt != nil {
		c.onAttempt()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/standard?fen=" + url.QueryEscape(fen)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tablebase request failed: %w", err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusOK:
		// fall through to decoding
	case httpResp.StatusCode == http.StatusBadRequest,
		httpResp.StatusCode == http.StatusNotFound:
		// The service rejects positions it cannot answer with a 4xx;
		// asking again will not change its mind.
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrOutOfScope, httpResp.StatusCode, strings.TrimSpace(string(body)))
	default:
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	raw := &RawResponse{}
	if err := json.Unmarshal(body, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return raw, nil
}

// pieceCount counts the men on the board from the FEN's placement field.
func pieceCount(fen string) int {
	board, _, _ := strings.Cut(fen, " ")
	n := 0
	for _, r := range board {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			n++
		}
	}
	return n
}
