package tablebase

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LookupFunc is the signature the coalescer wraps; *Client.Lookup satisfies
// it.
type LookupFunc func(ctx context.Context, fen string) (*RawResponse, error)

// Coalescer collapses concurrent lookups for the same position into a single
// underlying call. At most one Lookup is outstanding per distinct key at any
// instant; every waiter gets the same result, success or failure, and the
// key is released as soon as the call settles.
type Coalescer struct {
	group  singleflight.Group
	lookup LookupFunc
}

// NewCoalescer wraps lookup. Safe for concurrent use by any number of
// sessions.
func NewCoalescer(lookup LookupFunc) *Coalescer {
	return &Coalescer{lookup: lookup}
}

// Get returns the lookup result for fen, joining an in-flight request for
// the same key if one exists. The context of the caller that initiated the
// in-flight call governs its timeout; later joiners share its fate.
func (co *Coalescer) Get(ctx context.Context, fen string) (*RawResponse, error) {
	v, err, _ := co.group.Do(fen, func() (interface{}, error) {
		return co.lookup(ctx, fen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RawResponse), nil
}
