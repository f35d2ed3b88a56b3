package segment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/AltairaLabs/BackdropKit/media"
)

// Pool bounds the number of segmentation calls running at once. Inference may
// be CPU-bound for tens of milliseconds per frame; without a bound, a burst of
// frames across many connections would run one inference per connection
// simultaneously and starve the dispatch loops.
type Pool struct {
	inner Segmenter
	sem   *semaphore.Weighted
}

// NewPool wraps a Segmenter with a concurrency limit. A limit of 0 or less
// defaults to GOMAXPROCS.
func NewPool(inner Segmenter, limit int) *Pool {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		inner: inner,
		sem:   semaphore.NewWeighted(int64(limit)),
	}
}

// Segment acquires a slot and delegates to the wrapped segmenter. Waiting for
// a slot respects context cancellation, so a disconnecting session stops
// queuing promptly.
func (p *Pool) Segment(ctx context.Context, frame *media.Frame) (*Mask, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("segmentation canceled while queued: %w", err)
	}
	defer p.sem.Release(1)

	return p.inner.Segment(ctx, frame)
}
