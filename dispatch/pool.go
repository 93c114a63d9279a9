package dispatch

// PoolWindow is the fixed pool-batching window width (spec §4.5).
const PoolWindow int64 = 30

// PoolBatcher accumulates resource arrivals into fixed-width [pool_start,
// pool_end) windows before the Matcher runs (spec §4.5).
type PoolBatcher struct {
	window    int64
	poolStart int64
	poolEnd   int64
	batch     []*Resource // resource_batch, in arrival order
}

// NewPoolBatcher creates a PoolBatcher with the given window width and
// initial offset (spec §4.5 "enumerated options: pool window length,
// initial pool offset").
func NewPoolBatcher(window, initialOffset int64) *PoolBatcher {
	return &PoolBatcher{
		window:    window,
		poolStart: initialOffset,
		poolEnd:   initialOffset + window,
	}
}

// InWindow reports whether t falls in [pool_start, pool_end).
func (p *PoolBatcher) InWindow(t int64) bool {
	return t >= p.poolStart && t < p.poolEnd
}

// Add appends a resource to the current pool buffer. Its BECOMES_AVAILABLE
// event is not re-enqueued (spec §4.5).
func (p *PoolBatcher) Add(r *Resource) {
	p.batch = append(p.batch, r)
}

// IsEmpty reports whether the current buffer has no resources.
func (p *PoolBatcher) IsEmpty() bool {
	return len(p.batch) == 0
}

// Close drains the buffer and slides the window forward by one window
// width. The returned slice is the closed pool's resources, in arrival
// order (spec §4.6 "R = resource_batch (ordered)").
//
// Per spec §9 open question 1, pool_end always advances by a flat window
// width from the *previous* pool_end, regardless of the time the closing
// event actually fired at — reproduced here deliberately, not "fixed".
func (p *PoolBatcher) Close() []*Resource {
	drained := p.batch
	p.batch = nil
	p.poolStart = p.poolEnd
	p.poolEnd = p.poolStart + p.window
	return drained
}
