package mesh

import (
	"context"
	"sync"
)

// FrameResources is how many frames the CPU may record ahead of the GPU.
const FrameResources = 3

// Fence tracks how far the consumer of submitted frames has progressed.
type Fence interface {
	Completed() uint64
	Wait(ctx context.Context, value uint64) error
}

// FrameResource holds the vertex copy for one in-flight frame.
type FrameResource struct {
	Vertices []Vertex
	// Fence is the value that marks this frame as consumed; zero means the
	// resource was never submitted.
	Fence uint64
}

// FrameRing cycles a fixed set of frame resources.
type FrameRing struct {
	frames []*FrameResource
	cur    int
}

// NewFrameRing allocates n frame resources sized for vertexCount vertices.
func NewFrameRing(n, vertexCount int) *FrameRing {
	if n < 1 {
		n = 1
	}
	r := &FrameRing{frames: make([]*FrameResource, n), cur: n - 1}
	for i := range r.frames {
		r.frames[i] = &FrameResource{Vertices: make([]Vertex, vertexCount)}
	}
	return r
}

// Len returns the number of frame resources in the ring.
func (r *FrameRing) Len() int { return len(r.frames) }

// Index returns the position of the current frame resource.
func (r *FrameRing) Index() int { return r.cur }

// Current returns the most recently acquired frame resource.
func (r *FrameRing) Current() *FrameResource { return r.frames[r.cur] }

// Acquire moves to the next frame resource, blocking until fence reports the
// frame that last used it as complete.
func (r *FrameRing) Acquire(ctx context.Context, fence Fence) (*FrameResource, error) {
	next := (r.cur + 1) % len(r.frames)
	fr := r.frames[next]
	if fr.Fence != 0 && fence.Completed() < fr.Fence {
		if err := fence.Wait(ctx, fr.Fence); err != nil {
			return nil, err
		}
	}
	r.cur = next
	return fr, nil
}

// Submit stamps the current frame resource with the fence value that will
// mark it consumed.
func (r *FrameRing) Submit(value uint64) {
	r.frames[r.cur].Fence = value
}

// CounterFence is a CPU-side Fence driven by explicit Signal calls.
type CounterFence struct {
	mu        sync.Mutex
	issued    uint64
	completed uint64
	changed   chan struct{}
}

// NewCounterFence returns a fence with nothing issued or completed.
func NewCounterFence() *CounterFence {
	return &CounterFence{changed: make(chan struct{})}
}

// Next issues a new fence value.
func (f *CounterFence) Next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return f.issued
}

// Signal marks every value up to v as complete.
func (f *CounterFence) Signal(v uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v <= f.completed {
		return
	}
	f.completed = v
	close(f.changed)
	f.changed = make(chan struct{})
}

// Completed returns the highest signalled value.
func (f *CounterFence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Wait blocks until value is signalled or ctx is done.
func (f *CounterFence) Wait(ctx context.Context, value uint64) error {
	for {
		f.mu.Lock()
		if f.completed >= value {
			f.mu.Unlock()
			return nil
		}
		ch := f.changed
		f.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}
