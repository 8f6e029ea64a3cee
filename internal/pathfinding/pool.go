package pathfinding

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

// Resetter is a reusable worker.
type Resetter interface {
	Reset()
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	Created int // workers built by the factory
	Reused  int // Get calls served from the idle stack
	Idle    int // workers waiting in the pool
}

// Pool keeps idle workers on a stack. The lock guards only the stack; a
// worker checked out with Get belongs to the caller until Return.
type Pool[W Resetter] struct {
	mu       deadlock.Mutex
	idle     []W
	newFn    func() W
	capacity int
	created  int
	reused   int
}

// NewPool returns a pool that builds workers with newFn and keeps at most
// capacity idle ones (capacity <= 0: unbounded).
func NewPool[W Resetter](capacity int, newFn func() W) *Pool[W] {
	return &Pool[W]{newFn: newFn, capacity: capacity}
}

// Get checks a worker out, building one when the pool is empty.
func (p *Pool[W]) Get() W {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		w := p.idle[n-1]
		var zero W
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
		p.reused++
		p.mu.Unlock()
		return w
	}
	p.created++
	p.mu.Unlock()
	return p.newFn()
}

// Return resets w and keeps it unless the pool is full.
func (p *Pool[W]) Return(w W) {
	w.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.capacity > 0 && len(p.idle) >= p.capacity {
		return
	}
	p.idle = append(p.idle, w)
}

// Stats returns the current counters.
func (p *Pool[W]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{Created: p.created, Reused: p.reused, Idle: len(p.idle)}
}

// StepBufferPool is a pool of reusable path buffers.
type StepBufferPool struct {
	pool sync.Pool
}

// NewStepBufferPool creates a pool whose new buffers hold defaultCap steps.
func NewStepBufferPool(defaultCap int) *StepBufferPool {
	p := &StepBufferPool{}
	p.pool.New = func() any {
		s := make([]Step, 0, defaultCap)
		return &s
	}
	return p
}

// Get returns an empty buffer.
func (p *StepBufferPool) Get() []Step {
	s := p.pool.Get().(*[]Step)
	return (*s)[:0]
}

// Put returns the buffer to the pool for reuse.
func (p *StepBufferPool) Put(buf []Step) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}
