package scanner

import "sync"

// Pauser provides a cooperative pause/resume gate for worker goroutines.
// When paused, calls to Wait() block until resumed. When not paused,
// Wait() is near-zero overhead (mutex lock + bool check + unlock).
type Pauser struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

// NewPauser creates a Pauser in the running (unpaused) state.
func NewPauser() *Pauser {
	p := &Pauser{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Wait blocks the calling goroutine while the run is paused.
// Returns immediately if not paused.
func (p *Pauser) Wait() {
	p.mu.Lock()
	for p.paused {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Toggle flips between paused and running states.
// Returns the new paused state (true = now paused).
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		p.cond.Broadcast()
	} else {
		p.paused = true
	}
	return p.paused
}

// IsPaused returns whether the run is currently paused.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}
