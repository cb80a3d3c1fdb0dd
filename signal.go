package deltastep

import (
	"context"
	"sync"
)

// Signal is the cooperative suspend/cancel hook every solver component
// consumes at observable points (§5, §6). A nil *Signal never pauses and
// never cancels; a usable Signal is obtained from NewSignal.
//
// Register/Unregister let an external collaborator (the CLI, a UI event
// loop) track how many components are currently honoring the signal —
// neither is required for correctness, but both are part of the §6
// coordination interface contract.
type Signal struct {
	mu        sync.Mutex
	cond      *sync.Cond
	paused    bool
	cancelled bool
	ctx       context.Context
	cancel    context.CancelFunc
	observers int
}

// NewSignal returns a ready-to-use Signal bound to ctx. A nil ctx is
// treated as context.Background().
func NewSignal(ctx context.Context) *Signal {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Signal{}
	s.cond = sync.NewCond(&s.mu)
	s.ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		<-s.ctx.Done()
		s.mu.Lock()
		s.cancelled = true
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	return s
}

// Register records that a component has begun honoring this signal.
func (s *Signal) Register() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.observers++
	s.mu.Unlock()
}

// Unregister records that a component has stopped honoring this signal.
func (s *Signal) Unregister() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.observers--
	s.mu.Unlock()
}

// Pause suspends every future CheckPauseOrCancel/Hesitate caller until
// Resume is called.
func (s *Signal) Pause() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume releases callers blocked in Hesitate/CheckPauseOrCancel.
func (s *Signal) Resume() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.paused = false
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Cancel raises the out-of-band cancellation condition. Every blocked or
// future Hesitate/CheckPauseOrCancel call returns ErrCancelled.
func (s *Signal) Cancel() {
	if s == nil {
		return
	}
	s.cancel()
	s.mu.Lock()
	s.cancelled = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Hesitate blocks while the signal is paused, and returns ErrCancelled if
// cancelled either before or while blocked.
func (s *Signal) Hesitate() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.cancelled {
		s.cond.Wait()
	}
	if s.cancelled {
		return ErrCancelled
	}
	return nil
}

// CheckPauseOrCancel is the non-blocking-when-possible hook consumed at
// every observable point in the solvers (§5): it blocks only if paused,
// and always returns promptly once resumed or cancelled.
func (s *Signal) CheckPauseOrCancel() error {
	return s.Hesitate()
}

// checkSignal is a nil-safe convenience wrapper used throughout the
// solvers, since a Signal is optional everywhere it's threaded through.
func checkSignal(s *Signal) error {
	if s == nil {
		return nil
	}
	return s.CheckPauseOrCancel()
}
