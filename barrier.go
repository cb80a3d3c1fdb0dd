package deltastep

import "sync"

// barrier is a reusable cyclic barrier of fixed arity n (§4.4, §5): every
// participant calls Await, and none proceeds until all n have arrived.
// Once broken, every blocked and every future Await call returns the
// broken error immediately, so a dead participant can never deadlock the
// rest (§7 "barrier desynchronization").
//
// No barrier primitive exists anywhere in the retrieval pack — this is
// the textbook generation-counting shape built on sync.Mutex/sync.Cond,
// the standard Go idiom for a rendezvous point stdlib alone doesn't
// provide.
type barrier struct {
	mu        sync.Mutex
	cond      *sync.Cond
	n         int
	count     int
	gen       uint64
	broken    bool
	brokenErr error
}

// newBarrier returns a barrier that releases once n participants have
// called Await in the same generation.
func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Await blocks until every participant has called Await for the current
// generation, then returns nil. If the barrier is or becomes broken before
// that happens, Await returns the broken error instead.
func (b *barrier) Await() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return b.brokenErr
	}

	gen := b.gen
	b.count++
	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return nil
	}

	for b.gen == gen && !b.broken {
		b.cond.Wait()
	}
	if b.broken {
		return b.brokenErr
	}
	return nil
}

// Break puts the barrier into a permanently broken state, waking every
// participant currently blocked in Await. err is returned to every caller,
// past and future, until the solve that owns this barrier discards it.
func (b *barrier) Break(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return
	}
	b.broken = true
	b.brokenErr = err
	b.cond.Broadcast()
}
