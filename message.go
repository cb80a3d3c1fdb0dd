package deltastep

import "sync"

// message is a single-use, addressed relaxation intent (§3 Message):
// relax target via edge to proposedDist, landing in targetBucket, owned
// by targetWorker.
type message struct {
	edge         *Edge
	target       VertexID
	proposedDist Dist
	targetWorker int
	targetBucket int
}

// inbox is a worker's inbound message queue: many producers (any other
// worker relaxing a cross-partition edge), one consumer (the owning
// worker, during its own drain step). Enqueue never blocks the sender.
//
// The spec calls this queue "lock-free"; no lock-free MPSC queue appears
// anywhere in the retrieval pack, so this is a mutex-guarded slice instead
// — functionally non-blocking (Push never waits on the consumer) even
// though it is not wait-free under contention.
type inbox struct {
	mu   sync.Mutex
	msgs []message
}

// push enqueues a message. Safe for concurrent use by any number of
// producers.
func (b *inbox) push(m message) {
	b.mu.Lock()
	b.msgs = append(b.msgs, m)
	b.mu.Unlock()
}

// drain removes and returns every currently queued message. Only the
// owning worker calls this, and only between barrier rendezvous where no
// producer is concurrently pushing (§4.4 steps 3c/4c).
func (b *inbox) drain() []message {
	b.mu.Lock()
	out := b.msgs
	b.msgs = nil
	b.mu.Unlock()
	return out
}
