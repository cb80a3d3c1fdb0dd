package deltastep

// worker owns one column of the bucket array (B[*][t]) and the vertices
// assigned to it by id % W (§3 Ownership, §4.4). Between barrier
// rendezvous it runs straight-line code reading the shared, immutable
// graph and the shadow distance array, and writing only its own
// thread-local buffers (§5).
type worker struct {
	id    int
	w     int
	graph *Graph
	delta Dist

	buckets *BucketArray
	shadow  []Dist // shared with the coordinator; read-only here
	inboxes []*inbox
	sig     *Signal

	removals     []VertexID
	localUpdates []message
	heavy        map[VertexID][]*Edge
}

func newWorker(id, w int, g *Graph, delta Dist, buckets *BucketArray, shadow []Dist, inboxes []*inbox, sig *Signal) *worker {
	return &worker{
		id:      id,
		w:       w,
		graph:   g,
		delta:   delta,
		buckets: buckets,
		shadow:  shadow,
		inboxes: inboxes,
		sig:     sig,
		heavy:   make(map[VertexID][]*Edge),
	}
}

// ownerOf returns which worker a vertex belongs to, per §3: id % W.
func (w *worker) ownerOf(id VertexID) int {
	return int(id) % w.w
}

// bucketOf returns the raw (unwrapped) bucket index a distance falls
// into: d / Δ. BucketArray normalizes mod NB wherever an index is used
// to address a cell; keeping the raw value here lets the coordinator
// assert the §9 "no relaxation jumps more than NB buckets ahead"
// invariant against a monotone scale instead of an already-wrapped one.
func (w *worker) bucketOf(d Dist) int {
	return int(d / w.delta)
}

// beginRound clears the accumulators a single light- or heavy-phase round
// fills (§4.4 3a/4a).
func (w *worker) beginRound() {
	w.removals = w.removals[:0]
	w.localUpdates = w.localUpdates[:0]
}

// relax computes whether edge e improves the shadow distance of its far
// endpoint, and if so appends a message to the correct destination: the
// worker's own localUpdates if self-directed, or the owning worker's
// inbox otherwise (§4.4 3a).
func (w *worker) relax(from VertexID, e *Edge, fromDist Dist) {
	to := e.Other(from)
	alt := fromDist + e.Weight
	if alt >= w.shadow[to] {
		return
	}

	owner := w.ownerOf(to)
	m := message{
		edge:         e,
		target:       to,
		proposedDist: alt,
		targetWorker: owner,
		targetBucket: w.bucketOf(alt),
	}
	if owner == w.id {
		w.localUpdates = append(w.localUpdates, m)
	} else {
		w.inboxes[owner].push(m)
	}
}

// processLight runs step 3a: classify every incident edge of every vertex
// currently in this worker's cell of bucket b as light or heavy, relaxing
// light edges immediately and remembering heavy ones for the later heavy
// phase, then records every visited vertex as a removal candidate.
func (w *worker) processLight(b int) error {
	if err := checkSignal(w.sig); err != nil {
		return err
	}
	w.beginRound()

	members := w.buckets.Cell(b, w.id).vertices()
	for _, id := range members {
		v := w.graph.Vertex(id)
		dist := w.shadow[id]
		for _, e := range v.adj {
			if e.Weight <= w.delta {
				w.relax(id, e, dist)
			} else {
				w.heavy[id] = append(w.heavy[id], e)
			}
		}
		w.removals = append(w.removals, id)
	}
	return nil
}

// drainInbox runs steps 3c/4c: drain every message waiting in this
// worker's inbox into localUpdates.
func (w *worker) drainInbox() {
	w.localUpdates = append(w.localUpdates, w.inboxes[w.id].drain()...)
}

// processHeavy runs step 4a: relax the heavy edges remembered for every
// vertex this worker settled while sweeping bucket b, then forgets them —
// heavy state must not survive into the next outer iteration (§9 open
// question 3).
func (w *worker) processHeavy(b int) error {
	if err := checkSignal(w.sig); err != nil {
		return err
	}
	w.localUpdates = w.localUpdates[:0]

	for id, edges := range w.heavy {
		dist := w.shadow[id]
		for _, e := range edges {
			w.relax(id, e, dist)
		}
		delete(w.heavy, id)
	}
	return nil
}
