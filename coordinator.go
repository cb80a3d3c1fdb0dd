package deltastep

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// tracer is resolved lazily against whatever global TracerProvider is
// installed; with none installed (the default), every span is a no-op, so
// the coordinator pays nothing for tracing unless telemetry.Init wired a
// real exporter (see the telemetry subpackage).
var tracer = otel.Tracer("github.com/mfreeman451/deltastep")

// coordinator runs the outer bucket-selection loop and performs every
// commit; it is the sole writer of vertex distance/predecessor state and
// of bucket membership outside a worker's own column (§4.4, §5).
type coordinator struct {
	ctx     context.Context
	graph   *Graph
	w       int
	delta   Dist
	buckets *BucketArray
	shadow  []Dist
	inboxes []*inbox
	workers []*worker
	sig     *Signal
	obs     Observer

	cursor        int // raw, monotone bucket scan position
	currentBucket int
	continueInner bool
	sentinel      bool

	// location tracks, per vertex, the bucket cell it currently occupies,
	// so commitOne can evict it from there before inserting it into a new
	// cell (§3 invariant (a): a vertex occupies at most one cell).
	location []vertexLocation
}

// vertexLocation is the (bucket, worker) coordinate of a vertex's current
// bucket-array cell. present is false for a vertex that has never been
// inserted (or whose last insertion has already been evicted by
// commitLight's settled-vertex removal).
type vertexLocation struct {
	bucket  int
	worker  int
	present bool
}

// SolveParallel runs the bucket-based delta-stepping solver (§4.4) on g
// from vertex 0 using workerCount worker goroutines and the delta
// parameters derived from meanDegree (§3: Δ = MaxCoord/D, NB = 2·D).
// Either sig or obs may be nil. SolveParallel returns the same distance
// vector Solve would for the same graph and every workerCount (§8
// Equivalence property).
//
// ctx bounds the solve's root tracing span (see the telemetry
// subpackage); a nil ctx is treated as context.Background().
func SolveParallel(ctx context.Context, g *Graph, workerCount int, meanDegree int, sig *Signal, obs Observer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if workerCount <= 0 {
		return fmt.Errorf("deltastep: workerCount=%d: %w", workerCount, ErrInvalidParams)
	}
	if meanDegree <= 0 {
		return fmt.Errorf("deltastep: meanDegree=%d: %w", meanDegree, ErrInvalidParams)
	}
	if obs == nil {
		obs = noopObserver{}
	}

	g.Reset()
	if g.N() == 0 {
		return nil
	}

	delta := Dist(MaxCoord / meanDegree)
	if delta < 1 {
		delta = 1
	}
	nb := 2 * meanDegree
	if nb < 1 {
		nb = 1
	}

	buckets := NewBucketArray(nb, workerCount)
	shadow := make([]Dist, g.N())
	for i := range shadow {
		shadow[i] = InfDist
	}
	if g.N() > 0 {
		shadow[0] = 0
	}

	inboxes := make([]*inbox, workerCount)
	for t := range inboxes {
		inboxes[t] = &inbox{}
	}

	workers := make([]*worker, workerCount)
	for t := 0; t < workerCount; t++ {
		workers[t] = newWorker(t, workerCount, g, delta, buckets, shadow, inboxes, sig)
	}

	buckets.Insert(0, 0, 0%workerCount)

	location := make([]vertexLocation, g.N())
	location[0] = vertexLocation{bucket: 0, worker: 0 % workerCount, present: true}

	ctx, span := tracer.Start(ctx, "deltastep.solve_parallel",
		trace.WithAttributes(
			attribute.Int("workers", workerCount),
			attribute.Int("mean_degree", meanDegree),
			attribute.Int("vertices", g.N()),
		))
	defer span.End()

	c := &coordinator{
		ctx:      ctx,
		graph:    g,
		w:        workerCount,
		delta:    delta,
		buckets:  buckets,
		shadow:   shadow,
		inboxes:  inboxes,
		workers:  workers,
		sig:      sig,
		obs:      obs,
		location: location,
	}

	br := newBarrier(workerCount + 1)

	eg, _ := errgroup.WithContext(context.Background())
	for t := 0; t < workerCount; t++ {
		t := t
		eg.Go(func() error { return c.workerLoop(workers[t], br) })
	}
	eg.Go(func() error { return c.run(br) })

	return eg.Wait()
}

// run is the coordinator's own barrier participant (§4.4 outer loop).
func (c *coordinator) run(br *barrier) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deltastep: coordinator panic: %v", r)
			br.Break(err)
		}
	}()

	for {
		if err = checkSignal(c.sig); err != nil {
			br.Break(err)
			return err
		}

		b, ok := c.buckets.NextNonEmptyFrom(c.cursor)
		if !ok {
			c.sentinel = true
			return br.Await() // final barrier: workers observe termination
		}

		c.cursor = b
		c.currentBucket = b

		if err = c.runBucket(b, br); err != nil {
			return err
		}
	}
}

// runBucket drives one outer-loop iteration for bucket b: the release
// into it, the light-edge phase (possibly repeated while re-insertions
// keep it nonempty), and the single heavy-edge pass, each step bracketed
// by its barrier rendezvous (§4.4 steps 2-4f). It is wrapped in its own
// span so a bucket phase is the unit of observability the telemetry
// subpackage documents.
func (c *coordinator) runBucket(b int, br *barrier) (err error) {
	_, span := tracer.Start(c.ctx, "deltastep.bucket_phase",
		trace.WithAttributes(attribute.Int("bucket.index", b), attribute.Int("bucket.workers", c.w)))
	defer span.End()

	if err = br.Await(); err != nil { // step 2: release into bucket b
		return err
	}

	for {
		if err = br.Await(); err != nil { // 3b: relaxations collected
			return err
		}
		if err = br.Await(); err != nil { // 3d: messages drained
			return err
		}

		nonempty, cerr := c.commitLight(b)
		if cerr != nil {
			br.Break(cerr)
			return cerr
		}
		c.continueInner = nonempty

		if err = br.Await(); err != nil { // 3f
			return err
		}
		if !nonempty {
			break
		}
	}

	if err = br.Await(); err != nil { // 4b
		return err
	}
	if err = br.Await(); err != nil { // 4d
		return err
	}
	if cerr := c.commitHeavy(b); cerr != nil {
		br.Break(cerr)
		return cerr
	}
	if err = br.Await(); err != nil { // 4f: proceed to top of outer loop
		return err
	}
	return nil
}

// workerLoop is one worker's barrier participant, mirroring run's
// sequence of rendezvous exactly (§4.4).
func (c *coordinator) workerLoop(w *worker, br *barrier) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deltastep: worker %d panic: %v", w.id, r)
			br.Break(err)
		}
	}()

	for {
		if err = br.Await(); err != nil {
			return err
		}
		if c.sentinel {
			return nil
		}
		b := c.currentBucket

		for {
			if perr := w.processLight(b); perr != nil {
				err = perr
				br.Break(err)
				return err
			}
			if err = br.Await(); err != nil { // 3b
				return err
			}
			w.drainInbox()
			if err = br.Await(); err != nil { // 3d
				return err
			}
			if err = br.Await(); err != nil { // 3f
				return err
			}
			if !c.continueInner {
				break
			}
		}

		if perr := w.processHeavy(b); perr != nil {
			err = perr
			br.Break(err)
			return err
		}
		if err = br.Await(); err != nil { // 4b
			return err
		}
		w.drainInbox()
		if err = br.Await(); err != nil { // 4d
			return err
		}
		if err = br.Await(); err != nil { // 4f
			return err
		}
	}
}

// commitLight applies step 3e: remove every worker's settled vertices from
// bucket b, then apply every collected update that still improves its
// target's shadow distance. Returns whether bucket b holds any vertex
// afterward (re-insertions during this same bucket sweep).
func (c *coordinator) commitLight(b int) (bool, error) {
	for t, w := range c.workers {
		for _, id := range w.removals {
			c.buckets.Remove(id, b, t)
			c.location[id].present = false
		}
	}
	if err := c.applyUpdates(); err != nil {
		return false, err
	}
	return !c.buckets.ColumnEmpty(b), nil
}

// commitHeavy applies step 4e: apply every collected heavy-edge update.
// No removals: bucket b is already empty by the time the heavy phase runs.
func (c *coordinator) commitHeavy(_ int) error {
	return c.applyUpdates()
}

func (c *coordinator) applyUpdates() error {
	for _, w := range c.workers {
		for _, m := range w.localUpdates {
			if m.proposedDist >= c.shadow[m.target] {
				continue // no longer improves: monotone-decrease invariant
			}
			if err := c.commitOne(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// commitOne applies a single relaxation: updates the target vertex's
// dist/predecessor and the shadow array, fires observer hooks, evicts the
// target from whatever cell it currently occupies, and inserts it into its
// new bucket cell (§4.4 step e, §4.5, §3 invariant (a)).
func (c *coordinator) commitOne(m message) error {
	if m.targetBucket < c.currentBucket || m.targetBucket-c.currentBucket >= c.buckets.NB {
		return fmt.Errorf("deltastep: target bucket %d unreachable from current bucket %d (NB=%d): %w",
			m.targetBucket, c.currentBucket, c.buckets.NB, ErrInvariantViolation)
	}

	v := c.graph.Vertex(m.target)
	old := v.predecessor

	v.dist = m.proposedDist
	v.predecessor = m.edge
	c.shadow[m.target] = m.proposedDist

	if old != nil && old != m.edge {
		notifyUnselect(c.obs, c.graph, old)
	}
	notifySelect(c.obs, c.graph, m.edge, m.proposedDist)

	if loc := c.location[m.target]; loc.present {
		c.buckets.Remove(m.target, loc.bucket, loc.worker)
	}
	c.buckets.Insert(m.target, m.targetBucket, m.targetWorker)
	c.location[m.target] = vertexLocation{bucket: m.targetBucket, worker: m.targetWorker, present: true}
	return nil
}
