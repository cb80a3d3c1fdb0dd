package deltastep

import "container/heap"

// refItem is one entry in the reference solver's priority queue: a vertex
// paired with the tentative distance it was enqueued with. Stale entries
// (whose snapshot no longer matches the vertex's live distance) are
// skipped on pop rather than fixed in place — see §9's design note on
// decrease-key by reinsertion.
type refItem struct {
	id   VertexID
	dist Dist
}

type refHeap []refItem

func (h refHeap) Len() int            { return len(h) }
func (h refHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h refHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *refHeap) Push(x interface{}) { *h = append(*h, x.(refItem)) }
func (h *refHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Solve runs the sequential priority-queue reference solver (§4.2) on g
// from vertex 0, honoring sig's pause/cancel hooks and reporting
// selections to obs. Either may be nil.
//
// Solve is the oracle every parallel run is checked against: for every
// random seed and every worker count, SolveParallel must produce the same
// distance vector Solve does (§8 Equivalence property).
func Solve(g *Graph, sig *Signal, obs Observer) error {
	if obs == nil {
		obs = noopObserver{}
	}
	g.Reset()

	pq := &refHeap{{id: 0, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		if err := checkSignal(sig); err != nil {
			return err
		}

		item := heap.Pop(pq).(refItem)
		v := g.Vertex(item.id)
		if item.dist != v.dist {
			continue // stale entry left behind by a decrease-key reinsertion
		}

		if v.predecessor != nil {
			notifySelect(obs, g, v.predecessor, v.dist)
		}

		for _, e := range v.adj {
			o := g.Vertex(e.Other(v.ID))
			alt := v.dist + e.Weight
			if alt < o.dist {
				o.dist = alt
				o.predecessor = e
				heap.Push(pq, refItem{id: o.ID, dist: alt})
			}
		}
	}

	return nil
}

// Distances collects the current distance of every vertex into a dense
// slice indexed by VertexID, the output shape §2's "results (distance
// array)" describes.
func Distances(g *Graph) []Dist {
	out := make([]Dist, g.N())
	for i, v := range g.vertices {
		out[i] = v.dist
	}
	return out
}

func notifySelect(obs Observer, g *Graph, e *Edge, newDist Dist) {
	a, b := g.Vertex(e.A), g.Vertex(e.B)
	e.Selected = true
	obs.EdgeSelected(e, a.X, a.Y, b.X, b.Y, newDist)
}

func notifyUnselect(obs Observer, g *Graph, e *Edge) {
	a, b := g.Vertex(e.A), g.Vertex(e.B)
	e.Selected = false
	obs.EdgeUnselected(e, a.X, a.Y, b.X, b.Y)
}
