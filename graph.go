// Package deltastep implements single-source shortest paths over a
// synthetically generated, weighted, undirected geometric graph.
//
// Two solvers are provided: Solve, a sequential priority-queue reference
// solver, and SolveParallel, a bucket-based delta-stepping solver driven
// by a pool of worker goroutines synchronized through a cyclic barrier.
// Both compute, for every vertex, the minimum-weight path distance from
// vertex 0.
package deltastep

// MaxCoord bounds every generated vertex coordinate to [0, MaxCoord).
const MaxCoord = 1 << 28

// VertexID is a stable integer identity in [0, N).
type VertexID int

// Dist is a tentative or final path distance. InfDist represents
// unreachability.
type Dist int64

// InfDist is the sentinel "unreached" distance — the maximum representable
// Dist, per §3 ("∞ = maximum 64-bit value").
const InfDist Dist = 1<<63 - 1

// Vertex is one node of the graph: a stable id, immutable planar
// coordinates, and mutable solve-time state (dist, predecessor).
type Vertex struct {
	ID   VertexID
	X, Y int

	dist        Dist
	predecessor *Edge
	adj         []*Edge
}

// Dist returns the vertex's current tentative or final distance.
func (v *Vertex) Dist() Dist { return v.dist }

// Predecessor returns the edge on the shortest-path tree leading to v, or
// nil if v is the source or unreached.
func (v *Vertex) Predecessor() *Edge { return v.predecessor }

// Adjacency returns v's incident edges. The slice must not be mutated by
// callers; it is shared, read-only state during a solve (§5).
func (v *Vertex) Adjacency() []*Edge { return v.adj }

// hash is the tie-break key used by the generator to decide which
// endpoint originates an edge (§4.1): hash(v) = v.x XOR v.y.
func (v *Vertex) hash() int { return v.X ^ v.Y }

// Edge is an undirected, positively-weighted connection between two
// vertices. Selected is mutated only by observer hooks at relaxation
// commit points (§3).
type Edge struct {
	A, B     VertexID
	Weight   Dist
	Selected bool
}

// Other returns the endpoint of e that is not from.
func (e *Edge) Other(from VertexID) VertexID {
	if e.A == from {
		return e.B
	}
	return e.A
}

// Graph is an immutable-during-solve, dense-indexed (0..N-1) undirected
// weighted graph.
type Graph struct {
	vertices []*Vertex
	edges    []*Edge
}

// N returns the vertex count.
func (g *Graph) N() int { return len(g.vertices) }

// Vertex returns the vertex with the given id. Panics if out of range,
// mirroring slice-index semantics — callers are expected to only ever
// pass ids in [0, N).
func (g *Graph) Vertex(id VertexID) *Vertex { return g.vertices[id] }

// Edges returns every edge in the graph, in generation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// newGraph allocates a graph with n unpositioned vertices and no edges.
// Used by both the generator and hand-built test fixtures.
func newGraph(n int) *Graph {
	g := &Graph{vertices: make([]*Vertex, n)}
	for i := 0; i < n; i++ {
		g.vertices[i] = &Vertex{ID: VertexID(i)}
	}
	return g
}

// addEdge appends an edge to both endpoints' adjacency lists and to the
// graph's edge list. It does not check for self-loops or parallel edges —
// callers (the generator, or hand-built fixtures) are responsible for that
// per the invariants in §3.
func (g *Graph) addEdge(a, b VertexID, w Dist) *Edge {
	e := &Edge{A: a, B: b, Weight: w}
	g.edges = append(g.edges, e)
	g.vertices[a].adj = append(g.vertices[a].adj, e)
	g.vertices[b].adj = append(g.vertices[b].adj, e)
	return e
}

// Reset restores every vertex to its initial solve-time state: distance
// infinite and no predecessor, except the source (vertex 0), which starts
// at distance zero (§3 Lifecycle).
func (g *Graph) Reset() {
	for _, v := range g.vertices {
		v.dist = InfDist
		v.predecessor = nil
	}
	if len(g.vertices) > 0 {
		g.vertices[0].dist = 0
	}
}
