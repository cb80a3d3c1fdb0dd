package deltastep

import (
	"fmt"
	"math"
	"math/rand"
)

// GeneratorParams controls the deterministic geometric graph construction
// described in §4.1.
type GeneratorParams struct {
	N     int     // vertex count
	Seed  int64   // PRNG seed
	D     float64 // target mean degree
	Gamma float64 // geometric realism weight blend, in [0,1]
}

// validate checks the parameter domain, returning ErrInvalidParams wrapped
// with the offending field on failure.
func (p GeneratorParams) validate() error {
	if p.N <= 0 {
		return fmt.Errorf("generator: N=%d: %w", p.N, ErrInvalidParams)
	}
	if p.D <= 0 {
		return fmt.Errorf("generator: D=%g: %w", p.D, ErrInvalidParams)
	}
	if p.Gamma < 0 || p.Gamma > 1 {
		return fmt.Errorf("generator: gamma=%g not in [0,1]: %w", p.Gamma, ErrInvalidParams)
	}
	return nil
}

// maxRejectionAttempts bounds the rejection-sampling loop for duplicate
// coordinates; exceeding it surfaces ErrDuplicateCoordinate rather than
// looping forever, per §7's "internal invariant violation" taxonomy.
const maxRejectionAttempts = 1 << 20

// Generate builds a reproducible undirected weighted graph from
// (N, seed, D, gamma), following the grid-tiling + rejection-sampling +
// neighborhood-admission algorithm of §4.1.
func Generate(p GeneratorParams) (*Graph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	g := newGraph(p.N)

	k := gridDimension(p.N, p.D)
	sw := ceilDiv(MaxCoord, k)

	grid := make([][][]VertexID, k)
	for i := range grid {
		grid[i] = make([][]VertexID, k)
	}

	occupied := make(map[[2]int]struct{}, p.N)
	cellOf := make([][2]int, p.N)

	// Step 3: place every vertex via rejection-sampled coordinates, in
	// ascending vertex-id order — this is the first stable segment of the
	// PRNG draw sequence (§4.1 closing paragraph).
	for id := 0; id < p.N; id++ {
		var x, y int
		placed := false
		for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
			x = rng.Intn(MaxCoord)
			y = rng.Intn(MaxCoord)
			if _, dup := occupied[[2]int{x, y}]; !dup {
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("generator: vertex %d: %w", id, ErrDuplicateCoordinate)
		}
		occupied[[2]int{x, y}] = struct{}{}

		v := g.vertices[id]
		v.X, v.Y = x, y

		cx, cy := x/sw, y/sw
		if cx >= k {
			cx = k - 1
		}
		if cy >= k {
			cy = k - 1
		}
		grid[cx][cy] = append(grid[cx][cy], v.ID)
		cellOf[id] = [2]int{cx, cy}
	}

	// Step 4: for every vertex, examine its 3x3 grid neighborhood and admit
	// candidate edges. This is the second stable segment of the PRNG draw
	// sequence, in ascending vertex-id order, neighborhood cells visited in
	// row-major order, candidates visited in per-cell insertion order.
	for id := 0; id < p.N; id++ {
		v := g.vertices[id]
		cx, cy := cellOf[id][0], cellOf[id][1]

		xlo, xhi := neighborhoodRange(cx, k)
		ylo, yhi := neighborhoodRange(cy, k)

		for nx := xlo; nx <= xhi; nx++ {
			for ny := ylo; ny <= yhi; ny++ {
				for _, uid := range grid[nx][ny] {
					if uid == v.ID {
						continue
					}
					u := g.vertices[uid]
					if !(v.hash() < u.hash()) {
						continue
					}

					// Admission draw: accept with probability 1/4.
					if rng.Intn(4) != 0 {
						continue
					}

					// Weight draw: blend geometric distance with a
					// uniform random component per gamma.
					r := rng.Intn(2 * MaxCoord)
					w := p.Gamma*euclidean(v, u) + (1-p.Gamma)*float64(r)
					g.addEdge(v.ID, u.ID, Dist(math.Floor(w)))
				}
			}
		}
	}

	return g, nil
}

// gridDimension computes k = floor((3/2) * sqrt(N/D)), clamped to at
// least 1.
func gridDimension(n int, d float64) int {
	k := int(1.5 * math.Sqrt(float64(n)/d))
	if k < 1 {
		k = 1
	}
	return k
}

// ceilDiv computes ceil(a/b) for positive integers.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// neighborhoodRange applies the boundary-clipping policy of §4.1 step 4:
// at 0 use [0,2], at k-1 use [k-3,k-1], else [b-1,b+1]. For k < 3 the
// whole axis is the neighborhood.
func neighborhoodRange(b, k int) (int, int) {
	if k <= 3 {
		return 0, k - 1
	}
	switch b {
	case 0:
		return 0, 2
	case k - 1:
		return k - 3, k - 1
	default:
		return b - 1, b + 1
	}
}

// euclidean returns the planar distance between two vertices' coordinates.
func euclidean(a, b *Vertex) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
