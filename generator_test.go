package deltastep

import "testing"

func TestGenerateIsDeterministic(t *testing.T) {
	params := GeneratorParams{N: 60, Seed: 7, D: 6, Gamma: 0.5}

	g1, err := Generate(params)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	g2, err := Generate(params)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(g1.Edges()) != len(g2.Edges()) {
		t.Fatalf("edge counts differ: %d vs %d", len(g1.Edges()), len(g2.Edges()))
	}
	for i := range g1.vertices {
		a, b := g1.vertices[i], g2.vertices[i]
		if a.X != b.X || a.Y != b.Y {
			t.Fatalf("vertex %d coordinates differ: (%d,%d) vs (%d,%d)", i, a.X, a.Y, b.X, b.Y)
		}
	}
	for i := range g1.edges {
		ea, eb := g1.edges[i], g2.edges[i]
		if ea.A != eb.A || ea.B != eb.B || ea.Weight != eb.Weight {
			t.Fatalf("edge %d differs: %+v vs %+v", i, ea, eb)
		}
	}
}

func TestGenerateDifferentSeedsDiverge(t *testing.T) {
	g1, err := Generate(GeneratorParams{N: 40, Seed: 1, D: 5, Gamma: 0.5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	g2, err := Generate(GeneratorParams{N: 40, Seed: 2, D: 5, Gamma: 0.5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	same := true
	for i := range g1.vertices {
		if g1.vertices[i].X != g2.vertices[i].X || g1.vertices[i].Y != g2.vertices[i].Y {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("graphs from different seeds produced identical coordinates")
	}
}

func TestGenerateNoDuplicateCoordinates(t *testing.T) {
	g, err := Generate(GeneratorParams{N: 200, Seed: 3, D: 6, Gamma: 1.0})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[[2]int]bool, g.N())
	for _, v := range g.vertices {
		key := [2]int{v.X, v.Y}
		if seen[key] {
			t.Fatalf("duplicate coordinate %v at vertex %d", key, v.ID)
		}
		seen[key] = true
	}
}

func TestGenerateNoSelfLoopsOrParallelEdges(t *testing.T) {
	g, err := Generate(GeneratorParams{N: 150, Seed: 11, D: 8, Gamma: 0.3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[[2]VertexID]bool, len(g.edges))
	for _, e := range g.edges {
		if e.A == e.B {
			t.Fatalf("self-loop at vertex %d", e.A)
		}
		key := [2]VertexID{e.A, e.B}
		if e.A > e.B {
			key = [2]VertexID{e.B, e.A}
		}
		if seen[key] {
			t.Fatalf("parallel edge between %d and %d", e.A, e.B)
		}
		seen[key] = true
	}
}

func TestGenerateSingleVertexHasNoEdges(t *testing.T) {
	g, err := Generate(GeneratorParams{N: 1, Seed: 0, D: 4, Gamma: 1.0})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.N() != 1 {
		t.Fatalf("N() = %d, want 1", g.N())
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("edges = %v, want none", g.Edges())
	}
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	cases := []GeneratorParams{
		{N: 0, Seed: 0, D: 4, Gamma: 0.5},
		{N: 10, Seed: 0, D: 0, Gamma: 0.5},
		{N: 10, Seed: 0, D: 4, Gamma: -0.1},
		{N: 10, Seed: 0, D: 4, Gamma: 1.1},
	}
	for _, p := range cases {
		if _, err := Generate(p); err == nil {
			t.Errorf("Generate(%+v) succeeded, want error", p)
		}
	}
}

func TestGridDimensionAndNeighborhoodRange(t *testing.T) {
	if k := gridDimension(1, 4); k < 1 {
		t.Fatalf("gridDimension(1,4) = %d, want >= 1", k)
	}

	lo, hi := neighborhoodRange(0, 10)
	if lo != 0 || hi != 2 {
		t.Errorf("neighborhoodRange(0,10) = (%d,%d), want (0,2)", lo, hi)
	}
	lo, hi = neighborhoodRange(9, 10)
	if lo != 7 || hi != 9 {
		t.Errorf("neighborhoodRange(9,10) = (%d,%d), want (7,9)", lo, hi)
	}
	lo, hi = neighborhoodRange(5, 10)
	if lo != 4 || hi != 6 {
		t.Errorf("neighborhoodRange(5,10) = (%d,%d), want (4,6)", lo, hi)
	}
	lo, hi = neighborhoodRange(1, 3)
	if lo != 0 || hi != 2 {
		t.Errorf("neighborhoodRange(1,3) = (%d,%d), want (0,2)", lo, hi)
	}
}

func TestGenerateGammaExtremesProduceValidGraphs(t *testing.T) {
	for _, gamma := range []float64{0, 1} {
		g, err := Generate(GeneratorParams{N: 80, Seed: 5, D: 6, Gamma: gamma})
		if err != nil {
			t.Fatalf("Generate(gamma=%v): %v", gamma, err)
		}
		for _, e := range g.edges {
			if e.Weight < 0 {
				t.Errorf("gamma=%v produced negative weight %d", gamma, e.Weight)
			}
		}
	}
}
