package deltastep

// Observer receives synchronous callbacks at relaxation commit points
// (§4.5). Implementations may drive animation or logging; the solver
// never assumes the hooks return quickly, but also never exposes
// partially-committed bucket state to them — a hook only ever sees an
// edge that has already been committed.
type Observer interface {
	// EdgeSelected is invoked when e becomes (part of) some vertex's
	// shortest-path predecessor, with that vertex's newly committed
	// distance.
	EdgeSelected(e *Edge, x1, y1, x2, y2 int, newDist Dist)

	// EdgeUnselected is invoked when e stops being a predecessor edge
	// because the vertex it led to was re-routed through a shorter path.
	EdgeUnselected(e *Edge, x1, y1, x2, y2 int)
}

// noopObserver discards every callback; used whenever a solve is run
// without an Observer so solver code never needs a nil check.
type noopObserver struct{}

func (noopObserver) EdgeSelected(*Edge, int, int, int, int, Dist) {}
func (noopObserver) EdgeUnselected(*Edge, int, int, int, int)     {}
