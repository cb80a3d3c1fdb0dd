package deltastep

import "errors"

// Sentinel errors returned by this package. See §7 of the design for the
// taxonomy each maps onto.
var (
	// ErrInvalidParams indicates a generator or solver parameter is out of
	// its documented domain (N <= 0, D <= 0, γ outside [0,1], W <= 0, ...).
	ErrInvalidParams = errors.New("deltastep: invalid parameter")

	// ErrDuplicateCoordinate indicates the generator's rejection sampling
	// could not find a free coordinate (practically unreachable below
	// MAX_COORD, but the contract is explicit per §3's uniqueness invariant).
	ErrDuplicateCoordinate = errors.New("deltastep: coordinate space exhausted")

	// ErrCancelled indicates a solve unwound because its Signal was cancelled.
	ErrCancelled = errors.New("deltastep: solve cancelled")

	// ErrBarrierBroken is an error a barrier can be broken with to report
	// that a participant died before arriving at a rendezvous. The solvers
	// do not return it: when a worker or the coordinator fails, it breaks
	// the barrier with its own error (a panic error, ErrCancelled, or a
	// wrapped ErrInvariantViolation), and every other participant is
	// released with that error so the solve can unwind without
	// deadlocking.
	ErrBarrierBroken = errors.New("deltastep: barrier broken by peer failure")

	// ErrInvariantViolation indicates a bucket-ownership or distance
	// invariant was violated — see §7 "internal invariant violation".
	ErrInvariantViolation = errors.New("deltastep: internal invariant violated")
)
