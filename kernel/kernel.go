// Package kernel implements the pairwise interaction kernels of §4.1:
// pure functions that map one (affected, affecting) pair to a
// contribution vector. Kernels are stateless except for their own
// parameters (e.g. softening epsilon) and never fail; NaN/Inf inputs
// propagate, they are not diagnosed (spec §4.6/§7).
package kernel

import "github.com/cwbudde/nbodyforce/vecmath"

// ID names a built-in kernel. The GPU backend dispatches on ID rather
// than on an open interface, because its shader code is specialised
// per kernel and a closed sum type keeps that dispatch a switch
// instead of runtime reflection. The SIMD backend does not use ID; it
// calls EvalChecked on each lane.
type ID int

const (
	Newtonian ID = iota
	SoftenedNewtonian
)

func (id ID) String() string {
	switch id {
	case Newtonian:
		return "newtonian"
	case SoftenedNewtonian:
		return "softened-newtonian"
	default:
		return "unknown"
	}
}

// Kernel is the contract every algorithm (brute-force, SIMD,
// Barnes-Hut) evaluates against. EvalChecked is the checked variant:
// it branches on n²==0 and returns the zero vector, which is safe to
// call even when affected and affecting may coincide.
type Kernel[S vecmath.Scalar, V vecmath.Vector[S, V]] interface {
	EvalChecked(affectedPos, affectingPos V, affectingMass S) V
	ID() ID
}
