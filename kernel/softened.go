package kernel

import "github.com/cwbudde/nbodyforce/vecmath"

// SoftenedKernel computes Plummer-softened Newtonian acceleration:
// n2 := r.r + eps2, always nonzero when eps2 > 0, with contribution
// r * m_affecting * n2^(-3/2) unconditionally (no self-interaction
// branch needed, per spec §4.1).
type SoftenedKernel[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	EpsSquared S
}

func (SoftenedKernel[S, V]) ID() ID { return SoftenedNewtonian }

// EvalChecked is identical to EvalUnchecked for the softened kernel:
// the softening term makes n2 unconditionally nonzero whenever
// EpsSquared > 0, so there is nothing to branch on. Both methods exist
// to satisfy the same call sites as NewtonianKernel.
func (k SoftenedKernel[S, V]) EvalChecked(affectedPos, affectingPos V, affectingMass S) V {
	return k.EvalUnchecked(affectedPos, affectingPos, affectingMass)
}

func (k SoftenedKernel[S, V]) EvalUnchecked(affectedPos, affectingPos V, affectingMass S) V {
	r := affectingPos.Sub(affectedPos)
	n2 := vecmath.Norm2[S, V](r) + k.EpsSquared
	invN := vecmath.Rsqrt(n2)
	scale := affectingMass * invN * invN * invN
	return r.Scale(scale)
}
