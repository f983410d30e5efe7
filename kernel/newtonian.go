package kernel

import "github.com/cwbudde/nbodyforce/vecmath"

// NewtonianKernel computes exact Newtonian gravitational acceleration.
//
// Let r = p_affecting - p_affected, n2 = r.r. If n2 == 0 the
// contribution is the zero vector (self-interaction singularity,
// spec §4.1). Otherwise the contribution is r * m_affecting /
// (n2 * sqrt(n2)), computed with a single reciprocal square root
// (never a division by n³, per spec).
type NewtonianKernel[S vecmath.Scalar, V vecmath.Vector[S, V]] struct{}

func (NewtonianKernel[S, V]) ID() ID { return Newtonian }

// EvalChecked is the safe, self-pair-tolerant evaluation.
func (k NewtonianKernel[S, V]) EvalChecked(affectedPos, affectingPos V, affectingMass S) V {
	r := affectingPos.Sub(affectedPos)
	n2 := vecmath.Norm2[S, V](r)
	if n2 == 0 {
		var zero V
		return zero
	}
	return k.accelerate(r, n2, affectingMass)
}

// EvalUnchecked skips the n2==0 branch. Callers must guarantee the
// pair cannot coincide (brute-force-pairs' structural avoidance of
// self-pairs, or a Barnes-Hut leaf known distinct from the query
// point); passing a coincident pair here divides by zero.
func (k NewtonianKernel[S, V]) EvalUnchecked(affectedPos, affectingPos V, affectingMass S) V {
	r := affectingPos.Sub(affectedPos)
	n2 := vecmath.Norm2[S, V](r)
	return k.accelerate(r, n2, affectingMass)
}

func (NewtonianKernel[S, V]) accelerate(r V, n2, mass S) V {
	invN := vecmath.Rsqrt(n2)
	// r * m / (n2 * sqrt(n2)) == r * (m * invN) * invN * invN, computed
	// with a single rsqrt and fused multiplies where the scalar type
	// allows it, per spec §4.1.
	scale := vecmath.FMA(mass, invN, S(0)) * invN * invN
	return r.Scale(scale)
}
