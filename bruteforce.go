package nbodyforce

import (
	"context"
	"iter"

	"github.com/cwbudde/nbodyforce/internal/workerpool"
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// BruteForcePairsSeqAll computes, for every affected particle, the sum
// of kern's contribution from every affecting particle, in ascending
// affecting-index order (spec §4.1 "ordering of accumulation"). When
// affected and affecting alias the same underlying array, the N(N-1)/2
// unordered-pairs optimisation (spec §4.2) is used instead of the full
// N*M loop, applying Newton's third law to halve the kernel
// evaluations for anti-symmetric kernels.
func BruteForcePairsSeqAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) []V {
	if aliasSameSlice(b.Affected, b.Affecting) {
		return bruteForcePairsAliased(b.Affected, kern)
	}
	return bruteForcePairsFull(b.Affected, b.Affecting, kern)
}

// BruteForcePairsSeq is the lazy counterpart of BruteForcePairsSeqAll,
// yielding one V per affected particle in order.
func BruteForcePairsSeq[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range BruteForcePairsSeqAll(b, kern) {
			if !yield(v) {
				return
			}
		}
	}
}

func bruteForcePairsFull[S vecmath.Scalar, V vecmath.Vector[S, V]](
	affected, affecting []particle.PointMass[S, V], kern kernel.Kernel[S, V],
) []V {
	out := make([]V, len(affected))
	for i, a := range affected {
		var acc V
		for _, b := range affecting {
			acc = acc.Add(kern.EvalChecked(a.Position, b.Position, b.Mass))
		}
		out[i] = acc
	}
	return out
}

// bruteForcePairsAliased applies the N(N-1)/2 pairs optimisation: for
// every unordered pair (i, j), i<j, the kernel's contribution on i
// from j is added to out[i], and the reverse contribution (computed
// from the anti-symmetric relationship, scaled by the mass ratio) is
// added to out[j], avoiding the second kernel evaluation.
func bruteForcePairsAliased[S vecmath.Scalar, V vecmath.Vector[S, V]](
	particles []particle.PointMass[S, V], kern kernel.Kernel[S, V],
) []V {
	out := make([]V, len(particles))
	for i := 0; i < len(particles); i++ {
		for j := i + 1; j < len(particles); j++ {
			pi, pj := particles[i], particles[j]

			contribOnI := kern.EvalChecked(pi.Position, pj.Position, pj.Mass)
			out[i] = out[i].Add(contribOnI)

			// Newton's third law: force on j from i is the negation of
			// force on i from j, with the affecting mass swapped from
			// pj.Mass to pi.Mass. contribOnI already carries a factor of
			// pj.Mass, so recovering contribOnJ divides that out and
			// multiplies by pi.Mass instead: -pi.Mass/pj.Mass.
			if pj.Mass != 0 {
				contribOnJ := contribOnI.Scale(-pi.Mass / pj.Mass)
				out[j] = out[j].Add(contribOnJ)
			} else {
				out[j] = out[j].Add(kern.EvalChecked(pj.Position, pi.Position, pi.Mass))
			}
		}
	}
	return out
}

// aliasSameSlice reports whether a and b share the same backing array
// and length, the condition under which the pairs optimisation
// applies (spec §4.2).
func aliasSameSlice[T any](a, b []T) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	return &a[0] == &b[0]
}

// BruteForcePairsParallelAll is BruteForcePairsSeqAll with the outer
// loop over affected indices split across pool's workers (spec §4.2
// "parallel variant"). The pairs optimisation is sequential-only (it
// requires a single shared output buffer with cross-thread writes to
// both out[i] and out[j], which the spec's "each thread owns its
// output slot; no cross-thread writes" resource policy forbids), so
// the parallel path always runs the full N*M loop, aliased or not.
func BruteForcePairsParallelAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	ctx context.Context,
	pool *workerpool.Pool,
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) ([]V, error) {
	out := make([]V, len(b.Affected))
	err := pool.ParallelFor(ctx, len(b.Affected), func(i int) {
		a := b.Affected[i]
		var acc V
		for _, aff := range b.Affecting {
			acc = acc.Add(kern.EvalChecked(a.Position, aff.Position, aff.Mass))
		}
		out[i] = acc
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
