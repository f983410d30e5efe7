package nbodyforce

import (
	"context"
	"iter"

	"github.com/cwbudde/nbodyforce/internal/simd"
	"github.com/cwbudde/nbodyforce/internal/workerpool"
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// BruteForceSIMDSeqAll computes the same result as
// BruteForcePairsSeqAll but packs affecting into lane groups of
// simd.Width first and evaluates each affected particle against those
// groups (spec §4.3). It always uses the checked kernel and makes no
// special case when affecting aliases affected: a self-pair
// contributes its own n²==0 zero vector regardless of which lane group
// it landed in.
func BruteForceSIMDSeqAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) []V {
	groups := simd.Pack(b.Affecting, simd.Width)
	out := make([]V, len(b.Affected))
	for i, a := range b.Affected {
		out[i] = simd.EvalAt(a.Position, groups, kern)
	}
	return out
}

// BruteForceSIMDSeq is the lazy counterpart of BruteForceSIMDSeqAll.
func BruteForceSIMDSeq[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range BruteForceSIMDSeqAll(b, kern) {
			if !yield(v) {
				return
			}
		}
	}
}

// BruteForceSIMDParallelAll splits the outer loop over affected
// indices across pool's workers; each worker performs the SIMD inner
// loop independently against the same (read-only, shared) lane groups
// (spec §4.3 "parallel variant").
func BruteForceSIMDParallelAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	ctx context.Context,
	pool *workerpool.Pool,
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
) ([]V, error) {
	groups := simd.Pack(b.Affecting, simd.Width)
	out := make([]V, len(b.Affected))
	err := pool.ParallelFor(ctx, len(b.Affected), func(i int) {
		out[i] = simd.EvalAt(b.Affected[i].Position, groups, kern)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
