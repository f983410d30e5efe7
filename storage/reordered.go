package storage

import (
	"fmt"

	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// Reordered owns the original input slice and an Ordered copy, plus
// the permutation bridging them: ordered[i] == original[perm[i]].
// RestoreOrder undoes the permutation on a result sequence computed
// over the Ordered view, so callers can hand in arbitrary input order
// and get results back in that same order (spec §3's round-trip law).
type Reordered[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	original []particle.PointMass[S, V]
	ordered  *Ordered[S, V]
	perm     []int
	inverse  []int
}

// NewReordered partitions src by mass > 0, the common default.
func NewReordered[S vecmath.Scalar, V vecmath.Vector[S, V]](
	src []particle.PointMass[S, V],
) (*Reordered[S, V], error) {
	return NewReorderedBy(src, DefaultAffecting[S, V])
}

// NewReorderedBy partitions src by an explicit predicate.
func NewReorderedBy[S vecmath.Scalar, V vecmath.Vector[S, V]](
	src []particle.PointMass[S, V],
	predicate func(particle.PointMass[S, V]) bool,
) (*Reordered[S, V], error) {
	if len(src) > maxReasonableLen {
		return nil, fmt.Errorf("%w: %d particles exceeds sanity bound", ErrAllocation, len(src))
	}

	data := make([]particle.PointMass[S, V], 0, len(src))
	perm := make([]int, 0, len(src))
	var tailData []particle.PointMass[S, V]
	var tailPerm []int

	for i, p := range src {
		if predicate(p) {
			data = append(data, p)
			perm = append(perm, i)
		} else {
			tailData = append(tailData, p)
			tailPerm = append(tailPerm, i)
		}
	}
	k := len(data)
	data = append(data, tailData...)
	perm = append(perm, tailPerm...)

	inverse := make([]int, len(perm))
	for orderedIdx, originalIdx := range perm {
		inverse[originalIdx] = orderedIdx
	}

	return &Reordered[S, V]{
		original: src,
		ordered:  &Ordered[S, V]{data: data, k: k},
		perm:     perm,
		inverse:  inverse,
	}, nil
}

// Ordered returns the partitioned view.
func (r *Reordered[S, V]) Ordered() *Ordered[S, V] { return r.ordered }

// Permutation returns perm such that Ordered().At(i) == original[perm[i]].
func (r *Reordered[S, V]) Permutation() []int { return r.perm }

// RestoreOrder maps a per-ordered-index result sequence back to
// original input order: restored[originalIdx] == results[perm^-1[originalIdx]].
func (r *Reordered[S, V]) RestoreOrder(results []V) []V {
	restored := make([]V, len(results))
	for originalIdx, orderedIdx := range r.inverse {
		restored[originalIdx] = results[orderedIdx]
	}
	return restored
}
