package storage

import (
	"fmt"

	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// Ordered holds a contiguous sequence of particles partitioned so that
// indices [0, k) satisfy the construction predicate (typically
// "affecting"/massive) and [k, N) do not. The partition predicate is
// evaluated exactly once, at construction; within each partition,
// particles keep their input order (spec §3: "stable").
type Ordered[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	data []particle.PointMass[S, V]
	k    int
}

// DefaultAffecting is the common default partition predicate: mass > 0.
func DefaultAffecting[S vecmath.Scalar, V vecmath.Vector[S, V]](p particle.PointMass[S, V]) bool {
	return p.IsMassive()
}

// NewOrdered partitions src by predicate into [affecting, non-affecting),
// preserving input order within each partition (a stable partition).
func NewOrdered[S vecmath.Scalar, V vecmath.Vector[S, V]](
	src []particle.PointMass[S, V],
	predicate func(particle.PointMass[S, V]) bool,
) (*Ordered[S, V], error) {
	if len(src) > maxReasonableLen {
		return nil, fmt.Errorf("%w: %d particles exceeds sanity bound", ErrAllocation, len(src))
	}

	data := make([]particle.PointMass[S, V], 0, len(src))
	var tail []particle.PointMass[S, V]
	for _, p := range src {
		if predicate(p) {
			data = append(data, p)
		} else {
			tail = append(tail, p)
		}
	}
	k := len(data)
	data = append(data, tail...)

	return &Ordered[S, V]{data: data, k: k}, nil
}

// Len returns the total particle count.
func (o *Ordered[S, V]) Len() int { return len(o.data) }

// SplitIndex returns k: indices [0, k) are affecting, [k, Len()) are not.
func (o *Ordered[S, V]) SplitIndex() int { return o.k }

// All returns every particle in partitioned order.
func (o *Ordered[S, V]) All() []particle.PointMass[S, V] { return o.data }

// Affecting returns the massive/source partition [0, k).
func (o *Ordered[S, V]) Affecting() []particle.PointMass[S, V] { return o.data[:o.k] }

// NonAffecting returns the massless/sink-only partition [k, N).
func (o *Ordered[S, V]) NonAffecting() []particle.PointMass[S, V] { return o.data[o.k:] }

// At returns the particle at partitioned index i.
func (o *Ordered[S, V]) At(i int) particle.PointMass[S, V] { return o.data[i] }
