// Package storage implements the three composable particle-collection
// shapes of spec §3: a flat slice view, an Ordered partition into
// affecting/non-affecting particles, and a Reordered view that owns
// the permutation bridging input order to Ordered order.
package storage

import (
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// Slice is the flat slice view: no structure beyond the input order.
// It exists as a named type so algorithm signatures read in terms of
// storage shapes rather than bare []particle.PointMass everywhere.
type Slice[S vecmath.Scalar, V vecmath.Vector[S, V]] []particle.PointMass[S, V]

// Len returns the number of particles in the slice.
func (s Slice[S, V]) Len() int { return len(s) }
