// Package particle defines the canonical particle record consumed by
// the kernel, storage and algorithm layers.
//
// The source library this module is modelled on wires position/mass
// fields into its trait implementations via a derive macro. Go has no
// macros, so instead of code generation this package follows the
// explicit-configuration alternative named in the spec's design notes:
// PointMass is a plain struct, and PositionOf/MassOf are free
// functions any caller-defined particle type can satisfy by embedding
// PointMass or by providing its own accessor pair.
package particle

import "github.com/cwbudde/nbodyforce/vecmath"

// PointMass is the canonical particle record: a position and a scalar
// gravitational parameter (mu = G*m; mass for G=1).
type PointMass[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	Position V
	Mass     S
}

// New constructs a PointMass.
func New[S vecmath.Scalar, V vecmath.Vector[S, V]](position V, mass S) PointMass[S, V] {
	return PointMass[S, V]{Position: position, Mass: mass}
}

// IsMassive reports whether p exerts a nonzero interaction on others.
// mass == 0 particles are massless: they still receive interactions
// (sink) but contribute none (source). NaN mass is caller
// responsibility (spec §7, Open Question (b)) and is never filtered
// here; it propagates as NaN contributions.
func (p PointMass[S, V]) IsMassive() bool {
	return p.Mass > 0
}

// PositionOf returns p's position. It exists alongside the Position
// field so that generic algorithm code can be written against an
// accessor-function signature instead of a field, matching the
// explicit-configuration escape hatch named in the spec's design
// notes for callers whose particle type isn't a PointMass.
func PositionOf[S vecmath.Scalar, V vecmath.Vector[S, V]](p PointMass[S, V]) V {
	return p.Position
}

// MassOf returns p's gravitational parameter.
func MassOf[S vecmath.Scalar, V vecmath.Vector[S, V]](p PointMass[S, V]) S {
	return p.Mass
}
