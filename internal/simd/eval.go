package simd

import (
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// EvalAt runs the SIMD inner loop for one affected position against
// every lane group: for each group, evaluate every lane with the
// checked kernel (affecting aliasing affected is resolved uniformly
// by the checked variant's n²==0 branch, spec §4.1/§4.3) and
// horizontally reduce the L partial sums into the running total.
//
// Accumulation proceeds group-by-group, lane-by-lane in ascending
// order, matching the natural index order BruteForcePairs uses, so
// BruteForceSIMD reproduces the same sum (modulo floating-point
// reassociation within a lane group) as the sequential path (spec
// §4.1 "ordering of accumulation").
func EvalAt[S vecmath.Scalar, V vecmath.Vector[S, V]](affectedPos V, groups []LaneGroup[S, V], kern kernel.Kernel[S, V]) V {
	var total V
	for _, g := range groups {
		var partial V
		for lane := range g.Positions {
			partial = partial.Add(kern.EvalChecked(affectedPos, g.Positions[lane], g.Masses[lane]))
		}
		total = total.Add(partial)
	}
	return total
}
