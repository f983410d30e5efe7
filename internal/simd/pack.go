package simd

import (
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// LaneGroup is one array-of-SoA record: L affecting particles packed
// side by side so the inner loop can walk lane 0..L-1 of every group
// before moving to the next group (spec §4.3 "lane packing").
type LaneGroup[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	Positions []V
	Masses    []S
}

// Pack repacks affecting into ceil(len(affecting)/width) LaneGroups.
// The final group's unused tail lanes are padded with mass 0 (and the
// zero position), which is safe because every kernel in this module
// scales its contribution by the affecting mass.
func Pack[S vecmath.Scalar, V vecmath.Vector[S, V]](affecting []particle.PointMass[S, V], width int) []LaneGroup[S, V] {
	if width <= 0 {
		width = 1
	}
	numGroups := (len(affecting) + width - 1) / width
	groups := make([]LaneGroup[S, V], numGroups)

	var zero V
	for g := range groups {
		groups[g].Positions = make([]V, width)
		groups[g].Masses = make([]S, width)
		for lane := 0; lane < width; lane++ {
			i := g*width + lane
			if i < len(affecting) {
				groups[g].Positions[lane] = affecting[i].Position
				groups[g].Masses[lane] = affecting[i].Mass
			} else {
				groups[g].Positions[lane] = zero
				groups[g].Masses[lane] = 0
			}
		}
	}
	return groups
}
