package orthtree

import (
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// QueryAt evaluates the Barnes-Hut-approximated pairwise interaction
// at affectedPos against every particle this tree was built from,
// using kern as the pairwise kernel and theta as the opening angle
// (spec §4.4). A node is treated as a single aggregate particle at
// its center of mass when side/distance < theta; otherwise the walk
// descends into its children in ascending orthant order, so two runs
// over the same tree always visit nodes in the same order (spec's
// reproducibility requirement).
func (t *Tree[S, V]) QueryAt(affectedPos V, theta S, kern kernel.Kernel[S, V]) V {
	var acc V
	if len(t.nodes) == 0 {
		return acc
	}
	return t.queryNode(0, affectedPos, theta, kern, acc)
}

func (t *Tree[S, V]) queryNode(nodeIdx int, affectedPos V, theta S, kern kernel.Kernel[S, V], acc V) V {
	n := t.nodes[nodeIdx]

	switch n.kind {
	case kindEmpty:
		return acc

	case kindLeaf:
		return acc.Add(kern.EvalChecked(affectedPos, n.centerOfMass, n.totalMass))

	default: // kindInternal
		if n.totalMass == 0 {
			return acc
		}
		side := nodeSide(n)
		d := vecmath.Norm[S, V](affectedPos.Sub(n.centerOfMass))
		if d > 0 && side/d < theta {
			return acc.Add(kern.EvalChecked(affectedPos, n.centerOfMass, n.totalMass))
		}
		for _, childIdx := range n.children {
			if childIdx == -1 {
				continue
			}
			acc = t.queryNode(int(childIdx), affectedPos, theta, kern, acc)
		}
		return acc
	}
}

// nodeSide returns the node's region extent along its first
// dimension; promoteToSquare guarantees every node's region is a
// square/cube, so any dimension's extent is the side length.
func nodeSide[S vecmath.Scalar, V vecmath.Vector[S, V]](n node[S, V]) S {
	minArr, maxArr := n.boundsMin.Array(), n.boundsMax.Array()
	return maxArr[0] - minArr[0]
}
