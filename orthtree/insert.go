package orthtree

import "github.com/cwbudde/nbodyforce/vecmath"

// insert routes (pos, mass) into the subtree rooted at nodeIdx,
// subdividing leaves that collide and coalescing past maxInsertDepth
// (spec §4.6). It never holds a *node across an append to t.nodes:
// every access goes back through t.nodes[idx], since appending may
// reallocate the backing array.
func (t *Tree[S, V]) insert(nodeIdx int, pos V, mass S, depth int) {
	switch t.nodes[nodeIdx].kind {
	case kindEmpty:
		t.nodes[nodeIdx].kind = kindLeaf
		t.nodes[nodeIdx].centerOfMass = pos
		t.nodes[nodeIdx].totalMass = mass
		t.nodes[nodeIdx].mergedCount = 1

	case kindLeaf:
		if depth >= maxInsertDepth {
			existing := t.nodes[nodeIdx]
			mergedPos, mergedMass := mergePoints[S, V](existing.centerOfMass, existing.totalMass, pos, mass)
			t.nodes[nodeIdx].centerOfMass = mergedPos
			t.nodes[nodeIdx].totalMass = mergedMass
			t.nodes[nodeIdx].mergedCount = existing.mergedCount + 1
			return
		}

		existingPos := t.nodes[nodeIdx].centerOfMass
		existingMass := t.nodes[nodeIdx].totalMass
		t.subdivide(nodeIdx)
		t.insertIntoChild(nodeIdx, existingPos, existingMass, depth+1)
		t.insertIntoChild(nodeIdx, pos, mass, depth+1)

	case kindInternal:
		t.insertIntoChild(nodeIdx, pos, mass, depth+1)
	}
}

// insertIntoChild descends into (lazily creating) the child of nodeIdx
// that owns pos.
func (t *Tree[S, V]) insertIntoChild(nodeIdx int, pos V, mass S, depth int) {
	orthant := t.orthantOf(nodeIdx, pos)
	childIdx := t.nodes[nodeIdx].children[orthant]
	if childIdx == -1 {
		childIdx = int32(t.createChild(nodeIdx, orthant))
		t.nodes[nodeIdx].children[orthant] = childIdx
	}
	t.insert(int(childIdx), pos, mass, depth)
}

// subdivide converts a leaf into an internal node, allocating its
// 1<<dim children as unused (-1). The leaf's own aggregate is left in
// place by the caller, which is responsible for reinserting it.
func (t *Tree[S, V]) subdivide(nodeIdx int) {
	children := make([]int32, t.numOrthants)
	for i := range children {
		children[i] = -1
	}
	t.nodes[nodeIdx].kind = kindInternal
	t.nodes[nodeIdx].children = children
	t.nodes[nodeIdx].mergedCount = 0
}

// createChild appends a fresh empty node for the given orthant of
// nodeIdx and returns its index.
func (t *Tree[S, V]) createChild(nodeIdx, orthant int) int {
	boundsMin, boundsMax := t.splitBounds(nodeIdx, orthant)
	t.nodes = append(t.nodes, node[S, V]{
		kind:      kindEmpty,
		boundsMin: boundsMin,
		boundsMax: boundsMax,
	})
	return len(t.nodes) - 1
}

// orthantOf returns which of nodeIdx's 1<<dim orthants contains pos,
// bit d set when pos[d] is on the upper half of the node's extent
// along dimension d.
func (t *Tree[S, V]) orthantOf(nodeIdx int, pos V) int {
	n := t.nodes[nodeIdx]
	minArr, maxArr := n.boundsMin.Array(), n.boundsMax.Array()
	posArr := pos.Array()
	orthant := 0
	for d := range posArr {
		center := (minArr[d] + maxArr[d]) / 2
		if posArr[d] >= center {
			orthant |= 1 << d
		}
	}
	return orthant
}

// splitBounds computes the bounding box of the given orthant of
// nodeIdx's region.
func (t *Tree[S, V]) splitBounds(nodeIdx, orthant int) (boundsMin, boundsMax V) {
	n := t.nodes[nodeIdx]
	minArr, maxArr := n.boundsMin.Array(), n.boundsMax.Array()
	outMin := make([]S, len(minArr))
	outMax := make([]S, len(minArr))
	for d := range minArr {
		center := (minArr[d] + maxArr[d]) / 2
		if orthant&(1<<d) != 0 {
			outMin[d] = center
			outMax[d] = maxArr[d]
		} else {
			outMin[d] = minArr[d]
			outMax[d] = center
		}
	}
	var zero V
	return zero.FromArray(outMin), zero.FromArray(outMax)
}

// mergePoints combines two (position, mass) points into the single
// point that has the same total mass and center of mass. When both
// masses are zero (two non-affecting points should never reach the
// tree, but a degenerate zero-mass affecting point is not ruled out
// by the spec), it falls back to the unweighted midpoint so the merge
// never divides by zero.
func mergePoints[S vecmath.Scalar, V vecmath.Vector[S, V]](pos1 V, mass1 S, pos2 V, mass2 S) (V, S) {
	total := mass1 + mass2
	if total == 0 {
		mid := pos1.Add(pos2).Scale(S(0.5))
		return mid, 0
	}
	weighted := pos1.Scale(mass1).Add(pos2.Scale(mass2))
	return weighted.Scale(1 / total), total
}

// summarize computes and stores the bottom-up {center of mass, total
// mass} aggregate for nodeIdx and everything beneath it (spec §3
// invariant iv). Leaves and empty nodes already carry their own
// aggregate; only internal nodes require a pass.
func (t *Tree[S, V]) summarize(nodeIdx int) (V, S) {
	n := t.nodes[nodeIdx]
	if n.kind != kindInternal {
		return n.centerOfMass, n.totalMass
	}

	var weighted V
	var total S
	for _, childIdx := range n.children {
		if childIdx == -1 {
			continue
		}
		childCOM, childMass := t.summarize(int(childIdx))
		if childMass == 0 {
			continue
		}
		weighted = weighted.Add(childCOM.Scale(childMass))
		total += childMass
	}

	var com V
	if total != 0 {
		com = weighted.Scale(1 / total)
	}

	t.nodes[nodeIdx].centerOfMass = com
	t.nodes[nodeIdx].totalMass = total
	return com, total
}
