// Package orthtree implements RootedOrthtree (spec §3/§4.4): a
// bounding-box rooted region quadtree (D=2) / octree (D=3), carrying
// per-node {center of mass, total mass} aggregates computed bottom-up.
//
// The source library represents this as a pointer graph; per the
// spec's design notes this implementation instead uses a pointer-free
// arena (a single []node slice) in which each internal node holds a
// slice of child indices into that arena, grounded on the gonum "spatial/barneshut" quadtree (same
// recursive insert/summarize/force-query shape, rewritten as a flat
// arena instead of *tile pointers) and generalised to an arbitrary
// dimension D derived at runtime from len(V.Array()) instead of fixed
// per-package code for quad vs oct trees.
package orthtree

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// maxInsertDepth bounds recursive subdivision (spec §4.6): past this
// depth, colliding particles are assumed coincident (or close enough
// that no bounding-box subdivision will ever separate them) and are
// coalesced into one leaf carrying their summed mass.
const maxInsertDepth = 64

type nodeKind uint8

const (
	kindEmpty nodeKind = iota
	kindLeaf
	kindInternal
)

type node[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	kind nodeKind

	boundsMin, boundsMax V

	// children has length 1<<dim for kindInternal nodes; -1 marks an
	// unused orthant. nil for leaf/empty nodes.
	children []int32

	// centerOfMass/totalMass is the node's own position+mass for a
	// leaf, and the mass-weighted aggregate of its children for an
	// internal node (spec §3 invariant iv). A leaf never stores a
	// particle index: insertion and coalescing both work in terms of
	// (position, mass) values directly, so a coalesced leaf (see
	// maxInsertDepth) is just a leaf whose centerOfMass/totalMass are
	// the merge of everything routed into it.
	centerOfMass V
	totalMass    S

	// mergedCount is 1 for an ordinary leaf and >1 when maxInsertDepth
	// forced distinct (nearly coincident) particles into one leaf.
	mergedCount int32
}

// Tree is a RootedOrthtree over the particles it was built from.
// It is immutable after Build returns and safe to query from multiple
// goroutines concurrently without synchronisation (spec §5, "Tree
// sharing").
type Tree[S vecmath.Scalar, V vecmath.Vector[S, V]] struct {
	nodes     []node[S, V]
	particles []particle.PointMass[S, V]
	dim       int // D, the spatial dimension
	numOrthants int // 1<<dim
}

// ConfigError reports a precondition violation detected at
// construction (spec §7).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "orthtree: " + e.Reason }

// Build constructs a RootedOrthtree from affecting particles. The root
// bounding region is the tight AABB of the input positions, promoted
// to a square/cube of side equal to the largest box extent (spec
// §4.4).
func Build[S vecmath.Scalar, V vecmath.Vector[S, V]](affecting []particle.PointMass[S, V]) (*Tree[S, V], error) {
	t := &Tree[S, V]{particles: affecting}

	if len(affecting) == 0 {
		t.nodes = []node[S, V]{{kind: kindEmpty}}
		return t, nil
	}

	dim := len(affecting[0].Position.Array())
	if dim != 2 && dim != 3 && dim != 4 {
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported dimension %d", dim)}
	}
	t.dim = dim
	t.numOrthants = 1 << dim

	minArr, maxArr := boundingBox[S, V](affecting)
	squareArr := promoteToSquare(minArr, maxArr)

	var zero V
	root := node[S, V]{
		kind:      kindEmpty,
		boundsMin: zero.FromArray(minArr),
		boundsMax: zero.FromArray(squareArr),
	}
	t.nodes = append(t.nodes, root)

	for i := range affecting {
		t.insert(0, affecting[i].Position, affecting[i].Mass, 0)
	}

	t.summarize(0)

	slog.Debug("orthtree built", "particles", len(affecting), "dim", dim, "nodes", len(t.nodes))

	return t, nil
}

func boundingBox[S vecmath.Scalar, V vecmath.Vector[S, V]](particles []particle.PointMass[S, V]) (minArr, maxArr []S) {
	first := particles[0].Position.Array()
	minArr = append([]S(nil), first...)
	maxArr = append([]S(nil), first...)
	for _, p := range particles[1:] {
		arr := p.Position.Array()
		for d := range arr {
			if arr[d] < minArr[d] {
				minArr[d] = arr[d]
			}
			if arr[d] > maxArr[d] {
				maxArr[d] = arr[d]
			}
		}
	}
	return minArr, maxArr
}

func promoteToSquare[S vecmath.Scalar](minArr, maxArr []S) []S {
	var side S
	for d := range minArr {
		extent := maxArr[d] - minArr[d]
		if extent > side {
			side = extent
		}
	}
	if side == 0 {
		// A single point (or a stack of coincident points): give the
		// root a nonzero extent so orthant splitting is well-defined.
		side = 1
	}
	out := make([]S, len(minArr))
	for d := range minArr {
		out[d] = minArr[d] + side
	}
	return out
}

// Len returns the number of particles the tree was built from.
func (t *Tree[S, V]) Len() int { return len(t.particles) }

// Dim returns the spatial dimension D.
func (t *Tree[S, V]) Dim() int { return t.dim }

// RootAggregate returns the root node's center of mass and total mass.
// Used by property 8 (tree invariants: aggregate masses sum to total
// input mass).
func (t *Tree[S, V]) RootAggregate() (centerOfMass V, totalMass S) {
	root := t.nodes[0]
	return root.centerOfMass, root.totalMass
}
