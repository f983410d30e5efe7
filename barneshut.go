package nbodyforce

import (
	"context"
	"iter"

	"github.com/cwbudde/nbodyforce/internal/workerpool"
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/orthtree"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// BarnesHutConfig holds the opening-angle parameter θ (spec §4.4). It
// mirrors the teacher's ConvergenceConfig/DefaultConvergenceConfig
// shape: a small validated value type constructed before a
// computation rather than threaded as a bare float.
type BarnesHutConfig[S vecmath.Scalar] struct {
	Theta S
}

// DefaultBarnesHutConfig returns the spec's "accurate" θ=0.3 default.
func DefaultBarnesHutConfig[S vecmath.Scalar]() BarnesHutConfig[S] {
	return BarnesHutConfig[S]{Theta: S(0.3)}
}

// Validate reports a ConfigError if θ < 0 (spec §4.4 "parameter
// constraints").
func (c BarnesHutConfig[S]) Validate() error {
	if c.Theta < 0 {
		return &ConfigError{Reason: "barnes-hut: theta must be >= 0"}
	}
	return nil
}

// BarnesHutSeqAll builds a RootedOrthtree from the affecting particles
// and queries it once per affected particle (spec §4.4). It returns a
// ConfigError without building anything if cfg is invalid.
func BarnesHutSeqAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
	cfg BarnesHutConfig[S],
) ([]V, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tree, err := orthtree.Build(b.Affecting)
	if err != nil {
		return nil, err
	}

	out := make([]V, len(b.Affected))
	for i, a := range b.Affected {
		out[i] = tree.QueryAt(a.Position, cfg.Theta, kern)
	}
	return out, nil
}

// BarnesHutSeq is the lazy counterpart of BarnesHutSeqAll. The tree is
// built eagerly (construction is sequential regardless of the result
// form) and queries are yielded lazily.
func BarnesHutSeq[S vecmath.Scalar, V vecmath.Vector[S, V]](
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
	cfg BarnesHutConfig[S],
) (iter.Seq[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tree, err := orthtree.Build(b.Affecting)
	if err != nil {
		return nil, err
	}

	return func(yield func(V) bool) {
		for _, a := range b.Affected {
			if !yield(tree.QueryAt(a.Position, cfg.Theta, kern)) {
				return
			}
		}
	}, nil
}

// BarnesHutParallelAll builds the tree sequentially, then parallelises
// only the per-affected-point queries across pool's workers (spec
// §4.4 "parallel variant": "tree construction is sequential").
func BarnesHutParallelAll[S vecmath.Scalar, V vecmath.Vector[S, V]](
	ctx context.Context,
	pool *workerpool.Pool,
	b Between[[]particle.PointMass[S, V], []particle.PointMass[S, V]],
	kern kernel.Kernel[S, V],
	cfg BarnesHutConfig[S],
) ([]V, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tree, err := orthtree.Build(b.Affecting)
	if err != nil {
		return nil, err
	}

	out := make([]V, len(b.Affected))
	err = pool.ParallelFor(ctx, len(b.Affected), func(i int) {
		out[i] = tree.QueryAt(b.Affected[i].Position, cfg.Theta, kern)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
