package simd

import (
	"math"
	"testing"

	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

func pm2(x, y, mass float64) particle.PointMass[float64, vecmath.Vec2[float64]] {
	return particle.New[float64](vecmath.Vec2[float64]{X: x, Y: y}, mass)
}

func TestPackPadsTailLanesWithZeroMass(t *testing.T) {
	affecting := []particle.PointMass[float64, vecmath.Vec2[float64]]{
		pm2(0, 0, 1), pm2(1, 0, 2), pm2(2, 0, 3),
	}

	groups := Pack(affecting, 2)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[1].Masses[1] != 0 {
		t.Errorf("tail lane mass = %v, want 0", groups[1].Masses[1])
	}
}

func TestEvalAtMatchesDirectSum(t *testing.T) {
	affecting := []particle.PointMass[float64, vecmath.Vec2[float64]]{
		pm2(1, 0, 1), pm2(0, 1, 2), pm2(-1, 0, 3), pm2(0, -1, 4), pm2(2, 2, 5),
	}
	affected := vecmath.Vec2[float64]{X: 10, Y: -10}
	kern := kernel.NewtonianKernel[float64, vecmath.Vec2[float64]]{}

	var want vecmath.Vec2[float64]
	for _, p := range affecting {
		want = want.Add(kern.EvalChecked(affected, p.Position, p.Mass))
	}

	groups := Pack(affecting, 4)
	got := EvalAt(affected, groups, kern)

	const eps = 1e-12
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Errorf("EvalAt = %v, want %v", got, want)
	}
}

func TestEvalAtEmptyGroups(t *testing.T) {
	got := EvalAt(vecmath.Vec2[float64]{}, nil, kernel.NewtonianKernel[float64, vecmath.Vec2[float64]]{})
	if got.X != 0 || got.Y != 0 {
		t.Errorf("EvalAt(nil) = %v, want zero", got)
	}
}
