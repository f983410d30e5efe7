package vecmath

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3[float64]{X: 1, Y: 2, Z: 3}
	b := Vec3[float64]{X: 4, Y: -1, Z: 0.5}

	sum := a.Add(b)
	if sum != (Vec3[float64]{5, 1, 3.5}) {
		t.Errorf("Add: got %+v", sum)
	}

	diff := a.Sub(b)
	if diff != (Vec3[float64]{-3, 3, 2.5}) {
		t.Errorf("Sub: got %+v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3[float64]{2, 4, 6}) {
		t.Errorf("Scale: got %+v", scaled)
	}

	if got := a.Dot(b); got != 4-2+1.5 {
		t.Errorf("Dot: got %v, want %v", got, 4-2+1.5)
	}
}

func TestVec2MinMax(t *testing.T) {
	a := Vec2[float64]{X: 1, Y: 5}
	b := Vec2[float64]{X: 3, Y: 2}

	if got := a.Min(b); got != (Vec2[float64]{1, 2}) {
		t.Errorf("Min: got %+v", got)
	}
	if got := a.Max(b); got != (Vec2[float64]{3, 5}) {
		t.Errorf("Max: got %+v", got)
	}
}

func TestNormAndRsqrt(t *testing.T) {
	v := Vec3[float64]{X: 3, Y: 4, Z: 0}
	if got := Norm[float64](v); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm: got %v, want 5", got)
	}

	r := Rsqrt(4.0)
	if math.Abs(r-0.5) > 1e-12 {
		t.Errorf("Rsqrt(4): got %v, want 0.5", r)
	}
}

func TestFMA(t *testing.T) {
	got := FMA(2.0, 3.0, 1.0)
	if got != 7.0 {
		t.Errorf("FMA: got %v, want 7", got)
	}

	got32 := FMA(float32(2), float32(3), float32(1))
	if got32 != 7 {
		t.Errorf("FMA float32: got %v, want 7", got32)
	}
}

func TestVec4FromVec3(t *testing.T) {
	pos := Vec3[float32]{X: 1, Y: 2, Z: 3}
	got := FromVec3(pos, float32(9))
	want := Vec4[float32]{1, 2, 3, 9}
	if got != want {
		t.Errorf("FromVec3: got %+v, want %+v", got, want)
	}
}
