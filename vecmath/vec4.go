package vecmath

// Vec4 is a 4-dimensional vector. Spatial algorithms in this module
// only ever instantiate Vec2/Vec3, but Vec4 is kept as a first-class
// Vector implementation because the GPU wire layout (§4.5) serialises
// a 3D PointMass as a vec4<f32> (xyz, mass) via FromVec3.
type Vec4[S Scalar] struct {
	X, Y, Z, W S
}

func (v Vec4[S]) Add(w Vec4[S]) Vec4[S] {
	return Vec4[S]{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.W + w.W}
}

func (v Vec4[S]) Sub(w Vec4[S]) Vec4[S] {
	return Vec4[S]{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.W - w.W}
}

func (v Vec4[S]) Scale(f S) Vec4[S] {
	return Vec4[S]{v.X * f, v.Y * f, v.Z * f, v.W * f}
}

func (v Vec4[S]) Dot(w Vec4[S]) S {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z + v.W*w.W
}

func (v Vec4[S]) Min(w Vec4[S]) Vec4[S] {
	return Vec4[S]{min(v.X, w.X), min(v.Y, w.Y), min(v.Z, w.Z), min(v.W, w.W)}
}

func (v Vec4[S]) Max(w Vec4[S]) Vec4[S] {
	return Vec4[S]{max(v.X, w.X), max(v.Y, w.Y), max(v.Z, w.Z), max(v.W, w.W)}
}

func (v Vec4[S]) Array() []S { return []S{v.X, v.Y, v.Z, v.W} }

// FromArray builds a Vec4 from a 4-element slice; see Vec2.FromArray
// for why the receiver is ignored.
func (Vec4[S]) FromArray(a []S) Vec4[S] { return Vec4[S]{a[0], a[1], a[2], a[3]} }

// Vec4FromArray builds a Vec4 from a 4-element slice.
func Vec4FromArray[S Scalar](a []S) Vec4[S] { return Vec4[S]{a[0], a[1], a[2], a[3]} }

// FromVec3 widens a Vec3 position plus a scalar mass into the GPU wire
// layout vec4(xyz, mass).
func FromVec3[S Scalar](pos Vec3[S], mass S) Vec4[S] {
	return Vec4[S]{pos.X, pos.Y, pos.Z, mass}
}
