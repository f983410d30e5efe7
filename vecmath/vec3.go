package vecmath

// Vec3 is a 3-dimensional vector, the octree / Newtonian-gravity case
// of §3's V<D>.
type Vec3[S Scalar] struct {
	X, Y, Z S
}

func (v Vec3[S]) Add(w Vec3[S]) Vec3[S] { return Vec3[S]{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3[S]) Sub(w Vec3[S]) Vec3[S] { return Vec3[S]{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3[S]) Scale(f S) Vec3[S]     { return Vec3[S]{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3[S]) Dot(w Vec3[S]) S       { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

func (v Vec3[S]) Min(w Vec3[S]) Vec3[S] {
	return Vec3[S]{min(v.X, w.X), min(v.Y, w.Y), min(v.Z, w.Z)}
}

func (v Vec3[S]) Max(w Vec3[S]) Vec3[S] {
	return Vec3[S]{max(v.X, w.X), max(v.Y, w.Y), max(v.Z, w.Z)}
}

func (v Vec3[S]) Array() []S { return []S{v.X, v.Y, v.Z} }

// FromArray builds a Vec3 from a 3-element slice; see Vec2.FromArray
// for why the receiver is ignored.
func (Vec3[S]) FromArray(a []S) Vec3[S] { return Vec3[S]{a[0], a[1], a[2]} }

// Vec3FromArray builds a Vec3 from a 3-element slice.
func Vec3FromArray[S Scalar](a []S) Vec3[S] { return Vec3[S]{a[0], a[1], a[2]} }
