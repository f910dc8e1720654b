package geom

// Ray is a half-line starting at Origin going along Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// Unproject turns a point in normalized device coordinates back into world
// space using the inverse of projection * view.
func Unproject(ndc Vec3, invViewProj Mat4) Vec3 {
	return invViewProj.TransformPoint(ndc)
}

// IntersectTriangle tests the ray against the triangle (a, b, c) with the
// Möller–Trumbore algorithm and returns the ray parameter of the hit.
//
// Only front faces hit: triangles wound counter-clockwise as seen from the ray origin.
// Hits behind the origin (t <= Epsilon) and rays parallel to the plane are rejected.
func IntersectTriangle(ray Ray, a, b, c Vec3) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	pvec := ray.Dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det < Epsilon {
		return 0, false
	}

	tvec := ray.Origin.Sub(a)
	u := tvec.Dot(pvec)
	if u < 0 || u > det {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := ray.Dir.Dot(qvec)
	if v < 0 || u+v > det {
		return 0, false
	}

	t := edge2.Dot(qvec) / det
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}
