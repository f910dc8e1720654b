package assets

import (
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/render"
)

type face struct {
	normal, u, v geom.Vec3
}

// faces have u x v == normal so that quads wind counter-clockwise seen from outside
var cubeFaces = []face{
	{geom.V3(1, 0, 0), geom.V3(0, 0, -1), geom.V3(0, 1, 0)},
	{geom.V3(-1, 0, 0), geom.V3(0, 0, 1), geom.V3(0, 1, 0)},
	{geom.V3(0, 1, 0), geom.V3(1, 0, 0), geom.V3(0, 0, -1)},
	{geom.V3(0, -1, 0), geom.V3(1, 0, 0), geom.V3(0, 0, 1)},
	{geom.V3(0, 0, 1), geom.V3(1, 0, 0), geom.V3(0, 1, 0)},
	{geom.V3(0, 0, -1), geom.V3(-1, 0, 0), geom.V3(0, 1, 0)},
}

func appendQuad(g *geometryFile, center geom.Vec3, f face, half float32) {
	u := f.u.MulScalar(half)
	v := f.v.MulScalar(half)
	corners := [4]geom.Vec3{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		g.Vertices = append(g.Vertices, corners[i].X, corners[i].Y, corners[i].Z)
		g.Normals = append(g.Normals, f.normal.X, f.normal.Y, f.normal.Z)
		g.TexCoords = append(g.TexCoords, uvs[i][0], uvs[i][1])
	}
}

// Cube returns a unit cube centered on the origin.
func Cube() *render.Geometry {
	var g geometryFile
	for _, f := range cubeFaces {
		appendQuad(&g, f.normal.MulScalar(0.5), f, 0.5)
	}
	return render.NewGeometry(g.Vertices, g.Normals, g.TexCoords)
}

// Plane returns a unit square on y=0 facing +Y.
func Plane() *render.Geometry {
	var g geometryFile
	appendQuad(&g, geom.Vec3{}, cubeFaces[2], 0.5)
	return render.NewGeometry(g.Vertices, g.Normals, g.TexCoords)
}

// AddPrimitives registers the built-in "cube" and "plane" geometry.
func (l *Library) AddPrimitives() {
	l.AddGeometry("cube", Cube())
	l.AddGeometry("plane", Plane())
}
