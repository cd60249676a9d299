package render

import (
	"github.com/fogleman/fauxgl"
	"github.com/geoforge/geoh5mesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// FauxglMesh copies a converted surface into a fauxgl triangle mesh for
// software rendering. Attribute arrays have no fauxgl counterpart and are
// dropped.
func FauxglMesh(s *mesh.TriangleSurface) *fauxgl.Mesh {
	triangles := make([]*fauxgl.Triangle, len(s.Triangles))
	for i, t := range s.Triangles {
		triangles[i] = fauxgl.NewTriangleForPoints(
			fauxglVec(s.XYZ[t[0]]),
			fauxglVec(s.XYZ[t[1]]),
			fauxglVec(s.XYZ[t[2]]),
		)
	}
	return fauxgl.NewTriangleMesh(triangles)
}

// FauxglLines copies a converted line set into a fauxgl line mesh, keeping
// disjoint poly-line pieces disjoint.
func FauxglLines(l *mesh.LineSet) *fauxgl.Mesh {
	lines := make([]*fauxgl.Line, len(l.Segments))
	for i, s := range l.Segments {
		lines[i] = fauxgl.NewLineForPoints(fauxglVec(l.XYZ[s[0]]), fauxglVec(l.XYZ[s[1]]))
	}
	return fauxgl.NewLineMesh(lines)
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
