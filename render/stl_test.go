package render_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/geoforge/geoh5mesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func quadSurface() *mesh.TriangleSurface {
	return mesh.NewTriangleSurface(
		[]r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		[][3]int{{0, 1, 2}, {1, 3, 2}},
	)
}

func TestWriteSTL(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, quadSurface()); err != nil {
		t.Fatal(err)
	}
	const headerSize, triangleSize = 84, 50
	want := headerSize + 2*triangleSize
	if b.Len() != want {
		t.Fatalf("STL length %d, want %d", b.Len(), want)
	}
	count := binary.LittleEndian.Uint32(b.Bytes()[80:84])
	if count != 2 {
		t.Fatalf("STL header triangle count %d, want 2", count)
	}
	// Both triangles lie in the z=0 plane with counterclockwise winding, so
	// the first normal must be +z.
	nz := binary.LittleEndian.Uint32(b.Bytes()[headerSize+8 : headerSize+12])
	if nz != 0x3f800000 { // float32(1)
		t.Fatalf("first triangle normal z bits %#x, want 1.0", nz)
	}
}

func TestWriteSTLEmptySurface(t *testing.T) {
	var b bytes.Buffer
	err := render.WriteSTL(&b, mesh.NewTriangleSurface(nil, nil))
	if err == nil {
		t.Fatal("expected error for surface with no triangles")
	}
}

func TestWriteSTLBadConnectivity(t *testing.T) {
	s := mesh.NewTriangleSurface([]r3.Vec{{}, {X: 1}}, [][3]int{{0, 1, 5}})
	var b bytes.Buffer
	if err := render.WriteSTL(&b, s); err == nil {
		t.Fatal("expected error for out of range triangle index")
	}
}
