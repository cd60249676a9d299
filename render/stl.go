// Package render exports converted meshes to formats consumed by external
// viewers: binary STL for triangulated surfaces, legacy VTK for every mesh
// kind, and fauxgl objects for in-process software rendering. The package
// never renders anything itself.
package render

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/geoforge/geoh5mesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteSTL writes a converted surface to w in binary STL format. Attribute
// arrays are not representable in STL and are dropped.
func WriteSTL(w io.Writer, s *mesh.TriangleSurface) error {
	if s.CellCount() == 0 {
		return errors.New("surface has no triangles")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	header := stlHeader{Count: uint32(s.CellCount())}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var (
		d stlTriangle
		b [50]byte // stl triangles are 50 bytes
	)
	for _, tri := range s.Triangles {
		v1, v2, v3 := s.XYZ[tri[0]], s.XYZ[tri[1]], s.XYZ[tri[2]]
		n := triangleNormal(v1, v2, v3)
		d.Normal = f32x3(n)
		d.Vertex1 = f32x3(v1)
		d.Vertex2 = f32x3(v2)
		d.Vertex3 = f32x3(v3)
		if bad3F32(d.Vertex1) || bad3F32(d.Vertex2) || bad3F32(d.Vertex3) {
			return errors.New("inf/NaN surface vertex")
		}
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// CreateSTL writes a converted surface to an STL file at path.
func CreateSTL(path string, s *mesh.TriangleSurface) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSTL(file, s); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// triangleNormal computes the right-handed unit normal. Degenerate triangles
// get a zero normal, which STL viewers accept.
func triangleNormal(v1, v2, v3 r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(v2, v1), r3.Sub(v3, v1))
	if norm := r3.Norm(n); norm > 0 && !math.IsInf(norm, 0) {
		return r3.Scale(1/norm, n)
	}
	return r3.Vec{}
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func f32x3(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}
