// Package mesh defines the visualization-ready geometry objects produced
// when converting geoh5 entities: point clouds, poly-line sets, triangulated
// surfaces and rectilinear grids, each carrying named attribute arrays bound
// to vertices or cells.
//
// Meshes own all of their data. Nothing in this package retains a reference
// into the workspace file a mesh was converted from, so meshes remain valid
// after the source workspace is closed.
package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is the common interface of all converted geometry objects.
type Mesh interface {
	// VertexCount returns the number of mesh vertices.
	VertexCount() int
	// CellCount returns the number of mesh cells (segments, triangles or
	// grid cells). Point clouds report one cell per vertex.
	CellCount() int
	// Bounds returns the axis aligned bounding box of the mesh vertices.
	Bounds() r3.Box
	// Attributes returns the attribute arrays attached to the mesh, in the
	// order they were attached.
	Attributes() []Attribute
	// AddAttribute attaches a named data array to the mesh. It fails if the
	// array length does not match the element count of its association.
	AddAttribute(a Attribute) error
}

// attrSet is the attribute storage shared by all mesh kinds.
type attrSet struct {
	attrs []Attribute
}

func (s *attrSet) Attributes() []Attribute { return s.attrs }

// addChecked validates a against the element counts of the owning mesh and
// appends it. nVerts and nCells are the owning mesh's element counts.
func (s *attrSet) addChecked(a Attribute, nVerts, nCells int) error {
	want := nVerts
	if a.Association == PerCell {
		want = nCells
	}
	if got := a.Len(); got != want {
		return fmt.Errorf("attribute %q: %w: have %d values, %s mesh element count is %d",
			a.Name, ErrLengthMismatch, got, a.Association, want)
	}
	s.attrs = append(s.attrs, a)
	return nil
}

// Attribute lookup by name. Returns the zero Attribute and false when the
// mesh carries no attribute with that name.
func (s *attrSet) Attribute(name string) (Attribute, bool) {
	for _, a := range s.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// PointSet is a point cloud. Every vertex is its own cell, so per-vertex and
// per-cell attributes are interchangeable.
type PointSet struct {
	attrSet
	XYZ []r3.Vec
}

// NewPointSet allocates a point cloud over a copy of pts.
func NewPointSet(pts []r3.Vec) *PointSet {
	p := &PointSet{XYZ: make([]r3.Vec, len(pts))}
	copy(p.XYZ, pts)
	return p
}

func (p *PointSet) VertexCount() int { return len(p.XYZ) }
func (p *PointSet) CellCount() int   { return len(p.XYZ) }
func (p *PointSet) Bounds() r3.Box   { return boundsOf(p.XYZ) }

func (p *PointSet) AddAttribute(a Attribute) error {
	return p.addChecked(a, len(p.XYZ), len(p.XYZ))
}

// LineSet is a poly-line mesh: a vertex pool plus explicit two-vertex
// segments. Disjoint pieces are represented by gaps in the segment
// connectivity and are never implicitly joined.
type LineSet struct {
	attrSet
	XYZ      []r3.Vec
	Segments [][2]int
}

// NewLineSet allocates a line set over copies of vertices and segments.
// When segments is nil the vertices are chained into consecutive pairs,
// forming a single connected poly-line.
func NewLineSet(vertices []r3.Vec, segments [][2]int) *LineSet {
	l := &LineSet{XYZ: make([]r3.Vec, len(vertices))}
	copy(l.XYZ, vertices)
	if segments == nil {
		if len(vertices) > 1 {
			l.Segments = make([][2]int, len(vertices)-1)
			for i := range l.Segments {
				l.Segments[i] = [2]int{i, i + 1}
			}
		}
		return l
	}
	l.Segments = make([][2]int, len(segments))
	copy(l.Segments, segments)
	return l
}

func (l *LineSet) VertexCount() int { return len(l.XYZ) }
func (l *LineSet) CellCount() int   { return len(l.Segments) }
func (l *LineSet) Bounds() r3.Box   { return boundsOf(l.XYZ) }

func (l *LineSet) AddAttribute(a Attribute) error {
	return l.addChecked(a, len(l.XYZ), len(l.Segments))
}

// Validate checks that every segment endpoint indexes into the vertex pool.
func (l *LineSet) Validate() error {
	for i, s := range l.Segments {
		for _, v := range s {
			if v < 0 || v >= len(l.XYZ) {
				return fmt.Errorf("segment %d references vertex %d of %d", i, v, len(l.XYZ))
			}
		}
	}
	return nil
}

// Pieces returns the number of connected poly-line pieces, counted as runs
// of segments whose start vertex is the previous segment's end vertex.
func (l *LineSet) Pieces() int {
	if len(l.Segments) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(l.Segments); i++ {
		if l.Segments[i][0] != l.Segments[i-1][1] {
			n++
		}
	}
	return n
}

// TriangleSurface is a triangulated surface: a vertex pool plus triangle
// index triples, copied verbatim from the source with no re-triangulation.
type TriangleSurface struct {
	attrSet
	XYZ       []r3.Vec
	Triangles [][3]int
}

// NewTriangleSurface allocates a surface over copies of vertices and
// triangles.
func NewTriangleSurface(vertices []r3.Vec, triangles [][3]int) *TriangleSurface {
	t := &TriangleSurface{
		XYZ:       make([]r3.Vec, len(vertices)),
		Triangles: make([][3]int, len(triangles)),
	}
	copy(t.XYZ, vertices)
	copy(t.Triangles, triangles)
	return t
}

func (t *TriangleSurface) VertexCount() int { return len(t.XYZ) }
func (t *TriangleSurface) CellCount() int   { return len(t.Triangles) }
func (t *TriangleSurface) Bounds() r3.Box   { return boundsOf(t.XYZ) }

func (t *TriangleSurface) AddAttribute(a Attribute) error {
	return t.addChecked(a, len(t.XYZ), len(t.Triangles))
}

// Validate checks that every triangle corner indexes into the vertex pool.
func (t *TriangleSurface) Validate() error {
	for i, tri := range t.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(t.XYZ) {
				return fmt.Errorf("triangle %d references vertex %d of %d", i, v, len(t.XYZ))
			}
		}
	}
	return nil
}

// RectilinearGrid is a structured volumetric grid. Node positions along each
// axis are Origin plus the per-axis offset sequences; offsets hold one more
// entry than the cell count along that axis and must start at zero.
//
// Cell data is linearized x fastest, then y, then z: the cell at grid index
// (i,j,k) lives at flat index (k*ny+j)*nx+i.
type RectilinearGrid struct {
	attrSet
	Origin   r3.Vec
	XOffsets []float64
	YOffsets []float64
	ZOffsets []float64
}

// NewRectilinearGrid allocates a grid over copies of the node offset
// sequences. Each sequence needs at least two entries (one cell).
func NewRectilinearGrid(origin r3.Vec, xOff, yOff, zOff []float64) (*RectilinearGrid, error) {
	for axis, off := range [3][]float64{xOff, yOff, zOff} {
		if len(off) < 2 {
			return nil, fmt.Errorf("axis %c: need at least 2 node offsets, have %d", 'x'+axis, len(off))
		}
		for i := 1; i < len(off); i++ {
			if off[i] <= off[i-1] {
				return nil, fmt.Errorf("axis %c: node offsets not strictly increasing at %d", 'x'+axis, i)
			}
		}
	}
	g := &RectilinearGrid{
		Origin:   origin,
		XOffsets: append([]float64(nil), xOff...),
		YOffsets: append([]float64(nil), yOff...),
		ZOffsets: append([]float64(nil), zOff...),
	}
	return g, nil
}

// Dims returns the cell counts along x, y and z.
func (g *RectilinearGrid) Dims() (nx, ny, nz int) {
	return len(g.XOffsets) - 1, len(g.YOffsets) - 1, len(g.ZOffsets) - 1
}

func (g *RectilinearGrid) VertexCount() int {
	return len(g.XOffsets) * len(g.YOffsets) * len(g.ZOffsets)
}

func (g *RectilinearGrid) CellCount() int {
	nx, ny, nz := g.Dims()
	return nx * ny * nz
}

func (g *RectilinearGrid) Bounds() r3.Box {
	last := func(s []float64) float64 { return s[len(s)-1] }
	return r3.Box{
		Min: r3.Add(g.Origin, r3.Vec{X: g.XOffsets[0], Y: g.YOffsets[0], Z: g.ZOffsets[0]}),
		Max: r3.Add(g.Origin, r3.Vec{X: last(g.XOffsets), Y: last(g.YOffsets), Z: last(g.ZOffsets)}),
	}
}

func (g *RectilinearGrid) AddAttribute(a Attribute) error {
	return g.addChecked(a, g.VertexCount(), g.CellCount())
}

// CellIndex returns the flat cell-data index of the cell at (i,j,k).
func (g *RectilinearGrid) CellIndex(i, j, k int) int {
	nx, ny, _ := g.Dims()
	return (k*ny+j)*nx + i
}

// CellCenter returns the center of the cell at (i,j,k) in world coordinates.
func (g *RectilinearGrid) CellCenter(i, j, k int) r3.Vec {
	return r3.Add(g.Origin, r3.Vec{
		X: (g.XOffsets[i] + g.XOffsets[i+1]) / 2,
		Y: (g.YOffsets[j] + g.YOffsets[j+1]) / 2,
		Z: (g.ZOffsets[k] + g.ZOffsets[k+1]) / 2,
	})
}

func boundsOf(pts []r3.Vec) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}
	box := r3.Box{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, p := range pts {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box
}
