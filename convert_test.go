package geoh5mesh_test

import (
	"testing"

	"github.com/geoforge/geoh5mesh"
	"github.com/geoforge/geoh5mesh/geoh5"
	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestConvertPoints(t *testing.T) {
	e := &geoh5.Points{
		EntityInfo: geoh5.EntityInfo{
			Name: "collars",
			Data: []geoh5.DataColumn{
				{Name: "elevation", Association: geoh5.AssocVertex, Floats: []float64{10, 20}},
				{Name: "rock", Association: geoh5.AssocVertex, Labels: []string{"ore", "waste"}},
			},
		},
		Vertices: []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
	}

	m, err := geoh5mesh.Convert(e)
	require.NoError(t, err)
	p, ok := m.(*mesh.PointSet)
	require.True(t, ok)
	assert.Equal(t, e.Vertices, p.XYZ)
	require.Len(t, p.Attributes(), 2)

	elev, ok := p.Attribute("elevation")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20}, elev.Floats)
	rock, ok := p.Attribute("rock")
	require.True(t, ok)
	assert.True(t, rock.IsCategorical())
}

func TestConvertCurvePreservesSegmentBreaks(t *testing.T) {
	// Two disjoint traces: 0-1 and 2-3. The break must survive conversion.
	e := &geoh5.Curve{
		EntityInfo: geoh5.EntityInfo{Name: "traces"},
		Vertices:   []r3.Vec{{}, {X: 1}, {X: 10}, {X: 11}},
		Segments:   [][2]uint32{{0, 1}, {2, 3}},
	}

	m, err := geoh5mesh.Convert(e)
	require.NoError(t, err)
	l, ok := m.(*mesh.LineSet)
	require.True(t, ok)
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, l.Segments)
	assert.Equal(t, 2, l.Pieces())
}

func TestConvertCurveWithoutSegments(t *testing.T) {
	e := &geoh5.Curve{
		EntityInfo: geoh5.EntityInfo{Name: "path"},
		Vertices:   []r3.Vec{{}, {X: 1}, {X: 2}},
	}

	m, err := geoh5mesh.Convert(e)
	require.NoError(t, err)
	l := m.(*mesh.LineSet)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, l.Segments)
	assert.Equal(t, 1, l.Pieces())
}

func TestConvertCurveRejectsBadConnectivity(t *testing.T) {
	e := &geoh5.Curve{
		EntityInfo: geoh5.EntityInfo{Name: "broken"},
		Vertices:   []r3.Vec{{}, {X: 1}},
		Segments:   [][2]uint32{{0, 7}},
	}

	m, err := geoh5mesh.Convert(e)
	assert.Nil(t, m)
	var cerr *geoh5mesh.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "broken", cerr.Entity)
}

func TestConvertSurfacePassThrough(t *testing.T) {
	e := &geoh5.Surface{
		EntityInfo: geoh5.EntityInfo{
			Name: "topo",
			Data: []geoh5.DataColumn{
				{Name: "dip", Association: geoh5.AssocCell, Floats: []float64{12.5, 13.5}},
			},
		},
		Vertices:  []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		Triangles: [][3]uint32{{0, 1, 2}, {1, 3, 2}},
	}

	m, err := geoh5mesh.Convert(e)
	require.NoError(t, err)
	s := m.(*mesh.TriangleSurface)
	assert.Equal(t, e.Vertices, s.XYZ)
	assert.Equal(t, [][3]int{{0, 1, 2}, {1, 3, 2}}, s.Triangles)
	dip, ok := s.Attribute("dip")
	require.True(t, ok)
	assert.Equal(t, mesh.PerCell, dip.Association)
}

func TestConvertBlockModel2x2x2(t *testing.T) {
	// geoh5 stores cell values z fastest, then u, then v. A 2x2x2 grid
	// filled with its own source index must land at
	//   dst[(iz*nv+iv)*nu+iu] = src[(iv*nu+iu)*nz+iz].
	src := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	e := &geoh5.BlockModel{
		EntityInfo: geoh5.EntityInfo{
			Name: "grade model",
			Data: []geoh5.DataColumn{
				{Name: "grade", Association: geoh5.AssocCell, Floats: src},
			},
		},
		Origin:      r3.Vec{},
		UDelimiters: []float64{1, 2},
		VDelimiters: []float64{1, 2},
		ZDelimiters: []float64{1, 2},
	}

	m, err := geoh5mesh.Convert(e)
	require.NoError(t, err)
	g, ok := m.(*mesh.RectilinearGrid)
	require.True(t, ok)
	require.Equal(t, 8, g.CellCount())
	require.Equal(t, 27, g.VertexCount())

	grade, ok := g.Attribute("grade")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 2, 4, 6, 1, 3, 5, 7}, grade.Floats)

	// Spot-check via grid indexing: source cell (u=1, v=0, z=1) holds
	// value (0*2+1)*2+1 = 3 and must land at grid cell (1, 0, 1).
	assert.Equal(t, 3.0, grade.Floats[g.CellIndex(1, 0, 1)])
}

func TestConvertBlockModelAttributeMismatch(t *testing.T) {
	e := &geoh5.BlockModel{
		EntityInfo: geoh5.EntityInfo{
			Name: "bad model",
			Data: []geoh5.DataColumn{
				{Name: "grade", Association: geoh5.AssocCell, Floats: []float64{1, 2, 3}},
			},
		},
		UDelimiters: []float64{1, 2},
		VDelimiters: []float64{1, 2},
		ZDelimiters: []float64{1, 2},
	}

	m, err := geoh5mesh.Convert(e)
	assert.Nil(t, m, "no partial mesh on attribute mismatch")
	require.ErrorIs(t, err, mesh.ErrLengthMismatch)
	var cerr *geoh5mesh.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "bad model", cerr.Entity)
	assert.Contains(t, err.Error(), "grade")
}

func TestConvertAttributeMismatchFailsEntity(t *testing.T) {
	e := &geoh5.Points{
		EntityInfo: geoh5.EntityInfo{
			Name: "collars",
			Data: []geoh5.DataColumn{
				{Name: "elevation", Association: geoh5.AssocVertex, Floats: []float64{10}},
			},
		},
		Vertices: []r3.Vec{{}, {X: 1}},
	}

	m, err := geoh5mesh.Convert(e)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, mesh.ErrLengthMismatch)
}

func TestConvertUnknownKind(t *testing.T) {
	e := &geoh5.Unknown{
		EntityInfo: geoh5.EntityInfo{Name: "octree"},
		TypeName:   "Octree",
	}

	m, err := geoh5mesh.Convert(e)
	assert.Nil(t, m)
	require.ErrorIs(t, err, geoh5mesh.ErrUnsupportedKind)
	assert.Contains(t, err.Error(), "octree")
}
