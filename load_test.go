package geoh5mesh_test

import (
	"errors"
	"testing"

	"github.com/geoforge/geoh5mesh"
	"github.com/geoforge/geoh5mesh/geoh5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

type fakeSource struct {
	entities []geoh5.Entity
	groups   []geoh5.ContainerGroup
	warnings []geoh5.ReadWarning
}

func (s *fakeSource) Entities() []geoh5.Entity       { return s.entities }
func (s *fakeSource) Groups() []geoh5.ContainerGroup { return s.groups }
func (s *fakeSource) Warnings() []geoh5.ReadWarning  { return s.warnings }

func pointsEntity(name string, parent uuid.UUID) *geoh5.Points {
	return &geoh5.Points{
		EntityInfo: geoh5.EntityInfo{Name: name, UID: uuid.New(), Parent: parent},
		Vertices:   []r3.Vec{{X: 1, Y: 2, Z: 3}},
	}
}

func TestAssemblePartialSuccess(t *testing.T) {
	src := &fakeSource{
		entities: []geoh5.Entity{
			pointsEntity("collars", uuid.Nil),
			&geoh5.Unknown{
				EntityInfo: geoh5.EntityInfo{Name: "octree model"},
				TypeName:   "Octree",
			},
		},
	}

	c, report := geoh5mesh.Assemble(src, geoh5mesh.WithLogger(zap.NewNop()))

	require.Equal(t, 1, report.Converted)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "octree model", report.Skipped[0].Entity)
	assert.Equal(t, geoh5mesh.ReasonUnsupported, report.Skipped[0].Reason)
	assert.ErrorIs(t, report.Skipped[0].Err, geoh5mesh.ErrUnsupportedKind)

	_, ok := c.Mesh("collars")
	assert.True(t, ok)
	_, ok = c.Mesh("octree model")
	assert.False(t, ok)
}

func TestAssembleMirrorsHierarchy(t *testing.T) {
	drill := uuid.New()
	deep := uuid.New()
	src := &fakeSource{
		groups: []geoh5.ContainerGroup{
			// Child listed before its parent on purpose; assembly must not
			// depend on file order.
			{Name: "Deep", UID: deep, Parent: drill},
			{Name: "Drill", UID: drill},
		},
		entities: []geoh5.Entity{
			pointsEntity("topo", uuid.Nil),
			pointsEntity("DH-01", deep),
		},
	}

	c, report := geoh5mesh.Assemble(src)
	require.Equal(t, 2, report.Converted)

	var paths []string
	for _, nm := range c.Flatten() {
		paths = append(paths, nm.Path)
	}
	assert.ElementsMatch(t, []string{"topo", "Drill/Deep/DH-01"}, paths)

	drillGroup, ok := c.Group("Drill")
	require.True(t, ok)
	deepGroup, ok := drillGroup.Group("Deep")
	require.True(t, ok)
	_, ok = deepGroup.Mesh("DH-01")
	assert.True(t, ok)
}

func TestAssembleDuplicateEntityNames(t *testing.T) {
	src := &fakeSource{
		entities: []geoh5.Entity{
			pointsEntity("samples", uuid.Nil),
			pointsEntity("samples", uuid.Nil),
		},
	}

	c, report := geoh5mesh.Assemble(src)
	require.Equal(t, 2, report.Converted)
	_, ok := c.Mesh("samples")
	assert.True(t, ok)
	_, ok = c.Mesh("samples (2)")
	assert.True(t, ok)
}

func TestAssembleCarriesReadWarnings(t *testing.T) {
	src := &fakeSource{
		warnings: []geoh5.ReadWarning{
			{Entity: "corrupt surface", Err: errors.New("missing Cells dataset")},
		},
	}

	_, report := geoh5mesh.Assemble(src)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, geoh5mesh.ReasonReadFailure, report.Skipped[0].Reason)
}

func TestAssembleKindFilter(t *testing.T) {
	src := &fakeSource{
		entities: []geoh5.Entity{
			pointsEntity("collars", uuid.Nil),
			&geoh5.Curve{
				EntityInfo: geoh5.EntityInfo{Name: "trace"},
				Vertices:   []r3.Vec{{}, {X: 1}},
			},
		},
	}

	c, report := geoh5mesh.Assemble(src, geoh5mesh.WithKinds(geoh5mesh.KindCurve))
	assert.Equal(t, 1, report.Converted)
	assert.Equal(t, 1, report.Filtered)
	assert.Empty(t, report.Skipped)
	_, ok := c.Mesh("trace")
	assert.True(t, ok)
	_, ok = c.Mesh("collars")
	assert.False(t, ok)
}

func TestAssembleRotatedBlockModelWarning(t *testing.T) {
	src := &fakeSource{
		entities: []geoh5.Entity{
			&geoh5.BlockModel{
				EntityInfo:  geoh5.EntityInfo{Name: "rotated"},
				Rotation:    30,
				UDelimiters: []float64{1},
				VDelimiters: []float64{1},
				ZDelimiters: []float64{1},
			},
		},
	}

	c, report := geoh5mesh.Assemble(src)
	require.Equal(t, 1, report.Converted, "rotation is a warning, not a failure")
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "rotated")
	_, ok := c.Mesh("rotated")
	assert.True(t, ok)
}
