package geoh5mesh_test

import (
	"testing"

	"github.com/geoforge/geoh5mesh"
	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func somePoints() *mesh.PointSet {
	return mesh.NewPointSet([]r3.Vec{{X: 1}})
}

func TestContainerDuplicateNames(t *testing.T) {
	c := geoh5mesh.NewContainer("project")
	first := somePoints()
	second := somePoints()

	require.Equal(t, "Topography", c.AddMesh("Topography", first))
	require.Equal(t, "Topography (2)", c.AddMesh("Topography", second))
	require.Equal(t, "Topography (3)", c.AddMesh("Topography", somePoints()))

	got1, ok := c.Mesh("Topography")
	require.True(t, ok)
	got2, ok := c.Mesh("Topography (2)")
	require.True(t, ok)
	assert.Same(t, mesh.Mesh(first), got1)
	assert.Same(t, mesh.Mesh(second), got2)

	assert.Equal(t, []string{"Topography", "Topography (2)", "Topography (3)"}, c.MeshNames())
}

func TestContainerGroupAndMeshNamesShareNamespace(t *testing.T) {
	c := geoh5mesh.NewContainer("project")
	c.AddMesh("Drill", somePoints())
	g := c.AddGroup("Drill")
	assert.Equal(t, "Drill (2)", g.Name())
}

func TestContainerFlatten(t *testing.T) {
	c := geoh5mesh.NewContainer("project")
	c.AddMesh("topo", somePoints())
	drill := c.AddGroup("drill")
	drill.AddMesh("DH-01", somePoints())
	deep := drill.AddGroup("deep")
	deep.AddMesh("DH-02", somePoints())

	require.Equal(t, 3, c.Len())

	var paths []string
	for _, nm := range c.Flatten() {
		paths = append(paths, nm.Path)
	}
	assert.Equal(t, []string{"topo", "drill/DH-01", "drill/deep/DH-02"}, paths)
}

func TestContainerLookupMissing(t *testing.T) {
	c := geoh5mesh.NewContainer("project")
	_, ok := c.Mesh("nope")
	assert.False(t, ok)
	_, ok = c.Group("nope")
	assert.False(t, ok)
	assert.Empty(t, c.GroupNames())
}
