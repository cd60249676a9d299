package mesh_test

import (
	"testing"

	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoricalEncoding(t *testing.T) {
	a := mesh.Categorical("rock", mesh.PerCell, []string{"shale", "granite", "shale", "basalt"})

	require.True(t, a.IsCategorical())
	require.Equal(t, 4, a.Len())
	// Codes are assigned in order of first appearance.
	assert.Equal(t, []int{0, 1, 0, 2}, a.Codes)
	assert.Equal(t, []string{"shale", "granite", "basalt"}, a.Categories)
	assert.Equal(t, "shale", a.Label(2))
}

func TestFloats64CopiesValues(t *testing.T) {
	src := []float64{1, 2}
	a := mesh.Floats64("grade", mesh.PerVertex, src)
	src[0] = 99
	assert.Equal(t, []float64{1, 2}, a.Floats)
	assert.False(t, a.IsCategorical())
	assert.Equal(t, 2, a.Len())
}

func TestAssociationString(t *testing.T) {
	assert.Equal(t, "vertex", mesh.PerVertex.String())
	assert.Equal(t, "cell", mesh.PerCell.String())
}
