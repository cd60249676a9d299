package geoh5mesh

import (
	"errors"
	"fmt"

	"github.com/geoforge/geoh5mesh/geoh5"
	"github.com/geoforge/geoh5mesh/mesh"
)

// ErrUnsupportedKind reports an entity whose kind has no converter. Loads
// treat it as a per-entity skip, not a fatal failure.
var ErrUnsupportedKind = errors.New("unsupported entity kind")

// ConversionError wraps a per-entity conversion failure with the entity's
// name, so skip reports can say which object failed and why.
type ConversionError struct {
	Entity string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %q: %v", e.Entity, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Convert maps one workspace entity to exactly one mesh of the matching
// geometric kind, with the entity's data columns reattached as mesh
// attributes. The returned mesh owns all of its data. On failure no partial
// mesh is returned.
func Convert(e geoh5.Entity) (mesh.Mesh, error) {
	m, err := convertEntity(e)
	if err != nil {
		return nil, &ConversionError{Entity: e.Info().Name, Err: err}
	}
	return m, nil
}

func convertEntity(e geoh5.Entity) (mesh.Mesh, error) {
	switch v := e.(type) {
	case *geoh5.Points:
		return convertPoints(v)
	case *geoh5.Curve:
		return convertCurve(v)
	case *geoh5.Surface:
		return convertSurface(v)
	case *geoh5.BlockModel:
		return convertBlockModel(v)
	case *geoh5.Drillhole:
		return convertDrillhole(v)
	case *geoh5.Unknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, v.TypeName)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, e)
}

func convertPoints(p *geoh5.Points) (mesh.Mesh, error) {
	m := mesh.NewPointSet(p.Vertices)
	if err := attachColumns(m, p.Data); err != nil {
		return nil, err
	}
	return m, nil
}

func convertCurve(c *geoh5.Curve) (mesh.Mesh, error) {
	// Explicit source segments are preserved as-is so disjoint traces stay
	// disjoint. Only a curve without connectivity is chained into
	// consecutive pairs.
	var segments [][2]int
	if c.Segments != nil {
		segments = make([][2]int, len(c.Segments))
		for i, s := range c.Segments {
			segments[i] = [2]int{int(s[0]), int(s[1])}
		}
	}
	m := mesh.NewLineSet(c.Vertices, segments)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("malformed curve: %w", err)
	}
	if err := attachColumns(m, c.Data); err != nil {
		return nil, err
	}
	return m, nil
}

func convertSurface(s *geoh5.Surface) (mesh.Mesh, error) {
	triangles := make([][3]int, len(s.Triangles))
	for i, t := range s.Triangles {
		triangles[i] = [3]int{int(t[0]), int(t[1]), int(t[2])}
	}
	m := mesh.NewTriangleSurface(s.Vertices, triangles)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("malformed surface: %w", err)
	}
	if err := attachColumns(m, s.Data); err != nil {
		return nil, err
	}
	return m, nil
}

func convertBlockModel(b *geoh5.BlockModel) (mesh.Mesh, error) {
	// geoh5 delimiters are cumulative boundary offsets from the origin,
	// excluding the origin itself; the grid wants full node offset
	// sequences starting at zero.
	nodeOffsets := func(delims []float64) []float64 {
		off := make([]float64, len(delims)+1)
		copy(off[1:], delims)
		return off
	}
	g, err := mesh.NewRectilinearGrid(
		b.Origin,
		nodeOffsets(b.UDelimiters),
		nodeOffsets(b.VDelimiters),
		nodeOffsets(b.ZDelimiters),
	)
	if err != nil {
		return nil, fmt.Errorf("malformed block model: %w", err)
	}

	nu, nv, nz := b.Dims()
	for _, col := range b.Data {
		if col.Association == geoh5.AssocObject {
			continue
		}
		if col.Association != geoh5.AssocCell {
			return nil, fmt.Errorf("data %q: unsupported block model association %s", col.Name, col.Association)
		}
		if err := g.AddAttribute(blockCellAttribute(col, nu, nv, nz)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// blockCellAttribute reorders a block model cell column from the geoh5
// storage order (z varies fastest, then u, then v) into the grid's x-fastest
// order. A column of the wrong length is passed through unpermuted so that
// AddAttribute reports the mismatch.
func blockCellAttribute(col geoh5.DataColumn, nu, nv, nz int) mesh.Attribute {
	if col.Len() != nu*nv*nz {
		return toAttribute(col, mesh.PerCell)
	}
	perm := blockOrderPermutation(nu, nv, nz)
	if col.Labels != nil {
		labels := make([]string, len(col.Labels))
		for dst, src := range perm {
			labels[dst] = col.Labels[src]
		}
		return mesh.Categorical(col.Name, mesh.PerCell, labels)
	}
	floats := make([]float64, len(col.Floats))
	for dst, src := range perm {
		floats[dst] = col.Floats[src]
	}
	return mesh.Floats64(col.Name, mesh.PerCell, floats)
}

// blockOrderPermutation maps each destination index (x fastest, then y, then
// z) to its source index in geoh5 order (z fastest, then u, then v), with u
// mapped to x and v to y.
func blockOrderPermutation(nu, nv, nz int) []int {
	perm := make([]int, nu*nv*nz)
	for iv := 0; iv < nv; iv++ {
		for iu := 0; iu < nu; iu++ {
			for iz := 0; iz < nz; iz++ {
				src := (iv*nu+iu)*nz + iz
				dst := (iz*nv+iv)*nu + iu
				perm[dst] = src
			}
		}
	}
	return perm
}

// attachColumns reattaches an entity's vertex and cell columns to its mesh.
// Object-associated scalars describe the entity, not its elements, and are
// not carried onto meshes.
func attachColumns(m mesh.Mesh, cols []geoh5.DataColumn) error {
	for _, col := range cols {
		var assoc mesh.Association
		switch col.Association {
		case geoh5.AssocObject:
			continue
		case geoh5.AssocVertex:
			assoc = mesh.PerVertex
		case geoh5.AssocCell:
			assoc = mesh.PerCell
		default:
			return fmt.Errorf("data %q: unsupported association %s", col.Name, col.Association)
		}
		if err := m.AddAttribute(toAttribute(col, assoc)); err != nil {
			return err
		}
	}
	return nil
}

func toAttribute(col geoh5.DataColumn, assoc mesh.Association) mesh.Attribute {
	if col.Labels != nil {
		return mesh.Categorical(col.Name, assoc, col.Labels)
	}
	return mesh.Floats64(col.Name, assoc, col.Floats)
}
