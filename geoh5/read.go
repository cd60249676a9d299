package geoh5

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/scigolib/hdf5"
	"gonum.org/v1/gonum/spatial/r3"
)

// Low-level helpers over the HDF5 reader. Everything here copies data out of
// the library's buffers; nothing downstream holds references into the file.

func childGroup(g *hdf5.Group, name string) (*hdf5.Group, bool) {
	for _, c := range g.Children() {
		if sub, ok := c.(*hdf5.Group); ok && sub.Name() == name {
			return sub, true
		}
	}
	return nil, false
}

func childDataset(g *hdf5.Group, name string) (*hdf5.Dataset, bool) {
	for _, c := range g.Children() {
		if d, ok := c.(*hdf5.Dataset); ok && d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// groupAttr reads a named attribute of a group. The second result is false
// when the attribute is absent or unreadable.
func groupAttr(g *hdf5.Group, name string) (interface{}, bool) {
	attrs, err := g.Attributes()
	if err != nil {
		return nil, false
	}
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		v, err := a.ReadValue()
		if err != nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

func attrString(g *hdf5.Group, name string) (string, bool) {
	v, ok := groupAttr(g, name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func attrFloat(g *hdf5.Group, name string) (float64, bool) {
	v, ok := groupAttr(g, name)
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

func attrUUID(g *hdf5.Group, name string) (uuid.UUID, bool) {
	s, ok := attrString(g, name)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s) // geoh5 writes IDs in {braced} form, which Parse accepts
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// asFloat widens whatever numeric type the attribute reader produced.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case []float64:
		if len(n) == 1 {
			return n[0], true
		}
	case []float32:
		if len(n) == 1 {
			return float64(n[0]), true
		}
	}
	return 0, false
}

// readVec3s reads a compound {x, y, z} dataset into owned vectors.
func readVec3s(d *hdf5.Dataset) ([]r3.Vec, error) {
	rows, err := d.ReadCompound()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name(), err)
	}
	out := make([]r3.Vec, len(rows))
	for i, row := range rows {
		x, okx := asFloat(row["x"])
		y, oky := asFloat(row["y"])
		z, okz := asFloat(row["z"])
		if !okx || !oky || !okz {
			return nil, fmt.Errorf("read %s: row %d is not an {x,y,z} compound", d.Name(), i)
		}
		out[i] = r3.Vec{X: x, Y: y, Z: z}
	}
	return out, nil
}

// readVec3 reads a single-row compound {x, y, z} dataset, used for block
// model origins and drillhole collars.
func readVec3(d *hdf5.Dataset) (r3.Vec, error) {
	vecs, err := readVec3s(d)
	if err != nil {
		return r3.Vec{}, err
	}
	if len(vecs) != 1 {
		return r3.Vec{}, fmt.Errorf("read %s: want 1 coordinate row, have %d", d.Name(), len(vecs))
	}
	return vecs[0], nil
}

// readSurveys reads a drillhole's compound {Depth, Azimuth, Dip} dataset.
func readSurveys(d *hdf5.Dataset) ([]Survey, error) {
	rows, err := d.ReadCompound()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name(), err)
	}
	out := make([]Survey, len(rows))
	for i, row := range rows {
		depth, okd := asFloat(row["Depth"])
		azm, oka := asFloat(row["Azimuth"])
		dip, okp := asFloat(row["Dip"])
		if !okd || !oka || !okp {
			return nil, fmt.Errorf("read %s: row %d is not a {Depth,Azimuth,Dip} compound", d.Name(), i)
		}
		out[i] = Survey{Depth: depth, Azimuth: azm, Dip: dip}
	}
	return out, nil
}

// readIndices reads a flat integer connectivity dataset into index tuples of
// the given width (2 for curve segments, 3 for surface triangles).
func readIndices(d *hdf5.Dataset, width int) ([][]uint32, error) {
	flat, err := d.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name(), err)
	}
	if len(flat)%width != 0 {
		return nil, fmt.Errorf("read %s: %d indices not divisible by cell width %d", d.Name(), len(flat), width)
	}
	out := make([][]uint32, len(flat)/width)
	for i := range out {
		tuple := make([]uint32, width)
		for j := 0; j < width; j++ {
			f := flat[i*width+j]
			if f < 0 || f != float64(uint32(f)) {
				return nil, fmt.Errorf("read %s: cell %d holds invalid index %v", d.Name(), i, f)
			}
			tuple[j] = uint32(f)
		}
		out[i] = tuple
	}
	return out, nil
}

// readFromTo reads a drillhole interval table stored as a flat (n, 2)
// dataset of from/to depths.
func readFromTo(d *hdf5.Dataset) ([][2]float64, error) {
	flat, err := d.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name(), err)
	}
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("read %s: odd interval table length %d", d.Name(), len(flat))
	}
	out := make([][2]float64, len(flat)/2)
	for i := range out {
		out[i] = [2]float64{flat[2*i], flat[2*i+1]}
	}
	return out, nil
}
