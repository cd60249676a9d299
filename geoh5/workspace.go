// Package geoh5 reads geoh5 workspaces through a pure Go HDF5 reader and
// exposes their objects as typed, read-only entities. The package does no
// binary parsing of its own: the container format is handled entirely by
// github.com/scigolib/hdf5, and this package maps the geoh5 schema (the
// Objects, Groups and Data trees keyed by UUID) onto Go values.
//
// All entity data is copied out of the file while it is open. Entities,
// groups and data columns returned by a Workspace stay valid after Close.
package geoh5

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/scigolib/hdf5"
)

// ErrNoWorkspace reports an HDF5 file with no geoh5 workspace root group.
var ErrNoWorkspace = errors.New("no geoh5 workspace root in file")

// Workspace is an opened geoh5 project. It is read-only.
type Workspace struct {
	// Name is the workspace root group name, "GEOSCIENCE" in current files.
	Name string
	// Version is the geoh5 format version recorded in the file, 0 if absent.
	Version float64
	// DistanceUnit is the workspace distance unit, empty if absent.
	DistanceUnit string

	entities []Entity
	groups   []ContainerGroup
	warnings []ReadWarning
	file     *hdf5.File
}

// ContainerGroup is one organizational group of the workspace hierarchy.
type ContainerGroup struct {
	Name   string
	UID    uuid.UUID
	Parent uuid.UUID // uuid.Nil when the group sits at the workspace root
}

// ReadWarning records an object that could not be read. Reading continues
// past such objects; the warnings surface in the load report.
type ReadWarning struct {
	Entity string
	Err    error
}

// Open opens a geoh5 file and reads all of its groups and objects into owned
// entity values. A file that cannot be opened or lacks a workspace root is a
// fatal error; individual objects that fail to read are skipped and recorded
// as warnings instead.
func Open(path string) (*Workspace, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workspace %q: %w", path, err)
	}
	w := &Workspace{file: f}
	if err := w.load(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("load workspace %q: %w", path, err)
	}
	return w, nil
}

// Close releases the underlying file. Entities read from the workspace
// remain usable. Close is safe to call more than once.
func (w *Workspace) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Entities returns the workspace objects in enumeration order.
func (w *Workspace) Entities() []Entity { return w.entities }

// Groups returns the organizational groups of the workspace.
func (w *Workspace) Groups() []ContainerGroup { return w.groups }

// Warnings returns the objects skipped during reading, with reasons.
func (w *Workspace) Warnings() []ReadWarning { return w.warnings }

func (w *Workspace) load() error {
	root, ok := findWorkspaceRoot(w.file.Root())
	if !ok {
		return ErrNoWorkspace
	}
	w.Name = root.Name()
	w.Version, _ = attrFloat(root, "Version")
	w.DistanceUnit, _ = attrString(root, "Distance unit")

	if groups, ok := childGroup(root, "Groups"); ok {
		for _, c := range groups.Children() {
			gg, ok := c.(*hdf5.Group)
			if !ok {
				continue
			}
			w.groups = append(w.groups, parseContainerGroup(gg))
		}
	}

	objects, ok := childGroup(root, "Objects")
	if !ok {
		// A workspace without an Objects tree is empty, not broken.
		return nil
	}
	for _, c := range objects.Children() {
		og, ok := c.(*hdf5.Group)
		if !ok {
			continue
		}
		ent, err := parseObject(og)
		if err != nil {
			w.warnings = append(w.warnings, ReadWarning{Entity: objectName(og), Err: err})
			continue
		}
		w.entities = append(w.entities, ent)
	}
	return nil
}

// findWorkspaceRoot locates the group holding the Objects/Groups/Data trees.
// Current files name it GEOSCIENCE, but the name is not load-bearing.
func findWorkspaceRoot(root *hdf5.Group) (*hdf5.Group, bool) {
	if _, ok := childGroup(root, "Objects"); ok {
		return root, true
	}
	for _, c := range root.Children() {
		g, ok := c.(*hdf5.Group)
		if !ok {
			continue
		}
		if _, ok := childGroup(g, "Objects"); ok {
			return g, true
		}
	}
	return nil, false
}

func parseContainerGroup(g *hdf5.Group) ContainerGroup {
	cg := ContainerGroup{Name: g.Name()}
	if name, ok := attrString(g, "Name"); ok {
		cg.Name = name
	}
	cg.UID, _ = attrUUID(g, "ID")
	cg.Parent, _ = attrUUID(g, "Parent")
	return cg
}

func objectName(g *hdf5.Group) string {
	if name, ok := attrString(g, "Name"); ok {
		return name
	}
	return g.Name()
}

func parseObject(g *hdf5.Group) (Entity, error) {
	info := EntityInfo{Name: objectName(g)}
	info.UID, _ = attrUUID(g, "ID")
	info.Parent, _ = attrUUID(g, "Parent")

	typeName := ""
	if tg, ok := childGroup(g, "Type"); ok {
		info.TypeID, _ = attrUUID(tg, "ID")
		typeName, _ = attrString(tg, "Name")
	}
	kind, known := resolveKind(info.TypeID, g)

	var (
		ent Entity
		err error
	)
	switch {
	case !known:
		if typeName == "" {
			typeName = TypeName(info.TypeID)
		}
		ent = &Unknown{EntityInfo: info, TypeName: typeName}
	case kind == TypePoints:
		ent, err = parsePoints(g, info)
	case kind == TypeCurve:
		ent, err = parseCurve(g, info)
	case kind == TypeSurface:
		ent, err = parseSurface(g, info)
	case kind == TypeBlockModel:
		ent, err = parseBlockModel(g, info)
	case kind == TypeDrillhole:
		ent, err = parseDrillhole(g, info)
	}
	if err != nil {
		return nil, err
	}

	if dg, ok := childGroup(g, "Data"); ok {
		cols, err := parseDataColumns(dg)
		if err != nil {
			return nil, err
		}
		ent.Info().Data = cols
	}
	return ent, nil
}

// resolveKind maps the object-type ID to a supported kind. Objects written
// without a Type group fall back to structural detection from the datasets
// present, which is enough to tell the supported kinds apart.
func resolveKind(typeID uuid.UUID, g *hdf5.Group) (uuid.UUID, bool) {
	if _, ok := typeNames[typeID]; ok {
		return typeID, true
	}
	if typeID != uuid.Nil {
		return typeID, false
	}
	if _, ok := childDataset(g, "U cell delimiters"); ok {
		return TypeBlockModel, true
	}
	if _, ok := childDataset(g, "Surveys"); ok {
		return TypeDrillhole, true
	}
	if _, ok := childDataset(g, "Vertices"); ok {
		if _, ok := childDataset(g, "Cells"); ok {
			// Cell width is ambiguous without a type ID; curves are by far
			// the most common untyped legacy objects.
			return TypeCurve, true
		}
		return TypePoints, true
	}
	return uuid.Nil, false
}

func requireDataset(g *hdf5.Group, name string) (*hdf5.Dataset, error) {
	d, ok := childDataset(g, name)
	if !ok {
		return nil, fmt.Errorf("missing %s dataset", name)
	}
	return d, nil
}

func parsePoints(g *hdf5.Group, info EntityInfo) (Entity, error) {
	d, err := requireDataset(g, "Vertices")
	if err != nil {
		return nil, err
	}
	verts, err := readVec3s(d)
	if err != nil {
		return nil, err
	}
	return &Points{EntityInfo: info, Vertices: verts}, nil
}

func parseCurve(g *hdf5.Group, info EntityInfo) (Entity, error) {
	d, err := requireDataset(g, "Vertices")
	if err != nil {
		return nil, err
	}
	verts, err := readVec3s(d)
	if err != nil {
		return nil, err
	}
	c := &Curve{EntityInfo: info, Vertices: verts}
	if cd, ok := childDataset(g, "Cells"); ok {
		tuples, err := readIndices(cd, 2)
		if err != nil {
			return nil, err
		}
		c.Segments = make([][2]uint32, len(tuples))
		for i, t := range tuples {
			c.Segments[i] = [2]uint32{t[0], t[1]}
		}
	}
	return c, nil
}

func parseSurface(g *hdf5.Group, info EntityInfo) (Entity, error) {
	d, err := requireDataset(g, "Vertices")
	if err != nil {
		return nil, err
	}
	verts, err := readVec3s(d)
	if err != nil {
		return nil, err
	}
	cd, err := requireDataset(g, "Cells")
	if err != nil {
		return nil, err
	}
	tuples, err := readIndices(cd, 3)
	if err != nil {
		return nil, err
	}
	s := &Surface{EntityInfo: info, Vertices: verts, Triangles: make([][3]uint32, len(tuples))}
	for i, t := range tuples {
		s.Triangles[i] = [3]uint32{t[0], t[1], t[2]}
	}
	return s, nil
}

func parseBlockModel(g *hdf5.Group, info EntityInfo) (Entity, error) {
	b := &BlockModel{EntityInfo: info}
	for _, axis := range []struct {
		name string
		dst  *[]float64
	}{
		{"U cell delimiters", &b.UDelimiters},
		{"V cell delimiters", &b.VDelimiters},
		{"Z cell delimiters", &b.ZDelimiters},
	} {
		d, err := requireDataset(g, axis.name)
		if err != nil {
			return nil, err
		}
		vals, err := d.Read()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", axis.name, err)
		}
		*axis.dst = vals
	}
	od, err := requireDataset(g, "Origin")
	if err != nil {
		return nil, err
	}
	if b.Origin, err = readVec3(od); err != nil {
		return nil, err
	}
	b.Rotation, _ = attrFloat(g, "Rotation")
	return b, nil
}

func parseDrillhole(g *hdf5.Group, info EntityInfo) (Entity, error) {
	cd, err := requireDataset(g, "Collar")
	if err != nil {
		return nil, err
	}
	collar, err := readVec3(cd)
	if err != nil {
		return nil, err
	}
	sd, err := requireDataset(g, "Surveys")
	if err != nil {
		return nil, err
	}
	surveys, err := readSurveys(sd)
	if err != nil {
		return nil, err
	}
	return &Drillhole{EntityInfo: info, Collar: collar, Surveys: surveys}, nil
}

func parseDataColumns(dg *hdf5.Group) ([]DataColumn, error) {
	var cols []DataColumn
	for _, c := range dg.Children() {
		cg, ok := c.(*hdf5.Group)
		if !ok {
			continue
		}
		col, err := parseDataColumn(cg)
		if err != nil {
			return nil, fmt.Errorf("data %q: %w", objectName(cg), err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func parseDataColumn(g *hdf5.Group) (DataColumn, error) {
	col := DataColumn{Name: objectName(g)}
	col.UID, _ = attrUUID(g, "ID")
	if assoc, ok := attrString(g, "Association"); ok {
		col.Association = parseAssociation(assoc)
	}

	d, err := requireDataset(g, "Values")
	if err != nil {
		return col, err
	}
	// Continuous columns read as floats; categorical columns are stored as
	// text and only readable through the string path.
	if floats, err := d.Read(); err == nil {
		col.Floats = floats
	} else if labels, serr := d.ReadStrings(); serr == nil {
		col.Labels = labels
	} else {
		return col, fmt.Errorf("read Values: %w", err)
	}

	if ftd, ok := childDataset(g, "From-To"); ok {
		fromTo, err := readFromTo(ftd)
		if err != nil {
			return col, err
		}
		col.FromTo = fromTo
	}
	return col, nil
}
