package geoh5

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is one named geoscience object read from a workspace. The concrete
// types form a closed set: Points, Curve, Surface, BlockModel, Drillhole and
// Unknown. Entities are plain owned values; they stay valid after the
// workspace is closed.
type Entity interface {
	// Info returns the metadata shared by all entity kinds.
	Info() *EntityInfo
}

// EntityInfo is the metadata common to every entity.
type EntityInfo struct {
	Name   string
	UID    uuid.UUID
	Parent uuid.UUID // containing group, uuid.Nil when at the workspace root
	TypeID uuid.UUID
	Data   []DataColumn
}

func (e *EntityInfo) Info() *EntityInfo { return e }

// DataColumn is one named attribute array attached to an entity.
type DataColumn struct {
	Name        string
	UID         uuid.UUID
	Association Association
	// Floats holds continuous values; Labels holds categorical text values.
	// Exactly one of the two is populated.
	Floats []float64
	Labels []string
	// FromTo holds the depth intervals of drillhole interval data, one
	// (from, to) pair per value.
	FromTo [][2]float64
}

// Len returns the number of values in the column.
func (c DataColumn) Len() int {
	if c.Labels != nil {
		return len(c.Labels)
	}
	return len(c.Floats)
}

// Association says which entity elements a data column's values belong to.
type Association uint8

const (
	AssocUnknown Association = iota
	AssocVertex
	AssocCell
	AssocDepth  // drillhole interval data
	AssocObject // single value describing the whole entity
)

func (a Association) String() string {
	switch a {
	case AssocVertex:
		return "Vertex"
	case AssocCell:
		return "Cell"
	case AssocDepth:
		return "Depth"
	case AssocObject:
		return "Object"
	}
	return "Unknown"
}

func parseAssociation(s string) Association {
	switch s {
	case "Vertex":
		return AssocVertex
	case "Cell":
		return AssocCell
	case "Depth":
		return AssocDepth
	case "Object":
		return AssocObject
	}
	return AssocUnknown
}

// Points is a vertex-only entity.
type Points struct {
	EntityInfo
	Vertices []r3.Vec
}

// Curve is a poly-line entity. Segments index into Vertices; disjoint traces
// appear as gaps in the segment sequence.
type Curve struct {
	EntityInfo
	Vertices []r3.Vec
	Segments [][2]uint32
}

// Surface is a triangulated surface entity.
type Surface struct {
	EntityInfo
	Vertices  []r3.Vec
	Triangles [][3]uint32
}

// BlockModel is a regular 3D grid entity. The delimiter sequences hold the
// cumulative cell-boundary offsets from Origin along each axis, excluding the
// origin itself, so the cell count along an axis equals the sequence length.
type BlockModel struct {
	EntityInfo
	Origin      r3.Vec
	Rotation    float64 // degrees counterclockwise about the z axis
	UDelimiters []float64
	VDelimiters []float64
	ZDelimiters []float64
}

// Dims returns the cell counts along the u, v and z axes.
func (b *BlockModel) Dims() (nu, nv, nz int) {
	return len(b.UDelimiters), len(b.VDelimiters), len(b.ZDelimiters)
}

// Survey is one drillhole survey station.
type Survey struct {
	Depth   float64 // distance along the hole from the collar
	Azimuth float64 // degrees clockwise from north, in the horizontal plane
	Dip     float64 // degrees from horizontal, positive down
}

// Drillhole is a borehole entity: a collar location plus survey stations
// describing the hole path, with interval data stored as depth-associated
// columns.
type Drillhole struct {
	EntityInfo
	Collar  r3.Vec
	Surveys []Survey
}

// Unknown is an entity whose type is not in the supported set. It is carried
// through enumeration so loaders can report the skip, and is never converted.
type Unknown struct {
	EntityInfo
	TypeName string
}
