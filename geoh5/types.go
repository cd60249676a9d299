package geoh5

import "github.com/google/uuid"

// Fixed object-type identifiers from the geoh5 format specification. The
// type of an object is resolved through its Type group's ID attribute.
var (
	TypePoints     = uuid.MustParse("202c5db1-a56d-4004-9cad-baafd8899406")
	TypeCurve      = uuid.MustParse("6a057fdc-b355-11e3-95be-fd84a7ffcb88")
	TypeSurface    = uuid.MustParse("f26feba3-aded-494b-b9e9-b2bbcbe298e1")
	TypeBlockModel = uuid.MustParse("b020a277-90e2-4cd7-84d6-612ee3f25051")
	TypeDrillhole  = uuid.MustParse("7caebf0e-d16e-11e3-bc69-e4632694aa37")
)

var typeNames = map[uuid.UUID]string{
	TypePoints:     "Points",
	TypeCurve:      "Curve",
	TypeSurface:    "Surface",
	TypeBlockModel: "BlockModel",
	TypeDrillhole:  "Drillhole",
}

// TypeName returns the human readable name of a known object-type ID, or the
// ID string itself when the type is not in the supported set.
func TypeName(id uuid.UUID) string {
	if name, ok := typeNames[id]; ok {
		return name
	}
	return id.String()
}
