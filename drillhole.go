package geoh5mesh

import (
	"fmt"
	"math"

	"github.com/geoforge/geoh5mesh/geoh5"
	"github.com/geoforge/geoh5mesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Drillhole conversion: survey stations are desurveyed into a 3D hole path,
// then interval (from-to) data columns become line segments with per-cell
// values. A hole without interval data converts to its trace poly-line with
// a per-vertex depth attribute.

// trajectory is a desurveyed hole path: 3D positions at each survey depth,
// queryable at arbitrary depths along the hole.
type trajectory struct {
	depths []float64
	pos    []r3.Vec
	dirs   []r3.Vec // unit tangent at each station
}

// newTrajectory desurveys the stations by the balanced tangential method:
// each station-to-station step advances along the mean of the two stations'
// tangents. A hole whose first station sits below the collar is extended
// upward with the first station's orientation.
func newTrajectory(collar r3.Vec, surveys []geoh5.Survey) (*trajectory, error) {
	if len(surveys) == 0 {
		return nil, fmt.Errorf("no survey stations")
	}
	if surveys[0].Depth > 0 {
		first := surveys[0]
		first.Depth = 0
		surveys = append([]geoh5.Survey{first}, surveys...)
	}
	t := &trajectory{
		depths: make([]float64, len(surveys)),
		pos:    make([]r3.Vec, len(surveys)),
		dirs:   make([]r3.Vec, len(surveys)),
	}
	for i, s := range surveys {
		if i > 0 && s.Depth < surveys[i-1].Depth {
			return nil, fmt.Errorf("survey depths decrease at station %d (%g after %g)", i, s.Depth, surveys[i-1].Depth)
		}
		t.depths[i] = s.Depth
		t.dirs[i] = tangent(s.Azimuth, s.Dip)
	}
	t.pos[0] = collar
	for i := 1; i < len(surveys); i++ {
		step := (t.depths[i] - t.depths[i-1]) / 2
		mean := r3.Add(t.dirs[i-1], t.dirs[i])
		t.pos[i] = r3.Add(t.pos[i-1], r3.Scale(step, mean))
	}
	return t, nil
}

// tangent converts an azimuth/dip pair into a unit direction. Azimuth is
// degrees clockwise from north (+y), dip is degrees below horizontal.
func tangent(azimuth, dip float64) r3.Vec {
	az := azimuth * math.Pi / 180
	dp := dip * math.Pi / 180
	return r3.Vec{
		X: math.Cos(dp) * math.Sin(az),
		Y: math.Cos(dp) * math.Cos(az),
		Z: -math.Sin(dp),
	}
}

// at returns the hole position at the given depth. Depths between stations
// interpolate linearly along the station chord; depths past the last station
// extrapolate along the last tangent.
func (t *trajectory) at(depth float64) r3.Vec {
	n := len(t.depths)
	if depth <= t.depths[0] {
		return r3.Add(t.pos[0], r3.Scale(depth-t.depths[0], t.dirs[0]))
	}
	if depth >= t.depths[n-1] {
		return r3.Add(t.pos[n-1], r3.Scale(depth-t.depths[n-1], t.dirs[n-1]))
	}
	i := 1
	for t.depths[i] < depth {
		i++
	}
	span := t.depths[i] - t.depths[i-1]
	if span == 0 {
		return t.pos[i]
	}
	f := (depth - t.depths[i-1]) / span
	return r3.Add(t.pos[i-1], r3.Scale(f, r3.Sub(t.pos[i], t.pos[i-1])))
}

func convertDrillhole(dh *geoh5.Drillhole) (mesh.Mesh, error) {
	traj, err := newTrajectory(dh.Collar, dh.Surveys)
	if err != nil {
		return nil, fmt.Errorf("malformed drillhole: %w", err)
	}

	var depthCols, elemCols []geoh5.DataColumn
	for _, col := range dh.Data {
		switch col.Association {
		case geoh5.AssocDepth:
			depthCols = append(depthCols, col)
		case geoh5.AssocObject:
		default:
			elemCols = append(elemCols, col)
		}
	}

	if len(depthCols) == 0 {
		return drillholeTrace(traj, elemCols)
	}
	return drillholeIntervals(traj, depthCols, elemCols)
}

// drillholeTrace builds the hole path as a single connected poly-line with
// the station depths attached per vertex.
func drillholeTrace(traj *trajectory, cols []geoh5.DataColumn) (mesh.Mesh, error) {
	m := mesh.NewLineSet(traj.pos, nil)
	if err := m.AddAttribute(mesh.Floats64("depth", mesh.PerVertex, traj.depths)); err != nil {
		return nil, err
	}
	if err := attachColumns(m, cols); err != nil {
		return nil, err
	}
	return m, nil
}

// drillholeIntervals builds one two-vertex segment per from-to interval. The
// first depth column's interval table defines the geometry; every depth
// column's values attach per cell, alongside generated from and to depth
// attributes. Gaps between intervals stay gaps.
func drillholeIntervals(traj *trajectory, depthCols, elemCols []geoh5.DataColumn) (mesh.Mesh, error) {
	intervals := depthCols[0].FromTo
	if intervals == nil {
		return nil, fmt.Errorf("depth data %q has no From-To intervals", depthCols[0].Name)
	}
	verts := make([]r3.Vec, 0, 2*len(intervals))
	segs := make([][2]int, len(intervals))
	froms := make([]float64, len(intervals))
	tos := make([]float64, len(intervals))
	for i, ft := range intervals {
		verts = append(verts, traj.at(ft[0]), traj.at(ft[1]))
		segs[i] = [2]int{2 * i, 2*i + 1}
		froms[i], tos[i] = ft[0], ft[1]
	}
	m := mesh.NewLineSet(verts, segs)
	if err := m.AddAttribute(mesh.Floats64("from", mesh.PerCell, froms)); err != nil {
		return nil, err
	}
	if err := m.AddAttribute(mesh.Floats64("to", mesh.PerCell, tos)); err != nil {
		return nil, err
	}
	for _, col := range depthCols {
		if err := m.AddAttribute(toAttribute(col, mesh.PerCell)); err != nil {
			return nil, err
		}
	}
	if err := attachColumns(m, elemCols); err != nil {
		return nil, err
	}
	return m, nil
}
