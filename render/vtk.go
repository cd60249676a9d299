package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/geoforge/geoh5mesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteLegacyVTK writes any converted mesh to w in the ASCII legacy VTK
// format, attributes included, so conversion results can be inspected in
// standard viewers. Point clouds, line sets and surfaces map to POLYDATA;
// grids map to RECTILINEAR_GRID.
func WriteLegacyVTK(w io.Writer, title string, m mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# vtk DataFile Version 3.0")
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, "ASCII")

	var err error
	switch v := m.(type) {
	case *mesh.PointSet:
		err = writePolyData(bw, v.XYZ, "VERTICES", vertexCells(len(v.XYZ)))
	case *mesh.LineSet:
		err = writePolyData(bw, v.XYZ, "LINES", segmentCells(v.Segments))
	case *mesh.TriangleSurface:
		err = writePolyData(bw, v.XYZ, "POLYGONS", triangleCells(v.Triangles))
	case *mesh.RectilinearGrid:
		err = writeRectilinear(bw, v)
	default:
		return fmt.Errorf("no VTK mapping for mesh type %T", m)
	}
	if err != nil {
		return err
	}
	if err := writeAttributes(bw, m); err != nil {
		return err
	}
	return bw.Flush()
}

// CreateLegacyVTK writes a converted mesh to a .vtk file at path.
func CreateLegacyVTK(path, title string, m mesh.Mesh) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLegacyVTK(file, title, m); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func vertexCells(n int) [][]int {
	cells := make([][]int, n)
	for i := range cells {
		cells[i] = []int{i}
	}
	return cells
}

func segmentCells(segments [][2]int) [][]int {
	cells := make([][]int, len(segments))
	for i, s := range segments {
		cells[i] = []int{s[0], s[1]}
	}
	return cells
}

func triangleCells(triangles [][3]int) [][]int {
	cells := make([][]int, len(triangles))
	for i, t := range triangles {
		cells[i] = []int{t[0], t[1], t[2]}
	}
	return cells
}

func writePolyData(w *bufio.Writer, pts []r3.Vec, section string, cells [][]int) error {
	fmt.Fprintln(w, "DATASET POLYDATA")
	fmt.Fprintf(w, "POINTS %d double\n", len(pts))
	for _, p := range pts {
		fmt.Fprintf(w, "%g %g %g\n", p.X, p.Y, p.Z)
	}
	size := 0
	for _, c := range cells {
		size += 1 + len(c)
	}
	fmt.Fprintf(w, "%s %d %d\n", section, len(cells), size)
	for _, c := range cells {
		fmt.Fprintf(w, "%d", len(c))
		for _, idx := range c {
			fmt.Fprintf(w, " %d", idx)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeRectilinear(w *bufio.Writer, g *mesh.RectilinearGrid) error {
	fmt.Fprintln(w, "DATASET RECTILINEAR_GRID")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", len(g.XOffsets), len(g.YOffsets), len(g.ZOffsets))
	writeCoords := func(axis string, origin float64, offsets []float64) {
		fmt.Fprintf(w, "%s_COORDINATES %d double\n", axis, len(offsets))
		for i, off := range offsets {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%g", origin+off)
		}
		fmt.Fprintln(w)
	}
	writeCoords("X", g.Origin.X, g.XOffsets)
	writeCoords("Y", g.Origin.Y, g.YOffsets)
	writeCoords("Z", g.Origin.Z, g.ZOffsets)
	return nil
}

func writeAttributes(w *bufio.Writer, m mesh.Mesh) error {
	var vertexAttrs, cellAttrs []mesh.Attribute
	for _, a := range m.Attributes() {
		if a.Association == mesh.PerVertex {
			vertexAttrs = append(vertexAttrs, a)
		} else {
			cellAttrs = append(cellAttrs, a)
		}
	}
	if len(vertexAttrs) > 0 {
		fmt.Fprintf(w, "POINT_DATA %d\n", m.VertexCount())
		for _, a := range vertexAttrs {
			writeScalars(w, a)
		}
	}
	if len(cellAttrs) > 0 {
		fmt.Fprintf(w, "CELL_DATA %d\n", m.CellCount())
		for _, a := range cellAttrs {
			writeScalars(w, a)
		}
	}
	return nil
}

func writeScalars(w *bufio.Writer, a mesh.Attribute) {
	name := vtkName(a.Name)
	if a.IsCategorical() {
		// Categorical data is written as its integer codes; viewers color
		// by code the same way the encoded source would.
		fmt.Fprintf(w, "SCALARS %s int 1\n", name)
		fmt.Fprintln(w, "LOOKUP_TABLE default")
		for _, code := range a.Codes {
			fmt.Fprintln(w, code)
		}
		return
	}
	fmt.Fprintf(w, "SCALARS %s double 1\n", name)
	fmt.Fprintln(w, "LOOKUP_TABLE default")
	for _, v := range a.Floats {
		fmt.Fprintf(w, "%g\n", v)
	}
}

// vtkName replaces the whitespace the legacy format cannot carry in array
// names.
func vtkName(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == ' ' || r == '\t' {
			out[i] = '_'
		}
	}
	return string(out)
}
