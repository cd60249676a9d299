// Package main provides a command-line utility to inspect geoh5 projects.
// It loads a project, prints the converted mesh tree and the skip report,
// and can export the converted meshes to STL and legacy VTK files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/geoforge/geoh5mesh"
	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/geoforge/geoh5mesh/render"
	"go.uber.org/zap"
)

func main() {
	stlDir := flag.String("stl-dir", "", "Directory to export converted surfaces as binary STL")
	vtkDir := flag.String("vtk-dir", "", "Directory to export all converted meshes as legacy VTK")
	kinds := flag.String("kinds", "", "Comma separated kinds to load (points,curve,surface,blockmodel,drillhole); empty loads all")
	verbose := flag.Bool("v", false, "Log conversion progress and warnings")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: geoh5dump [flags] <project.geoh5>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	opts := []geoh5mesh.Option{}
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer logger.Sync()
		opts = append(opts, geoh5mesh.WithLogger(logger))
	}
	if *kinds != "" {
		ks, err := parseKinds(*kinds)
		if err != nil {
			log.Fatalf("Bad -kinds: %v", err)
		}
		opts = append(opts, geoh5mesh.WithKinds(ks...))
	}

	project, report, err := geoh5mesh.LoadProject(args[0], opts...)
	if err != nil {
		log.Fatalf("Failed to load project: %v", err)
	}

	fmt.Printf("%s: %d meshes converted, %d skipped, %d filtered\n",
		filepath.Base(args[0]), report.Converted, len(report.Skipped), report.Filtered)
	printTree(project, "")
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, s := range report.Skipped {
		fmt.Printf("skipped %q: %s (%v)\n", s.Entity, s.Reason, s.Err)
	}

	if *stlDir != "" {
		if err := exportSTL(project, *stlDir); err != nil {
			log.Fatalf("STL export failed: %v", err)
		}
	}
	if *vtkDir != "" {
		if err := exportVTK(project, *vtkDir); err != nil {
			log.Fatalf("VTK export failed: %v", err)
		}
	}
}

func parseKinds(s string) ([]geoh5mesh.Kind, error) {
	all := map[string]geoh5mesh.Kind{
		"points":     geoh5mesh.KindPoints,
		"curve":      geoh5mesh.KindCurve,
		"surface":    geoh5mesh.KindSurface,
		"blockmodel": geoh5mesh.KindBlockModel,
		"drillhole":  geoh5mesh.KindDrillhole,
	}
	var out []geoh5mesh.Kind
	for _, name := range strings.Split(s, ",") {
		k, ok := all[strings.TrimSpace(strings.ToLower(name))]
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
		out = append(out, k)
	}
	return out, nil
}

func printTree(c *geoh5mesh.Container, indent string) {
	for _, name := range c.MeshNames() {
		m, _ := c.Mesh(name)
		fmt.Printf("%s%s  [%s: %d vertices, %d cells, %d attributes]\n",
			indent, name, meshKind(m), m.VertexCount(), m.CellCount(), len(m.Attributes()))
	}
	for _, name := range c.GroupNames() {
		fmt.Printf("%s%s/\n", indent, name)
		g, _ := c.Group(name)
		printTree(g, indent+"  ")
	}
}

func meshKind(m mesh.Mesh) string {
	switch m.(type) {
	case *mesh.PointSet:
		return "points"
	case *mesh.LineSet:
		return "lines"
	case *mesh.TriangleSurface:
		return "surface"
	case *mesh.RectilinearGrid:
		return "grid"
	}
	return "mesh"
}

func exportSTL(project *geoh5mesh.Container, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, nm := range project.Flatten() {
		s, ok := nm.Mesh.(*mesh.TriangleSurface)
		if !ok {
			continue
		}
		path := filepath.Join(dir, fileName(nm.Path)+".stl")
		if err := render.CreateSTL(path, s); err != nil {
			return fmt.Errorf("export %q: %w", nm.Path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func exportVTK(project *geoh5mesh.Container, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, nm := range project.Flatten() {
		path := filepath.Join(dir, fileName(nm.Path)+".vtk")
		if err := render.CreateLegacyVTK(path, nm.Path, nm.Mesh); err != nil {
			return fmt.Errorf("export %q: %w", nm.Path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func fileName(path string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(path)
}
