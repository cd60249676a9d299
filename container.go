package geoh5mesh

import (
	"fmt"

	"github.com/geoforge/geoh5mesh/mesh"
)

// Container is a named, nested collection of converted meshes mirroring a
// workspace's grouping hierarchy. Lookup by name is map-backed; iteration
// follows insertion order. Duplicate names at the same level are
// disambiguated with a deterministic " (n)" suffix, never overwritten.
type Container struct {
	name       string
	meshOrder  []string
	meshes     map[string]mesh.Mesh
	groupOrder []string
	groups     map[string]*Container
}

// NewContainer returns an empty container with the given name.
func NewContainer(name string) *Container {
	return &Container{
		name:   name,
		meshes: make(map[string]mesh.Mesh),
		groups: make(map[string]*Container),
	}
}

// Name returns the container's own name.
func (c *Container) Name() string { return c.name }

// AddMesh inserts m under the given name, suffixing the name if it is
// already taken at this level. The name actually used is returned.
func (c *Container) AddMesh(name string, m mesh.Mesh) string {
	name = c.uniqueName(name)
	c.meshes[name] = m
	c.meshOrder = append(c.meshOrder, name)
	return name
}

// AddGroup inserts and returns a new child container, suffixing its name if
// it is already taken at this level.
func (c *Container) AddGroup(name string) *Container {
	name = c.uniqueName(name)
	g := NewContainer(name)
	c.groups[name] = g
	c.groupOrder = append(c.groupOrder, name)
	return g
}

// uniqueName resolves name collisions across both meshes and child groups at
// this level, so "Topography" the mesh and "Topography" the group cannot
// shadow one another.
func (c *Container) uniqueName(name string) string {
	taken := func(n string) bool {
		_, m := c.meshes[n]
		_, g := c.groups[n]
		return m || g
	}
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Mesh looks up a mesh at this level by name.
func (c *Container) Mesh(name string) (mesh.Mesh, bool) {
	m, ok := c.meshes[name]
	return m, ok
}

// Group looks up a child container at this level by name.
func (c *Container) Group(name string) (*Container, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// MeshNames returns the mesh names at this level in insertion order.
func (c *Container) MeshNames() []string {
	return append([]string(nil), c.meshOrder...)
}

// GroupNames returns the child container names at this level in insertion
// order.
func (c *Container) GroupNames() []string {
	return append([]string(nil), c.groupOrder...)
}

// Len returns the total number of meshes in the container and all of its
// descendants.
func (c *Container) Len() int {
	n := len(c.meshes)
	for _, name := range c.groupOrder {
		n += c.groups[name].Len()
	}
	return n
}

// NamedMesh is one leaf of a flattened container.
type NamedMesh struct {
	// Path is the slash-joined group path of the mesh, e.g. "Drill/DH-01".
	Path string
	Mesh mesh.Mesh
}

// Flatten returns every mesh in the container, depth-first in insertion
// order, with slash-joined paths.
func (c *Container) Flatten() []NamedMesh {
	var out []NamedMesh
	c.flattenInto("", &out)
	return out
}

func (c *Container) flattenInto(prefix string, out *[]NamedMesh) {
	for _, name := range c.meshOrder {
		*out = append(*out, NamedMesh{Path: prefix + name, Mesh: c.meshes[name]})
	}
	for _, name := range c.groupOrder {
		c.groups[name].flattenInto(prefix+name+"/", out)
	}
}
