package mesh

import "errors"

// ErrLengthMismatch reports an attribute array whose length differs from the
// element count it is being attached to. Conversions fail fast on it rather
// than truncating or padding.
var ErrLengthMismatch = errors.New("attribute length does not match element count")

// Association says which mesh elements an attribute's values belong to.
type Association uint8

const (
	// PerVertex attributes hold one value per mesh vertex.
	PerVertex Association = iota
	// PerCell attributes hold one value per mesh cell.
	PerCell
)

func (a Association) String() string {
	switch a {
	case PerVertex:
		return "vertex"
	case PerCell:
		return "cell"
	}
	return "unknown"
}

// Attribute is a named data array bound to the vertices or cells of a mesh.
// Continuous data lives in Floats. Categorical data is stored encoded: Codes
// holds one category index per element and Categories maps the index back to
// its label, mirroring how string arrays survive in visualization pipelines.
type Attribute struct {
	Name        string
	Association Association
	Floats      []float64
	Codes       []int
	Categories  []string
}

// Floats64 builds a continuous attribute over a copy of values.
func Floats64(name string, assoc Association, values []float64) Attribute {
	return Attribute{
		Name:        name,
		Association: assoc,
		Floats:      append([]float64(nil), values...),
	}
}

// Categorical builds an encoded attribute from raw string labels. Labels are
// assigned codes in order of first appearance, which keeps the encoding
// deterministic for a given input order.
func Categorical(name string, assoc Association, labels []string) Attribute {
	a := Attribute{Name: name, Association: assoc, Codes: make([]int, len(labels))}
	seen := make(map[string]int)
	for i, label := range labels {
		code, ok := seen[label]
		if !ok {
			code = len(a.Categories)
			seen[label] = code
			a.Categories = append(a.Categories, label)
		}
		a.Codes[i] = code
	}
	return a
}

// IsCategorical reports whether the attribute stores encoded labels.
func (a Attribute) IsCategorical() bool { return a.Categories != nil }

// Len returns the number of values in the attribute.
func (a Attribute) Len() int {
	if a.IsCategorical() {
		return len(a.Codes)
	}
	return len(a.Floats)
}

// Label returns the category label of element i of a categorical attribute.
func (a Attribute) Label(i int) string {
	return a.Categories[a.Codes[i]]
}
