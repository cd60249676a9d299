// Package geoh5mesh converts geoh5 geoscience workspaces into
// visualization-ready meshes. LoadProject opens a workspace file, converts
// every supported entity (points, curves, surfaces, block models and
// drillholes) into its mesh counterpart and returns a nested named container
// mirroring the workspace's grouping hierarchy, together with a report of
// anything that was skipped.
//
// Conversion is partial-success by design: a file that cannot be opened is a
// fatal error, while an entity that cannot be converted is skipped with a
// recorded reason and the load continues.
package geoh5mesh

import (
	"errors"

	"github.com/geoforge/geoh5mesh/geoh5"
	"github.com/geoforge/geoh5mesh/mesh"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind identifies a supported entity kind, for load filtering.
type Kind uint8

const (
	KindPoints Kind = iota + 1
	KindCurve
	KindSurface
	KindBlockModel
	KindDrillhole
)

func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindCurve:
		return "curve"
	case KindSurface:
		return "surface"
	case KindBlockModel:
		return "blockmodel"
	case KindDrillhole:
		return "drillhole"
	}
	return "unknown"
}

func kindOf(e geoh5.Entity) (Kind, bool) {
	switch e.(type) {
	case *geoh5.Points:
		return KindPoints, true
	case *geoh5.Curve:
		return KindCurve, true
	case *geoh5.Surface:
		return KindSurface, true
	case *geoh5.BlockModel:
		return KindBlockModel, true
	case *geoh5.Drillhole:
		return KindDrillhole, true
	}
	return 0, false
}

// Option configures a load.
type Option func(*loader)

// WithLogger routes load progress and skip warnings to log. The default
// logger is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(l *loader) { l.log = log }
}

// WithKinds restricts the load to the given entity kinds. Entities of other
// supported kinds are filtered, counted but not reported as skips.
func WithKinds(kinds ...Kind) Option {
	return func(l *loader) {
		l.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			l.kinds[k] = true
		}
	}
}

// Skip records one entity left out of the assembled container and why.
type Skip struct {
	Entity string
	Reason string
	Err    error
}

// Skip reasons, the full per-entity failure taxonomy.
const (
	ReasonUnsupported = "unsupported type"
	ReasonMismatch    = "attribute length mismatch"
	ReasonMalformed   = "malformed geometry"
	ReasonReadFailure = "read failure"
)

// Report summarizes a load: how many entities converted, which were skipped
// and why, and how many were filtered out by options.
type Report struct {
	Converted int
	Filtered  int
	Skipped   []Skip
	// Warnings holds non-fatal notes about converted entities, such as a
	// rotated block model rendered axis-aligned.
	Warnings []string
}

// Source is the workspace view a load consumes. *geoh5.Workspace implements
// it; tests may substitute in-memory fixtures.
type Source interface {
	Entities() []geoh5.Entity
	Groups() []geoh5.ContainerGroup
	Warnings() []geoh5.ReadWarning
}

type loader struct {
	log   *zap.Logger
	kinds map[Kind]bool // nil means all kinds
}

// LoadProject opens the geoh5 file at path, converts its entities and
// assembles them into a container mirroring the workspace hierarchy. The
// file handle is held only for the duration of the call; the returned
// container and report are fully owned by the caller.
//
// Only a file-level open or parse failure returns a non-nil error. Entity
// level failures are reported through the Report.
func LoadProject(path string, opts ...Option) (*Container, *Report, error) {
	w, err := geoh5.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer w.Close()
	c, r := Assemble(w, opts...)
	return c, r, nil
}

// Assemble converts and assembles every entity of an already opened source.
// It never fails as a whole; per-entity failures land in the report.
func Assemble(src Source, opts ...Option) (*Container, *Report) {
	l := &loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}

	report := &Report{}
	for _, rw := range src.Warnings() {
		report.Skipped = append(report.Skipped, Skip{Entity: rw.Entity, Reason: ReasonReadFailure, Err: rw.Err})
		l.log.Warn("entity unreadable", zap.String("entity", rw.Entity), zap.Error(rw.Err))
	}

	root := NewContainer("project")
	byUID := l.assembleGroups(root, src.Groups())

	for _, e := range src.Entities() {
		info := e.Info()
		if kind, ok := kindOf(e); ok && l.kinds != nil && !l.kinds[kind] {
			report.Filtered++
			continue
		}
		if b, ok := e.(*geoh5.BlockModel); ok && b.Rotation != 0 {
			note := "block model \"" + info.Name + "\" is rotated; grid is assembled axis-aligned"
			report.Warnings = append(report.Warnings, note)
			l.log.Warn("block model rotation ignored",
				zap.String("entity", info.Name), zap.Float64("rotation", b.Rotation))
		}
		m, err := Convert(e)
		if err != nil {
			report.Skipped = append(report.Skipped, Skip{
				Entity: info.Name,
				Reason: skipReason(err),
				Err:    err,
			})
			l.log.Warn("entity skipped",
				zap.String("entity", info.Name),
				zap.String("reason", skipReason(err)),
				zap.Error(err))
			continue
		}
		parent := root
		if g, ok := byUID[info.Parent]; ok {
			parent = g
		}
		parent.AddMesh(info.Name, m)
		report.Converted++
	}

	l.log.Info("project assembled",
		zap.Int("converted", report.Converted),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("filtered", report.Filtered))
	return root, report
}

// assembleGroups mirrors the workspace grouping hierarchy under root and
// returns the UID to container index used to place entities. A group whose
// parent is missing, not yet known, or self-referential attaches to root.
func (l *loader) assembleGroups(root *Container, groups []geoh5.ContainerGroup) map[uuid.UUID]*Container {
	byUID := make(map[uuid.UUID]*Container, len(groups))
	parents := make(map[uuid.UUID]uuid.UUID, len(groups))
	names := make(map[uuid.UUID]string, len(groups))
	order := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		if g.UID == uuid.Nil {
			// Anonymous group records cannot be referenced by entities.
			continue
		}
		parents[g.UID] = g.Parent
		names[g.UID] = g.Name
		order = append(order, g.UID)
	}

	var place func(uid uuid.UUID, seen map[uuid.UUID]bool) *Container
	place = func(uid uuid.UUID, seen map[uuid.UUID]bool) *Container {
		if c, ok := byUID[uid]; ok {
			return c
		}
		parent := root
		p := parents[uid]
		if p != uuid.Nil && p != uid && !seen[p] {
			if _, known := parents[p]; known {
				seen[uid] = true
				parent = place(p, seen)
			}
		}
		c := parent.AddGroup(names[uid])
		byUID[uid] = c
		return c
	}
	for _, uid := range order {
		place(uid, map[uuid.UUID]bool{uid: true})
	}
	return byUID
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedKind):
		return ReasonUnsupported
	case errors.Is(err, mesh.ErrLengthMismatch):
		return ReasonMismatch
	default:
		return ReasonMalformed
	}
}
