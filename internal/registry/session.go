package registry

import (
	"log/slog"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// Session is the registry of one generation run.
type Session struct {
	graph  *analyze.TypeGraph
	file   *spec.File
	diags  *diagnostic.Diagnostics
	logger *slog.Logger
	walker *walk.Walker
	index  map[analyze.TypeID]*spec.Entity

	types      map[analyze.TypeID]*TypeDescriptor
	direct     []analyze.TypeID
	embeddable []analyze.TypeID
	emitted    map[analyze.TypeID]bool

	dirtyOwner analyze.TypeID
	dirty      map[string]struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiagnostics collects session diagnostics into diags.
func WithDiagnostics(diags *diagnostic.Diagnostics) Option {
	return func(s *Session) {
		if diags != nil {
			s.diags = diags
		}
	}
}

// NewSession creates a session over graph and the (optional) spec file and
// discovers the direct entities.
func NewSession(graph *analyze.TypeGraph, file *spec.File, opts ...Option) *Session {
	if file == nil {
		file = &spec.File{}
	}

	s := &Session{
		graph:   graph,
		file:    file,
		diags:   &diagnostic.Diagnostics{},
		logger:  slog.Default(),
		types:   map[analyze.TypeID]*TypeDescriptor{},
		emitted: map[analyze.TypeID]bool{},
		dirty:   map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.walker = walk.New(graph, s,
		walk.WithContainers(file.ContainerTable()),
		walk.WithBasicTypes(file.BasicTypeIDs()...),
		walk.WithDiagnostics(s.diags),
	)

	s.discover()

	return s
}

// discover registers, in graph order, every type declared as an entity or
// mapped superclass and every type the spec file describes.
func (s *Session) discover() {
	s.index = s.file.Index(s.graph)

	for _, info := range s.graph.Ordered() {
		entry := s.index[info.ID]

		declared := info.HasDirective(analyze.DirectiveEntity) || info.HasDirective(analyze.DirectiveMappedSuperclass)
		if !declared && entry == nil {
			continue
		}

		if !info.IsStruct() {
			s.diags.AddWarning(diagnostic.CodeEntityTypeNotFound, "entity is not a struct type", info.ID.String(), "")
			continue
		}

		s.types[info.ID] = newTypeDescriptor(info, entry, false)
		s.direct = append(s.direct, info.ID)

		s.logger.Debug("discovered entity", slog.String("type", info.ID.String()))
	}
}

// Graph returns the type graph of the run.
func (s *Session) Graph() *analyze.TypeGraph {
	return s.graph
}

// Diagnostics returns the run diagnostics.
func (s *Session) Diagnostics() *diagnostic.Diagnostics {
	return s.diags
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Walker returns the attribute walker bound to this session.
func (s *Session) Walker() *walk.Walker {
	return s.walker
}

// Get returns the descriptor of id, or nil.
func (s *Session) Get(id analyze.TypeID) *TypeDescriptor {
	return s.types[id]
}

// Direct returns the direct entities in discovery order.
func (s *Session) Direct() []*TypeDescriptor {
	return s.descriptors(s.direct)
}

// Embeddables returns the embeddables registered so far, in registration order.
func (s *Session) Embeddables() []*TypeDescriptor {
	return s.descriptors(s.embeddable)
}

// PendingEmbeddables returns the registered embeddables not yet emitted.
func (s *Session) PendingEmbeddables() []*TypeDescriptor {
	var out []*TypeDescriptor

	for _, id := range s.embeddable {
		if !s.emitted[id] {
			out = append(out, s.types[id])
		}
	}

	return out
}

func (s *Session) descriptors(ids []analyze.TypeID) []*TypeDescriptor {
	out := make([]*TypeDescriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.types[id])
	}

	return out
}

// Tracked reports whether id is a direct entity or mapped superclass.
func (s *Session) Tracked(id analyze.TypeID) bool {
	td, ok := s.types[id]
	return ok && !td.Embeddable
}

// MetaComplete reports whether id is fully spec-driven.
func (s *Session) MetaComplete(id analyze.TypeID) bool {
	td, ok := s.types[id]
	return ok && td.MetaComplete
}

// AddEmbeddable registers an embeddable found by reference. Types already
// tracked are left alone.
func (s *Session) AddEmbeddable(info *analyze.TypeInfo) {
	if _, ok := s.types[info.ID]; ok {
		return
	}

	s.types[info.ID] = newTypeDescriptor(info, s.index[info.ID], true)
	s.embeddable = append(s.embeddable, info.ID)

	s.logger.Debug("registered embeddable", slog.String("type", info.ID.String()))
}

// Attributes returns the inherited and own attributes of td.
func (s *Session) Attributes(td *TypeDescriptor) []walk.AttributeDescriptor {
	return s.walker.All(td.Info)
}

// OwnAttributes returns the attributes td declares itself.
func (s *Session) OwnAttributes(td *TypeDescriptor) []walk.AttributeDescriptor {
	return s.walker.Resolve(td.Info)
}

// InheritedAttributes returns the attributes of td's tracked ancestors.
func (s *Session) InheritedAttributes(td *TypeDescriptor) []walk.AttributeDescriptor {
	return s.walker.Inherited(td.Info)
}

// Superclass returns the descriptor of td's nearest tracked ancestor, or nil.
// An ancestor outside the loaded packages gets an unregistered descriptor.
func (s *Session) Superclass(td *TypeDescriptor) *TypeDescriptor {
	parent := s.walker.Superclass(td.Info)
	if parent == nil {
		return nil
	}

	if d, ok := s.types[parent.ID]; ok {
		return d
	}

	return newTypeDescriptor(parent, s.index[parent.ID], false)
}

// SuperclassName returns the qualified name of td's nearest tracked ancestor.
func (s *Session) SuperclassName(td *TypeDescriptor) string {
	if sc := s.Superclass(td); sc != nil {
		return sc.QualifiedName()
	}

	return ""
}

// MarkEmitted records id as emitted. It reports false when id was already emitted.
func (s *Session) MarkEmitted(id analyze.TypeID) bool {
	if s.emitted[id] {
		return false
	}

	s.emitted[id] = true

	return true
}

// IsEmitted reports whether id has been emitted.
func (s *Session) IsEmitted(id analyze.TypeID) bool {
	return s.emitted[id]
}

// ImportDirty adds pkgPath, declaring package name, to the entity's import
// set. The name may be blank. The path is recorded in the scratch set only
// when the entity did not import it already.
func (s *Session) ImportDirty(td *TypeDescriptor, pkgPath, name string) string {
	if td.Imports.Has(pkgPath) || pkgPath == "" {
		return td.Imports.AddNamed(pkgPath, name)
	}

	if len(s.dirty) > 0 && s.dirtyOwner != td.ID() {
		s.logger.Warn("dirty imports of another entity were not cleared",
			slog.String("owner", s.dirtyOwner.String()), slog.String("type", td.QualifiedName()))
	}

	s.dirtyOwner = td.ID()
	s.dirty[pkgPath] = struct{}{}

	return td.Imports.AddNamed(pkgPath, name)
}

// ClearDirty removes the scratch imports from the entity and empties the scratch set.
func (s *Session) ClearDirty(td *TypeDescriptor) {
	for p := range s.dirty {
		td.Imports.Remove(p)
	}

	clear(s.dirty)
	s.dirtyOwner = analyze.TypeID{}
}

// Dirty returns the scratch import paths.
func (s *Session) Dirty() []string {
	out := make([]string, 0, len(s.dirty))
	for p := range s.dirty {
		out = append(out, p)
	}

	return out
}
