package walk

import (
	"fmt"
	"go/types"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/naming"
)

// AccessProperty is the access directive value that selects getter-based members.
const AccessProperty = "property"

// defaultBasicTypes are declared types stored as a single document value.
var defaultBasicTypes = typeIDs(
	reflect.TypeFor[time.Time](),
	reflect.TypeFor[time.Duration](),
	reflect.TypeFor[big.Int](),
	reflect.TypeFor[big.Float](),
	reflect.TypeFor[big.Rat](),
	reflect.TypeFor[primitive.ObjectID](),
	reflect.TypeFor[primitive.DateTime](),
	reflect.TypeFor[primitive.Decimal128](),
	reflect.TypeFor[primitive.Timestamp](),
	reflect.TypeFor[primitive.Regex](),
	reflect.TypeFor[strfmt.DateTime](),
	reflect.TypeFor[strfmt.Date](),
	reflect.TypeFor[strfmt.Duration](),
	reflect.TypeFor[strfmt.ObjectId](),
	reflect.TypeFor[strfmt.UUID](),
	reflect.TypeFor[strfmt.Email](),
)

func typeIDs(ts ...reflect.Type) map[analyze.TypeID]struct{} {
	out := make(map[analyze.TypeID]struct{}, len(ts))
	for _, t := range ts {
		out[analyze.TypeID{PkgPath: t.PkgPath(), Name: t.Name()}] = struct{}{}
	}

	return out
}

// Walker turns entity members into attribute descriptors.
type Walker struct {
	graph      *analyze.TypeGraph
	tracker    Tracker
	containers analyze.ContainerTable
	basics     map[analyze.TypeID]struct{}
	diags      *diagnostic.Diagnostics
	cache      map[analyze.TypeID][]AttributeDescriptor
}

// Option configures a Walker.
type Option func(*Walker)

// WithContainers registers generic container types.
func WithContainers(table analyze.ContainerTable) Option {
	return func(w *Walker) {
		for id, k := range table {
			w.containers[id] = k
		}
	}
}

// WithBasicTypes adds declared types that are stored as single values.
func WithBasicTypes(ids ...analyze.TypeID) Option {
	return func(w *Walker) {
		for _, id := range ids {
			w.basics[id] = struct{}{}
		}
	}
}

// WithDiagnostics collects walker warnings into diags.
func WithDiagnostics(diags *diagnostic.Diagnostics) Option {
	return func(w *Walker) {
		w.diags = diags
	}
}

// New creates a Walker over graph.
func New(graph *analyze.TypeGraph, tracker Tracker, opts ...Option) *Walker {
	w := &Walker{
		graph:      graph,
		tracker:    tracker,
		containers: analyze.ContainerTable{},
		basics:     make(map[analyze.TypeID]struct{}, len(defaultBasicTypes)),
		diags:      &diagnostic.Diagnostics{},
		cache:      map[analyze.TypeID][]AttributeDescriptor{},
	}

	for id := range defaultBasicTypes {
		w.basics[id] = struct{}{}
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Containers returns the container table in effect.
func (w *Walker) Containers() analyze.ContainerTable {
	return w.containers
}

// Resolve returns the attributes info declares itself, in declaration order.
// Results are cached per type.
func (w *Walker) Resolve(info *analyze.TypeInfo) []AttributeDescriptor {
	if attrs, ok := w.cache[info.ID]; ok {
		return attrs
	}

	var attrs []AttributeDescriptor

	w.checkEmbedded(info)

	for _, m := range w.members(info) {
		if attr, ok := w.classify(info, m); ok {
			attrs = append(attrs, attr)
		}
	}

	w.cache[info.ID] = attrs

	return attrs
}

// Parent returns the struct info embeds with bson inline, or nil. A plain
// embedded struct is stored as a subdocument and is not a superclass.
func (w *Walker) Parent(info *analyze.TypeInfo) *analyze.TypeInfo {
	for i := range info.Fields {
		if parent := w.embeddedStruct(&info.Fields[i]); parent != nil && info.Fields[i].IsInline() {
			return parent
		}
	}

	return nil
}

func (w *Walker) embeddedStruct(f *analyze.FieldInfo) *analyze.TypeInfo {
	if !f.Embedded || f.IsTransient() {
		return nil
	}

	parent := w.graph.Lookup(f.Type)
	if parent == nil || !parent.IsStruct() {
		return nil
	}

	return parent
}

// checkEmbedded warns about embedded structs without bson inline: their
// fields live under a subdocument key and are neither inherited nor mapped.
func (w *Walker) checkEmbedded(info *analyze.TypeInfo) {
	for i := range info.Fields {
		f := &info.Fields[i]
		if w.embeddedStruct(f) == nil || f.IsInline() {
			continue
		}

		w.diags.AddWarning(diagnostic.CodeEmbeddedNotInline,
			fmt.Sprintf("embedded %s is stored as subdocument %q; add bson:\",inline\" to inherit its attributes",
				TypeString(f.Type), f.StorageName()),
			info.ID.String(), f.Name)
	}
}

// Superclass returns the nearest tracked ancestor of info, or nil.
func (w *Walker) Superclass(info *analyze.TypeInfo) *analyze.TypeInfo {
	for p := w.Parent(info); p != nil; p = w.Parent(p) {
		if w.trackedAncestor(info, p) {
			return p
		}
	}

	return nil
}

// Inherited returns the attributes of the tracked ancestors of info, root first.
func (w *Walker) Inherited(info *analyze.TypeInfo) []AttributeDescriptor {
	var chain []*analyze.TypeInfo

	seen := map[analyze.TypeID]bool{info.ID: true}

	for p := w.Parent(info); p != nil && !seen[p.ID]; p = w.Parent(p) {
		seen[p.ID] = true

		if w.trackedAncestor(info, p) {
			chain = append(chain, p)
		}
	}

	var out []AttributeDescriptor

	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, w.Resolve(chain[i])...)
	}

	return out
}

// All returns inherited attributes followed by the attributes info declares.
func (w *Walker) All(info *analyze.TypeInfo) []AttributeDescriptor {
	return append(w.Inherited(info), w.Resolve(info)...)
}

// References returns the embeddable types the attributes of info point at,
// directly or as collection elements, in attribute order.
func (w *Walker) References(info *analyze.TypeInfo) []*analyze.TypeInfo {
	var out []*analyze.TypeInfo

	seen := map[analyze.TypeID]bool{}

	add := func(t types.Type) {
		if t == nil || w.IsBasic(t) {
			return
		}

		ref := w.graph.Lookup(t)
		if ref == nil || !ref.HasDirective(analyze.DirectiveEmbeddable) || seen[ref.ID] {
			return
		}

		seen[ref.ID] = true
		out = append(out, ref)
	}

	for _, attr := range w.All(info) {
		add(attr.Type)
		add(attr.Elem)
	}

	return out
}

// Reaches reports whether target is reachable from info through attribute
// types. info itself is only reached through a cycle.
func (w *Walker) Reaches(info *analyze.TypeInfo, target analyze.TypeID) bool {
	seen := map[analyze.TypeID]bool{}
	stack := []*analyze.TypeInfo{info}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, ref := range w.References(cur) {
			if ref.ID == target {
				return true
			}

			if !seen[ref.ID] {
				seen[ref.ID] = true
				stack = append(stack, ref)
			}
		}
	}

	return false
}

// trackedAncestor decides whether ancestor contributes attributes to owner.
// Registered types always do; otherwise only a declared entity or mapped
// superclass does, and never for a meta-complete owner.
func (w *Walker) trackedAncestor(owner, ancestor *analyze.TypeInfo) bool {
	if w.tracker != nil && w.tracker.Tracked(ancestor.ID) {
		return true
	}

	if w.tracker != nil && w.tracker.MetaComplete(owner.ID) {
		return false
	}

	return ancestor.HasDirective(analyze.DirectiveEntity) || ancestor.HasDirective(analyze.DirectiveMappedSuperclass)
}

// member is a candidate attribute before classification.
type member struct {
	name       string
	storage    string
	typ        types.Type
	identifier bool
	getter     string
}

// members lists the candidate members of info for its access type.
func (w *Walker) members(info *analyze.TypeInfo) []member {
	if d, ok := info.Directive(analyze.DirectiveEntity); ok && d.Arg("access") == AccessProperty {
		return w.propertyMembers(info)
	}

	var out []member

	for i := range info.Fields {
		f := &info.Fields[i]
		if !f.Exported || f.Embedded || f.IsTransient() {
			continue
		}

		out = append(out, member{
			name:       f.Name,
			storage:    f.StorageName(),
			typ:        f.Type,
			identifier: f.IsIdentifier(),
		})
	}

	return out
}

func (w *Walker) propertyMembers(info *analyze.TypeInfo) []member {
	var out []member

	for _, m := range info.Methods {
		prop, ok := naming.PropertyOfGetter(m.Name, isBool(m.Result))
		if !ok {
			continue
		}

		mem := member{
			name:    prop,
			storage: strings.ToLower(prop),
			typ:     m.Result,
			getter:  m.Name,
		}

		if f := backingField(info, prop); f != nil {
			if f.IsTransient() {
				continue
			}

			mem.storage = f.StorageName()
			mem.identifier = f.IsIdentifier()
		}

		out = append(out, mem)
	}

	return out
}

func backingField(info *analyze.TypeInfo, prop string) *analyze.FieldInfo {
	for i := range info.Fields {
		if strings.EqualFold(info.Fields[i].Name, prop) && !info.Fields[i].Embedded {
			return &info.Fields[i]
		}
	}

	return nil
}

// classify dispatches on the member's shape. It returns false for relations
// and unsupported members.
func (w *Walker) classify(owner *analyze.TypeInfo, m member) (AttributeDescriptor, bool) {
	attr := AttributeDescriptor{
		Name:        m.name,
		StorageName: m.storage,
		Type:        m.typ,
		TypeName:    TypeString(m.typ),
		Kind:        AttributeSingle,
		Identifier:  m.identifier,
		Getter:      m.getter,
		Owner:       owner.ID,
	}

	switch analyze.ShapeOf(m.typ, w.containers) {
	case analyze.ShapePrimitive, analyze.ShapeArray:
		return attr, true

	case analyze.ShapeCollection:
		w.collection(owner, &attr)
		return attr, true

	case analyze.ShapeTypeVariable:
		attr.Type = erase(m.typ)
		attr.TypeName = TypeString(attr.Type)

		return attr, true

	case analyze.ShapeDeclared:
		if m.identifier || w.IsBasic(m.typ) {
			return attr, true
		}

		if w.embeddable(m.typ) {
			return attr, true
		}

		return AttributeDescriptor{}, false

	default:
		return attr, m.identifier
	}
}

func (w *Walker) collection(owner *analyze.TypeInfo, attr *AttributeDescriptor) {
	attr.Kind = AttributeCollection
	attr.Container, _ = w.containers.Lookup(attr.Type)

	var elem types.Type

	switch args := analyze.TypeArgs(attr.Type); len(args) {
	case 1:
		elem = args[0]
	case 2:
		elem = args[1]
	default:
		w.diags.AddWarning(diagnostic.CodeAnomalousTypeArgs,
			fmt.Sprintf("%s has %d type arguments; element type unknown", attr.TypeName, len(args)),
			owner.ID.String(), attr.Name)

		attr.ElemName = Unknown

		return
	}

	if _, ok := types.Unalias(elem).(*types.TypeParam); ok {
		elem = erase(elem)
	}

	attr.Elem = elem
	attr.ElemName = TypeString(elem)

	w.embeddable(elem)
}

// embeddable registers t with the tracker when it is a declared embeddable.
func (w *Walker) embeddable(t types.Type) bool {
	info := w.graph.Lookup(t)
	if info == nil || !info.HasDirective(analyze.DirectiveEmbeddable) {
		return false
	}

	if w.tracker != nil {
		w.tracker.AddEmbeddable(info)
	}

	return true
}

// IsBasic reports whether a declared type is stored as a single value:
// named types over a basic kind, and the registered basic types.
func (w *Walker) IsBasic(t types.Type) bool {
	named, ok := analyze.Deref(t).(*types.Named)
	if !ok {
		return false
	}

	if _, ok := named.Underlying().(*types.Basic); ok {
		return true
	}

	_, ok = w.basics[analyze.IDOf(named)]

	return ok
}

// erase replaces a type parameter by its bound, or any when unbounded.
func erase(t types.Type) types.Type {
	if c := analyze.Concrete(t); c != nil {
		return c
	}

	return anyType
}

func isBool(t types.Type) bool {
	b, ok := types.Unalias(t).Underlying().(*types.Basic)
	return ok && b.Kind() == types.Bool
}

// TypeString renders t with full package paths.
func TypeString(t types.Type) string {
	return types.TypeString(t, nil)
}
