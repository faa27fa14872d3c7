package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "example.com/app/entity"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IDOf returns the TypeID of a named type's generic origin.
func IDOf(named *types.Named) TypeID {
	obj := named.Origin().Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

// ParseTypeID parses "pkg/path.Name" into a TypeID.
func ParseTypeID(s string) TypeID {
	slash := strings.LastIndex(s, "/")

	dot := strings.LastIndex(s, ".")
	if dot <= slash {
		return TypeID{Name: s}
	}

	return TypeID{PkgPath: s[:dot], Name: s[dot+1:]}
}

// TypeInfo describes a named type in the type graph.
type TypeInfo struct {
	ID         TypeID       // Unique identifier
	Named      *types.Named // The original go/types type
	Directives []Directive  // modelgen directives from the declaration's doc comment
	Fields     []FieldInfo  // For structs, every field in declaration order
	Methods    []MethodInfo // Exported methods with no parameters and one result
}

// IsStruct reports whether the underlying type is a struct.
func (t *TypeInfo) IsStruct() bool {
	_, ok := t.Named.Underlying().(*types.Struct)
	return ok
}

// Directive returns the first directive with the given name.
func (t *TypeInfo) Directive(name string) (Directive, bool) {
	for _, d := range t.Directives {
		if d.Name == name {
			return d, true
		}
	}

	return Directive{}, false
}

// HasDirective reports whether the type declaration carries the named directive.
func (t *TypeInfo) HasDirective(name string) bool {
	_, ok := t.Directive(name)
	return ok
}

// Field returns the field with the given name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     types.Type        // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// BSON parses the field's bson tag the way the mongo driver does.
func (f *FieldInfo) BSON() bsoncodec.StructTags {
	st, err := bsoncodec.DefaultStructTagParser(reflect.StructField{Name: f.Name, Tag: f.Tag})
	if err != nil {
		return bsoncodec.StructTags{Name: strings.ToLower(f.Name)}
	}

	return st
}

// StorageName returns the document key the field is stored under.
func (f *FieldInfo) StorageName() string {
	return f.BSON().Name
}

// IsTransient reports whether the field is never persisted.
func (f *FieldInfo) IsTransient() bool {
	return f.BSON().Skip
}

// IsIdentifier reports whether the field is the document identifier.
func (f *FieldInfo) IsIdentifier() bool {
	if f.GetTag("modelgen") == "id" {
		return true
	}

	return f.StorageName() == "_id"
}

// IsInline reports whether the field is flattened into its parent document.
func (f *FieldInfo) IsInline() bool {
	return f.BSON().Inline
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// MethodInfo describes an exported method taking no parameters and returning one value.
type MethodInfo struct {
	Name   string
	Result types.Type
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	order []TypeID
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Ordered returns the recorded types in discovery order: packages in load
// order, types in declaration order.
func (g *TypeGraph) Ordered() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.Types[id])
	}

	return out
}

// Lookup returns the TypeInfo behind t, looking through pointers.
// Named types from packages that were not loaded are described on the fly
// (without directives).
func (g *TypeGraph) Lookup(t types.Type) *TypeInfo {
	named, ok := Deref(t).(*types.Named)
	if !ok {
		return nil
	}

	if info := g.Types[IDOf(named)]; info != nil {
		return info
	}

	return Describe(named, nil)
}

// LookupTypeName finds the exported type name in pkgPath among the loaded
// packages and everything they import. known is false when no loaded package
// reaches pkgPath, in which case nothing can be said about name.
func (g *TypeGraph) LookupTypeName(pkgPath, name string) (tn *types.TypeName, known bool) {
	pkg := g.reachable(pkgPath)
	if pkg == nil {
		return nil, false
	}

	tn, _ = pkg.Scope().Lookup(name).(*types.TypeName)
	if tn != nil && !tn.Exported() {
		return nil, true
	}

	return tn, true
}

func (g *TypeGraph) reachable(pkgPath string) *types.Package {
	seen := map[*types.Package]bool{}

	var stack []*types.Package

	for _, p := range g.Packages {
		if p.Pkg != nil {
			stack = append(stack, p.Pkg)
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[p] {
			continue
		}

		seen[p] = true

		if p.Path() == pkgPath {
			return p
		}

		stack = append(stack, p.Imports()...)
	}

	return nil
}

// PackageOf returns the package that declares id.
func (g *TypeGraph) PackageOf(id TypeID) *PackageInfo {
	return g.Packages[id.PkgPath]
}

func (g *TypeGraph) add(info *TypeInfo, pkg *PackageInfo) {
	if _, ok := g.Types[info.ID]; ok {
		return
	}

	g.Types[info.ID] = info
	g.order = append(g.order, info.ID)
	pkg.Types = append(pkg.Types, info.ID)
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path       string   // Import path
	Name       string   // Package name
	Dir        string   // Directory holding the package sources
	ModulePath string   // Path of the enclosing module
	ModuleDir  string   // Root directory of the enclosing module
	Types      []TypeID // Named types defined in this package

	Pkg *types.Package
}

// Deref strips pointers and aliases.
func Deref(t types.Type) types.Type {
	for {
		switch tt := types.Unalias(t).(type) {
		case *types.Pointer:
			t = tt.Elem()
		default:
			return tt
		}
	}
}
