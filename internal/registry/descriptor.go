package registry

import (
	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// TypeDescriptor is a tracked type of the run.
type TypeDescriptor struct {
	Info         *analyze.TypeInfo
	Spec         *spec.Entity // nil when the spec file does not mention the type
	MetaComplete bool
	Embeddable   bool
	Imports      *ImportSet // entity-level imports
}

func newTypeDescriptor(info *analyze.TypeInfo, entry *spec.Entity, embeddable bool) *TypeDescriptor {
	td := &TypeDescriptor{
		Info:       info,
		Spec:       entry,
		Embeddable: embeddable,
		Imports:    NewImportSet(""),
	}

	if d, ok := info.Directive(analyze.DirectiveEntity); ok && d.Flag("complete") {
		td.MetaComplete = true
	}

	if entry != nil && entry.MetaComplete {
		td.MetaComplete = true
	}

	td.Imports.AddNamed(info.ID.PkgPath, td.PackageName())

	return td
}

// ID returns the type id.
func (t *TypeDescriptor) ID() analyze.TypeID {
	return t.Info.ID
}

// QualifiedName returns "pkg/path.Name".
func (t *TypeDescriptor) QualifiedName() string {
	return t.Info.ID.String()
}

// SimpleName returns the type name without its package.
func (t *TypeDescriptor) SimpleName() string {
	return t.Info.ID.Name
}

// PackagePath returns the import path of the declaring package.
func (t *TypeDescriptor) PackagePath() string {
	return t.Info.ID.PkgPath
}

// PackageName returns the name of the declaring package.
func (t *TypeDescriptor) PackageName() string {
	if pkg := t.Info.Named.Obj().Pkg(); pkg != nil {
		return pkg.Name()
	}

	return ""
}

// PropertyAccess reports whether members are read through getters.
func (t *TypeDescriptor) PropertyAccess() bool {
	d, ok := t.Info.Directive(analyze.DirectiveEntity)
	return ok && d.Arg("access") == walk.AccessProperty
}
