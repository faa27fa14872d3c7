package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// PackageMeta carries the on-disk location of a package.
type PackageMeta struct {
	Dir        string
	ModulePath string
	ModuleDir  string
}

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	// Dir is the working directory patterns are resolved against.
	Dir string

	graph *TypeGraph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph: NewTypeGraph(),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./...", "example.com/app/entity").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		meta := PackageMeta{}
		if len(pkg.GoFiles) > 0 {
			meta.Dir = filepath.Dir(pkg.GoFiles[0])
		}

		if pkg.Module != nil {
			meta.ModulePath = pkg.Module.Path
			meta.ModuleDir = pkg.Module.Dir
		}

		a.AddPackage(pkg.Types, pkg.TypesInfo, pkg.Syntax, meta)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// AddPackage records every named type declared in files. Packages already
// present in the graph are ignored.
func (a *Analyzer) AddPackage(tpkg *types.Package, info *types.Info, files []*ast.File, meta PackageMeta) {
	if _, ok := a.graph.Packages[tpkg.Path()]; ok {
		return
	}

	pkgInfo := &PackageInfo{
		Path:       tpkg.Path(),
		Name:       tpkg.Name(),
		Dir:        meta.Dir,
		ModulePath: meta.ModulePath,
		ModuleDir:  meta.ModuleDir,
		Pkg:        tpkg,
	}
	a.graph.Packages[pkgInfo.Path] = pkgInfo

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)

				obj, ok := info.Defs[ts.Name].(*types.TypeName)
				if !ok || !obj.Exported() || obj.IsAlias() {
					continue
				}

				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				a.graph.add(Describe(named, ParseDirectives(doc)), pkgInfo)
			}
		}
	}
}

// Describe builds a TypeInfo from go/types alone.
func Describe(named *types.Named, directives []Directive) *TypeInfo {
	info := &TypeInfo{
		ID:         IDOf(named),
		Named:      named,
		Directives: directives,
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			field := st.Field(i)
			info.Fields = append(info.Fields, FieldInfo{
				Name:     field.Name(),
				Exported: field.Exported(),
				Type:     field.Type(),
				Tag:      reflect.StructTag(st.Tag(i)),
				Embedded: field.Embedded(),
				Index:    i,
			})
		}
	}

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}

		sig := m.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}

		info.Methods = append(info.Methods, MethodInfo{
			Name:   m.Name(),
			Result: sig.Results().At(0).Type(),
		})
	}

	return info
}
