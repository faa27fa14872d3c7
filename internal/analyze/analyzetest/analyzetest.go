// Package analyzetest builds type graphs from in-memory sources for tests.
package analyzetest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"
	"testing"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
)

// Module is the module path every test package is assumed to live in.
const Module = "example.com/app"

// Load type-checks sources (import path -> file contents) and returns the
// resulting graph. Packages are added in dependency order, then in sorted
// path order. Imports outside sources are type-checked from GOROOT.
func Load(t testing.TB, sources map[string]string) *analyze.TypeGraph {
	t.Helper()

	a, err := Analyze(sources)
	if err != nil {
		t.Fatalf("analyzetest: %v", err)
	}

	return a.Graph()
}

// Analyze is Load without a testing.TB.
func Analyze(sources map[string]string) (*analyze.Analyzer, error) {
	fset := token.NewFileSet()
	imp := &sourceImporter{
		fset:     fset,
		sources:  sources,
		checked:  map[string]*types.Package{},
		fallback: importer.ForCompiler(fset, "source", nil),
		analyzer: analyze.NewAnalyzer(),
	}

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		if _, err := imp.Import(p); err != nil {
			return nil, err
		}
	}

	return imp.analyzer, nil
}

type sourceImporter struct {
	fset     *token.FileSet
	sources  map[string]string
	checked  map[string]*types.Package
	fallback types.Importer
	analyzer *analyze.Analyzer
}

func (s *sourceImporter) Import(pkgPath string) (*types.Package, error) {
	if pkg, ok := s.checked[pkgPath]; ok {
		return pkg, nil
	}

	src, ok := s.sources[pkgPath]
	if !ok {
		return s.fallback.Import(pkgPath)
	}

	file, err := parser.ParseFile(s.fset, path.Base(pkgPath)+".go", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pkgPath, err)
	}

	info := &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}

	conf := types.Config{Importer: s}

	pkg, err := conf.Check(pkgPath, s.fset, []*ast.File{file}, info)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", pkgPath, err)
	}

	s.checked[pkgPath] = pkg
	s.analyzer.AddPackage(pkg, info, []*ast.File{file}, analyze.PackageMeta{
		Dir:        "/src/" + pkgPath,
		ModulePath: Module,
		ModuleDir:  "/src/" + Module,
	})

	return pkg, nil
}
