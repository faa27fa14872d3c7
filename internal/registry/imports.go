package registry

import (
	"go/types"
	"path"
	"sort"
	"strconv"

	"github.com/Ftibw/mongo-modelgen/internal/common"
)

// Import is one entry of an import block.
type Import struct {
	Alias string
	Path  string
	Name  string // declared package name, empty when unknown
}

// Explicit reports whether the alias must be written out: when it differs
// from the declared package name or from the name goimports assumes for
// the path.
func (i Import) Explicit() bool {
	if i.Name != "" && i.Alias != i.Name {
		return true
	}

	return i.Alias != common.PkgAlias(i.Path)
}

// ImportSet maps package paths to the aliases a unit refers to them by.
type ImportSet struct {
	self    string
	byPath  map[string]string
	byAlias map[string]string
	names   map[string]string
}

// NewImportSet creates an empty set for a unit living in package self.
// References to self are never imported.
func NewImportSet(self string) *ImportSet {
	return &ImportSet{
		self:    self,
		byPath:  map[string]string{},
		byAlias: map[string]string{},
		names:   map[string]string{},
	}
}

// Self returns the package the set renders for.
func (s *ImportSet) Self() string {
	return s.self
}

// Add registers pkgPath and returns the alias to qualify its names with.
// Conflicting aliases get a numeric suffix.
func (s *ImportSet) Add(pkgPath string) string {
	return s.AddNamed(pkgPath, "")
}

// AddNamed registers pkgPath, whose package clause declares name, and
// returns its alias. A blank name falls back to the name implied by the path.
// Naming an already registered path keeps its alias.
func (s *ImportSet) AddNamed(pkgPath, name string) string {
	if pkgPath == "" || pkgPath == s.self {
		return ""
	}

	if name != "" {
		s.names[pkgPath] = name
	}

	if alias, ok := s.byPath[pkgPath]; ok {
		return alias
	}

	base := name
	if base == "" {
		base = common.PkgAlias(pkgPath)
	}

	if base == "" {
		base = path.Base(pkgPath)
	}

	alias := base
	for n := 2; ; n++ {
		if _, taken := s.byAlias[alias]; !taken {
			break
		}

		alias = base + strconv.Itoa(n)
	}

	s.byPath[pkgPath] = alias
	s.byAlias[alias] = pkgPath

	return alias
}

// Has reports whether pkgPath is registered.
func (s *ImportSet) Has(pkgPath string) bool {
	_, ok := s.byPath[pkgPath]
	return ok
}

// Remove drops pkgPath from the set.
func (s *ImportSet) Remove(pkgPath string) {
	alias, ok := s.byPath[pkgPath]
	if !ok {
		return
	}

	delete(s.byPath, pkgPath)
	delete(s.byAlias, alias)
	delete(s.names, pkgPath)
}

// Len returns the number of imports.
func (s *ImportSet) Len() int {
	return len(s.byPath)
}

// Paths returns the registered package paths, sorted.
func (s *ImportSet) Paths() []string {
	out := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}

// Imports returns the set sorted by path.
func (s *ImportSet) Imports() []Import {
	paths := s.Paths()

	out := make([]Import, 0, len(paths))
	for _, p := range paths {
		out = append(out, Import{Alias: s.byPath[p], Path: p, Name: s.names[p]})
	}

	return out
}

// Merge adds every path of other.
func (s *ImportSet) Merge(other *ImportSet) {
	if other == nil {
		return
	}

	for _, p := range other.Paths() {
		s.AddNamed(p, other.names[p])
	}
}

// Qualifier registers each referenced package while types are printed.
func (s *ImportSet) Qualifier() types.Qualifier {
	return func(pkg *types.Package) string {
		return s.AddNamed(pkg.Path(), pkg.Name())
	}
}

// TypeString renders t, registering the packages it references.
func (s *ImportSet) TypeString(t types.Type) string {
	return types.TypeString(t, s.Qualifier())
}

// Qualify renders a qualified name "pkg/path.Name", registering its package.
// Register the package with AddNamed first when its name is not implied by
// its path.
func (s *ImportSet) Qualify(qualified string) string {
	pkgPath, name := common.SplitQualified(qualified)

	alias := s.Add(pkgPath)
	if alias == "" {
		return name
	}

	return alias + "." + name
}
