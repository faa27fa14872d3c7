package spec

import (
	"go/token"
	"go/types"
	"strings"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/common"
)

// ResolveTypeID resolves a type ID string like:
// - "entity.User" (short)
// - "example.com/app/entity.User" (full)
// - "User" (name only).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	id := analyze.ParseTypeID(typeIDStr)

	// Name-only: best-effort match by type name, first in discovery order.
	if id.PkgPath == "" {
		for _, t := range graph.Ordered() {
			if t.ID.Name == id.Name {
				return t
			}
		}

		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(id); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "entity.User")
	for _, t := range graph.Ordered() {
		if t.ID.Name == id.Name && strings.HasSuffix(t.ID.PkgPath, "/"+id.PkgPath) {
			return t
		}
	}

	return nil
}

// TypeRef is a parsed import reference of an extra property.
type TypeRef struct {
	PkgPath string // empty for predeclared types
	Name    string
}

// IsBuiltin reports whether the reference names a predeclared type.
func (r TypeRef) IsBuiltin() bool {
	return r.PkgPath == ""
}

// String returns the qualified spelling.
func (r TypeRef) String() string {
	if r.PkgPath == "" {
		return r.Name
	}

	return r.PkgPath + "." + r.Name
}

// ParseTypeRef parses "pkg/path.Name" or a predeclared type name such as "string".
// It reports false for anything that cannot name a type.
func ParseTypeRef(s string) (TypeRef, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t[]*(){}") {
		return TypeRef{}, false
	}

	pkg, name := common.SplitQualified(s)
	if !token.IsIdentifier(name) {
		return TypeRef{}, false
	}

	if pkg == "" {
		if _, ok := types.Universe.Lookup(name).(*types.TypeName); !ok {
			return TypeRef{}, false
		}
	}

	return TypeRef{PkgPath: pkg, Name: name}, true
}
