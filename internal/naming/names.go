package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
)

const (
	// EntitySegment marks the package an entity lives in.
	EntitySegment = "entity"
	// MetaSegment replaces EntitySegment for metamodel units.
	MetaSegment = "meta"
	// MetaSuffix is appended to the entity name for its metamodel type.
	MetaSuffix = "_"
)

var snakeRules = newSnakeRules()

func newSnakeRules() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	for _, acronym := range []string{"UUID", "DTO", "QO", "VO", "ID", "API", "URL", "HTTP", "JSON"} {
		rs.AddAcronym(acronym)
	}

	return rs
}

// Capitalize upper-cases the first letter and keeps the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Snake returns the lowercase underscore spelling used for file and json names.
func Snake(s string) string {
	if s == "" {
		return s
	}

	return snakeRules.Underscore(s)
}

// MetaPackage rewrites the entity segment of pkgPath to the meta segment.
func MetaPackage(pkgPath string) (string, error) {
	return replaceEntitySegment(pkgPath, MetaSegment)
}

// MetaName returns the metamodel type name of an entity.
func MetaName(simple string) string {
	return simple + MetaSuffix
}

// MetaFile returns the file name of an entity's metamodel unit.
func MetaFile(simple string) string {
	return Snake(simple) + "_meta.go"
}

// Namespace splits a dotted namespace into the package segments that nest
// the projection and the capitalized prefix of its type name.
// "backend.add" yields ("backend", "Add").
func Namespace(ns string) (pkgSegments []string, prefix string) {
	ns = strings.Trim(ns, ".")
	if ns == "" {
		return nil, ""
	}

	parts := strings.Split(ns, ".")
	last := parts[len(parts)-1]

	for _, p := range parts[:len(parts)-1] {
		if p != "" {
			pkgSegments = append(pkgSegments, strings.ToLower(p))
		}
	}

	return pkgSegments, Capitalize(last)
}

// ProjectionPackage rewrites the entity segment of pkgPath to the namespace
// packages followed by the lowercase kind suffix.
func ProjectionPackage(pkgPath, namespace, kindSuffix string) (string, error) {
	segments, _ := Namespace(namespace)
	segments = append(segments, strings.ToLower(kindSuffix))

	return replaceEntitySegment(pkgPath, strings.Join(segments, "/"))
}

// ProjectionName returns Capitalize(last namespace segment) + simple + kind suffix.
func ProjectionName(namespace, simple, kindSuffix string) string {
	_, prefix := Namespace(namespace)
	return prefix + simple + kindSuffix
}

// ProjectionFile returns the file name of a projection unit.
func ProjectionFile(namespace, simple, kindSuffix string) string {
	_, prefix := Namespace(namespace)
	return Snake(prefix+simple) + "_" + strings.ToLower(kindSuffix) + ".go"
}

// replaceEntitySegment swaps the last "entity" path segment for repl.
func replaceEntitySegment(pkgPath, repl string) (string, error) {
	segments := strings.Split(pkgPath, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == EntitySegment {
			segments[i] = repl
			return strings.Join(segments, "/"), nil
		}
	}

	return "", diagnostic.NewUnitError(pkgPath, diagnostic.CodeMissingEntityMarker, diagnostic.ErrMissingEntityMarker)
}
