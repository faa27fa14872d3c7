package analyze

import (
	"go/ast"
	"strings"
)

// DirectivePrefix starts every modelgen directive comment.
const DirectivePrefix = "//modelgen:"

// Directive names recognized on type declarations.
const (
	DirectiveEntity           = "entity"
	DirectiveMappedSuperclass = "mapped-superclass"
	DirectiveEmbeddable       = "embeddable"
)

// Directive is a parsed `//modelgen:<name> key=value flag` comment line.
type Directive struct {
	Name string
	Args map[string]string
}

// Arg returns the value of a key=value argument.
func (d Directive) Arg(key string) string {
	return d.Args[key]
}

// Flag reports whether a bare flag or key is present.
func (d Directive) Flag(key string) bool {
	_, ok := d.Args[key]
	return ok
}

// ParseDirectives extracts modelgen directives from a doc comment.
func ParseDirectives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var out []Directive

	for _, c := range doc.List {
		if d, ok := ParseDirective(c.Text); ok {
			out = append(out, d)
		}
	}

	return out
}

// ParseDirective parses a single comment line.
func ParseDirective(line string) (Directive, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), DirectivePrefix)
	if !ok {
		return Directive{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, false
	}

	d := Directive{Name: fields[0], Args: make(map[string]string, len(fields)-1)}
	for _, f := range fields[1:] {
		k, v, _ := strings.Cut(f, "=")
		d.Args[k] = v
	}

	return d, true
}
