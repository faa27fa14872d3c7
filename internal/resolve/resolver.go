package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ftibw/mongo-modelgen/internal/common"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/match"
	"github.com/Ftibw/mongo-modelgen/internal/naming"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// Input is what the resolver needs to know about one entity.
type Input struct {
	Unit      string       // qualified entity name, for diagnostics
	Entity    *spec.Entity // may be nil
	Super     *spec.Entity // spec entry of the nearest tracked superclass; may be nil
	Own       []walk.AttributeDescriptor
	Inherited []walk.AttributeDescriptor
}

// Resolver builds projection specs.
type Resolver struct {
	diags  *diagnostic.Diagnostics
	logger *slog.Logger
}

// NewResolver creates a Resolver reporting into diags.
func NewResolver(diags *diagnostic.Diagnostics, logger *slog.Logger) *Resolver {
	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{diags: diags, logger: logger}
}

// Resolve merges the default specs and resolves every named spec of in.Entity.
func (r *Resolver) Resolve(in Input) Resolution {
	res := Resolution{Descriptions: map[string]string{}}

	if in.Super != nil {
		if def, ok := in.Super.Default(); ok {
			mergeDescriptions(res.Descriptions, def.Props)
		}
	}

	if in.Entity == nil {
		return res
	}

	if def, ok := in.Entity.Default(); ok {
		res.Descr = def.Descr
		mergeDescriptions(res.Descriptions, def.Props)
	}

	type specKey struct {
		namespace string
		kind      spec.Kind
	}

	seen := map[specKey]bool{}

	for i, s := range in.Entity.Named() {
		kind, err := s.ProjectionKind()
		if err != nil || kind == spec.KindNone {
			r.logger.Debug("skipping spec without a valid kind",
				slog.String("unit", in.Unit), slog.Int("spec", i+1), slog.String("kind", s.Kind))

			continue
		}

		key := specKey{namespace: s.Namespace, kind: kind}
		if seen[key] {
			r.diags.AddWarning(diagnostic.CodeDuplicateSpec,
				fmt.Sprintf("spec %q of kind %s is declared more than once; keeping the first", s.Namespace, kind),
				in.Unit, "")

			continue
		}

		seen[key] = true

		res.Named = append(res.Named, r.resolveNamed(in, &res, s, kind))
	}

	return res
}

func mergeDescriptions(dst map[string]string, props []spec.Prop) {
	for _, p := range props {
		dst[p.Name] = p.Descr
	}
}

func (r *Resolver) resolveNamed(in Input, res *Resolution, s spec.Spec, kind spec.Kind) ProjectionSpec {
	ps := ProjectionSpec{
		Namespace: s.Namespace,
		Descr:     s.Descr,
		Kind:      kind,
	}

	if strings.TrimSpace(ps.Descr) == "" {
		ps.Descr = res.Descr
	}

	selected := map[string]PropertyDescriptor{}

	for _, p := range s.Props {
		if _, dup := selected[p.Name]; dup {
			continue
		}

		prop := PropertyDescriptor{
			Name:  p.Name,
			Descr: describe(p.Descr, res.Descriptions[p.Name], p.Name),
			Rules: dedupRules(p.Rules),
			Hash:  p.Hash,
		}

		if p.Hash {
			ps.EqualityOverridden = true
		}

		selected[p.Name] = prop
	}

	ps.Properties = r.order(in, &ps, s.Props, selected)
	ps.Extras = r.extras(s.Extra, selected, &ps)

	return ps
}

// order lays out the selected properties: the inherited identifier first,
// then own attributes, then the remaining inherited ones. Names that match
// no attribute invalidate the projection.
func (r *Resolver) order(in Input, ps *ProjectionSpec, props []spec.Prop, selected map[string]PropertyDescriptor) []PropertyDescriptor {
	var out []PropertyDescriptor

	placed := map[string]bool{}

	place := func(attrs []walk.AttributeDescriptor, pick func(walk.AttributeDescriptor) bool) {
		for i := range attrs {
			a := attrs[i]

			prop, ok := selected[a.Name]
			if !ok || placed[a.Name] || !pick(a) {
				continue
			}

			prop.Attribute = &a
			placed[a.Name] = true
			out = append(out, prop)
		}
	}

	place(in.Inherited, func(a walk.AttributeDescriptor) bool { return a.Identifier })
	place(in.Own, func(walk.AttributeDescriptor) bool { return true })
	place(in.Inherited, func(walk.AttributeDescriptor) bool { return true })

	known := make([]string, 0, len(in.Own)+len(in.Inherited))
	for _, a := range append(append([]walk.AttributeDescriptor{}, in.Inherited...), in.Own...) {
		known = append(known, a.Name)
	}

	reported := map[string]bool{}

	for _, p := range props {
		if placed[p.Name] || reported[p.Name] {
			continue
		}

		reported[p.Name] = true
		ps.Invalid = true

		diag := diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     diagnostic.CodePropertyNotFound,
			Message:  fmt.Sprintf("%s projection %q selects unknown property", ps.Kind, ps.Namespace),
			Unit:     in.Unit,
			Property: p.Name,
		}

		if best, ok := match.Closest(p.Name, known); ok {
			diag.Suggestions = []string{best}
		}

		r.diags.Add(diag)
	}

	return out
}

// extras admits the synthetic properties of a spec. A property is dropped
// when its field name is taken, when none of its imports resolve, or when
// several imports resolve but no type declaration says how to combine them.
// Names are compared as rendered fields, so "note" collides with "Note".
func (r *Resolver) extras(extras []spec.Extra, selected map[string]PropertyDescriptor, ps *ProjectionSpec) []PropertyDescriptor {
	var out []PropertyDescriptor

	taken := make(map[string]bool, len(selected))
	for name := range selected {
		taken[naming.Capitalize(name)] = true
	}

	for _, e := range extras {
		field := naming.Capitalize(e.Name)
		if taken[field] {
			r.logger.Debug("extra property shadowed",
				slog.String("namespace", ps.Namespace),
				slog.String("property", e.Name),
				slog.String("field", field))

			continue
		}

		taken[field] = true

		var refs []spec.TypeRef

		for _, imp := range e.Imports {
			if ref, ok := spec.ParseTypeRef(imp); ok {
				refs = append(refs, ref)
			}
		}

		if common.IsEmpty(refs) {
			continue
		}

		declare := strings.TrimSpace(e.TypeDeclare)
		if common.IsMultiple(refs) && declare == "" {
			continue
		}

		if e.Hash {
			ps.EqualityOverridden = true
		}

		out = append(out, PropertyDescriptor{
			Name:        e.Name,
			Descr:       describe(e.Descr, "", e.Name),
			Rules:       dedupRules(e.Rules),
			Hash:        e.Hash,
			TypeDeclare: e.TypeDeclare,
			Imports:     refs,
		})
	}

	return out
}

// dedupRules keeps the first rule of each known kind.
func dedupRules(rules []spec.Rule) []spec.Rule {
	known := make([]spec.Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := spec.LookupRule(r.Kind); ok {
			known = append(known, r)
		}
	}

	return common.DedupFunc(known, func(r spec.Rule) string { return r.Kind })
}

func describe(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}

	return ""
}
