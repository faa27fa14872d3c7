package spec

import (
	"fmt"

	"github.com/go-openapi/strfmt"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
)

// Validate validates a spec file against the given type graph.
// Problems local to one entity or spec are reported and skipped later by the
// resolver; nothing here stops generation of unrelated units.
func Validate(f *File, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("spec_is_nil", "spec file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	for name, kind := range f.Containers {
		if _, err := analyze.ParseContainerKind(kind); err != nil {
			res.AddError(diagnostic.CodeUnknownContainerKind, err.Error(), name, "")
		}
	}

	seen := map[analyze.TypeID]struct{}{}

	for i := range f.Entities {
		e := &f.Entities[i]

		info := ResolveTypeID(e.Type, graph)
		if info == nil {
			res.AddError(diagnostic.CodeEntityTypeNotFound, fmt.Sprintf("entity type %q not found", e.Type), e.Type, "")
			continue
		}

		unit := info.ID.String()
		if _, ok := seen[info.ID]; ok {
			res.AddWarning(diagnostic.CodeDuplicateEntity, "entity listed more than once, first entry wins", unit, "")
			continue
		}

		seen[info.ID] = struct{}{}

		for j := range e.Specs {
			validateSpec(res, graph, unit, j, &e.Specs[j])
		}
	}

	return res
}

func validateSpec(res *diagnostic.Diagnostics, graph *analyze.TypeGraph, unit string, index int, s *Spec) {
	kind, err := s.ProjectionKind()
	if err != nil {
		res.AddError(diagnostic.CodeUnknownSpecKind, err.Error(), unit, "")
	} else if index > 0 && kind == KindNone {
		res.AddError(diagnostic.CodeUnknownSpecKind, fmt.Sprintf("spec %q has no kind", s.Namespace), unit, "")
	}

	for _, p := range s.Props {
		validateRules(res, unit, p.Name, p.Rules)
	}

	for _, x := range s.Extra {
		validateRules(res, unit, x.Name, x.Rules)
		validateImports(res, graph, unit, x)
	}
}

// validateImports checks extra imports against the loaded packages and their
// dependencies. Packages outside that set cannot be checked.
func validateImports(res *diagnostic.Diagnostics, graph *analyze.TypeGraph, unit string, x Extra) {
	for _, imp := range x.Imports {
		ref, ok := ParseTypeRef(imp)
		if !ok || ref.IsBuiltin() {
			continue
		}

		tn, known := graph.LookupTypeName(ref.PkgPath, ref.Name)

		switch {
		case !known:
			res.AddInfo(diagnostic.CodeExtraTypeUnverified,
				fmt.Sprintf("package %q is not imported by the loaded packages; %s is not checked", ref.PkgPath, ref), unit, x.Name)
		case tn == nil:
			res.AddError(diagnostic.CodeExtraTypeNotFound,
				fmt.Sprintf("package %q declares no exported type %s", ref.PkgPath, ref.Name), unit, x.Name)
		}
	}
}

func validateRules(res *diagnostic.Diagnostics, unit, prop string, rules []Rule) {
	for _, r := range rules {
		if _, ok := LookupRule(r.Kind); !ok {
			res.AddWarning(diagnostic.CodeUnknownRuleKind,
				fmt.Sprintf("unknown rule kind %q (known: %v), rule ignored", r.Kind, RuleKinds()), unit, prop)

			continue
		}

		if r.Kind == RuleFormat && len(r.Opts) > 0 && !strfmt.Default.ContainsName(r.Opts[0]) {
			res.AddWarning(diagnostic.CodeUnknownFormat, fmt.Sprintf("format %q is not registered", r.Opts[0]), unit, prop)
		}
	}
}

// ContainerTable builds the generic container table declared by the file.
// Unknown kinds are skipped; Validate reports them.
func (f *File) ContainerTable() analyze.ContainerTable {
	table := analyze.ContainerTable{}

	for name, kind := range f.Containers {
		k, err := analyze.ParseContainerKind(kind)
		if err != nil {
			continue
		}

		table[analyze.ParseTypeID(name)] = k
	}

	return table
}

// BasicTypeIDs returns the extra basic attribute types declared by the file.
func (f *File) BasicTypeIDs() []analyze.TypeID {
	ids := make([]analyze.TypeID, 0, len(f.BasicTypes))
	for _, name := range f.BasicTypes {
		ids = append(ids, analyze.ParseTypeID(name))
	}

	return ids
}

// Index maps every resolvable entity entry to its type. The first entry
// for a type wins.
func (f *File) Index(graph *analyze.TypeGraph) map[analyze.TypeID]*Entity {
	out := map[analyze.TypeID]*Entity{}

	for i := range f.Entities {
		info := ResolveTypeID(f.Entities[i].Type, graph)
		if info == nil {
			continue
		}

		if _, ok := out[info.ID]; !ok {
			out[info.ID] = &f.Entities[i]
		}
	}

	return out
}
