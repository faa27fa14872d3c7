package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/types"
	"log/slog"
	"path"
	"strings"
	"text/template"

	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/naming"
	"github.com/Ftibw/mongo-modelgen/internal/registry"
	"github.com/Ftibw/mongo-modelgen/internal/resolve"
	"github.com/Ftibw/mongo-modelgen/internal/sink"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// Generator renders the units of one entity and hands them to a sink.
type Generator struct {
	config   GeneratorConfig
	session  *registry.Session
	resolver *resolve.Resolver
	sink     sink.Sink
	logger   *slog.Logger
	diags    *diagnostic.Diagnostics
}

// NewGenerator creates a new code generator writing into out.
func NewGenerator(config GeneratorConfig, session *registry.Session, out sink.Sink) *Generator {
	return &Generator{
		config:   config,
		session:  session,
		resolver: resolve.NewResolver(session.Diagnostics(), session.Logger()),
		sink:     out,
		logger:   session.Logger(),
		diags:    session.Diagnostics(),
	}
}

// Emit writes the metamodel of td followed by one projection per valid
// named spec. Unit failures are recorded as diagnostics; only a cancelled
// context stops the emission.
func (g *Generator) Emit(ctx context.Context, td *registry.TypeDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unit, err := g.Metamodel(td)
	g.submit(ctx, unit, err)

	res := g.resolver.Resolve(g.input(td))

	for i := range res.Named {
		ps := &res.Named[i]
		if ps.Invalid {
			g.logger.Warn("projection skipped",
				slog.String("type", td.QualifiedName()),
				slog.String("namespace", ps.Namespace),
				slog.String("kind", ps.Kind.String()))

			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		unit, err := g.Projection(td, &res, ps)
		g.submit(ctx, unit, err)
	}

	return nil
}

func (g *Generator) input(td *registry.TypeDescriptor) resolve.Input {
	in := resolve.Input{
		Unit:      td.QualifiedName(),
		Entity:    td.Spec,
		Own:       g.session.OwnAttributes(td),
		Inherited: g.session.InheritedAttributes(td),
	}

	if sc := g.session.Superclass(td); sc != nil {
		in.Super = sc.Spec
	}

	return in
}

// submit writes unit, or records err. A unit that failed to format still
// carries its raw source, which debug mode writes as a sidecar.
func (g *Generator) submit(ctx context.Context, unit sink.Unit, err error) {
	if err != nil {
		g.diags.AddUnitError(diagnostic.CodeRenderFailed, err)

		if g.config.Debug && len(unit.Content) > 0 {
			g.write(ctx, debugUnformatted(unit, unit.Content))
		}

		return
	}

	if g.write(ctx, unit) && g.config.Debug {
		g.logger.Debug("unit written",
			slog.String("unit", unit.QualifiedName),
			slog.String("file", path.Join(unit.PkgPath, unit.Filename)))
		g.diags.AddInfo(diagnostic.CodeUnitEmitted, "unit written", unit.QualifiedName, "")
	}
}

func (g *Generator) write(ctx context.Context, unit sink.Unit) bool {
	if err := g.sink.Write(ctx, unit); err != nil {
		g.diags.AddUnitError(diagnostic.CodeSinkWriteFailed, err)
		return false
	}

	return true
}

// Metamodel renders the metamodel unit of td.
func (g *Generator) Metamodel(td *registry.TypeDescriptor) (sink.Unit, error) {
	pkgPath, err := naming.MetaPackage(td.PackagePath())
	if err != nil {
		return sink.Unit{QualifiedName: td.QualifiedName()},
			diagnostic.NewUnitError(td.QualifiedName(), diagnostic.CodeMissingEntityMarker, err)
	}

	name := naming.MetaName(td.SimpleName())
	unit := sink.Unit{
		QualifiedName: pkgPath + "." + name,
		PkgPath:       pkgPath,
		Filename:      naming.MetaFile(td.SimpleName()),
	}

	set := registry.NewImportSet(pkgPath)
	qualifier := func(pkg *types.Package) string {
		td.Imports.AddNamed(pkg.Path(), pkg.Name())
		return set.AddNamed(pkg.Path(), pkg.Name())
	}

	data := metaData{
		Name:    name,
		Var:     td.SimpleName(),
		Entity:  td.PackageName() + "." + td.SimpleName(),
		Runtime: set.Add(RuntimePackage),
	}

	if sc := g.session.Superclass(td); sc != nil {
		scPkg, err := naming.MetaPackage(sc.PackagePath())
		if err != nil {
			return unit, diagnostic.NewUnitError(sc.QualifiedName(), diagnostic.CodeMissingEntityMarker, err)
		}

		set.AddNamed(scPkg, path.Base(scPkg))
		data.Parent = set.Qualify(scPkg + "." + naming.MetaName(sc.SimpleName()))
	}

	for _, attr := range g.session.OwnAttributes(td) {
		data.Fields = append(data.Fields, metaFieldOf(attr, qualifier))
	}

	marker := ""
	if g.config.AddGeneratedMarker {
		marker = g.config.Marker()
	}

	return g.render(unit, set, marker, metaTemplate, data)
}

func metaFieldOf(attr walk.AttributeDescriptor, q types.Qualifier) metaField {
	if !attr.IsCollection() {
		return metaField{
			Name: attr.Name,
			Kind: "Single",
			Type: types.TypeString(attr.Type, q),
			Tag:  attr.StorageName,
		}
	}

	elem := "any"
	if attr.ElemName != walk.Unknown && attr.Elem != nil {
		elem = types.TypeString(attr.Elem, q)
	}

	return metaField{
		Name: attr.Name,
		Kind: "Collection",
		Type: elem,
		Tag:  attr.StorageName + "," + attr.Container.String(),
	}
}

// Projection renders one named spec of td. Imports the projection adds to
// the entity are scratch imports and are dropped before returning.
func (g *Generator) Projection(td *registry.TypeDescriptor, res *resolve.Resolution,
	ps *resolve.ProjectionSpec,
) (sink.Unit, error) {
	defer g.session.ClearDirty(td)

	kind := ps.Kind.String()

	pkgPath, err := naming.ProjectionPackage(td.PackagePath(), ps.Namespace, kind)
	if err != nil {
		return sink.Unit{QualifiedName: td.QualifiedName()},
			diagnostic.NewUnitError(td.QualifiedName(), diagnostic.CodeMissingEntityMarker, err)
	}

	name := naming.ProjectionName(ps.Namespace, td.SimpleName(), kind)
	unit := sink.Unit{
		QualifiedName: pkgPath + "." + name,
		PkgPath:       pkgPath,
		Filename:      naming.ProjectionFile(ps.Namespace, td.SimpleName(), kind),
	}

	set := registry.NewImportSet(pkgPath)
	qualifier := func(pkg *types.Package) string {
		g.session.ImportDirty(td, pkg.Path(), pkg.Name())
		return set.AddNamed(pkg.Path(), pkg.Name())
	}

	data := projectionData{
		Name:               name,
		Descr:              describe(ps.Descr, res.Descr, td.SimpleName()),
		EqualityOverridden: ps.EqualityOverridden,
		Kind:               kind,
	}

	if ps.Kind == spec.KindDataTransfer || ps.Kind == spec.KindView {
		set.AddNamed(td.PackagePath(), td.PackageName())
		data.Entity = set.Qualify(td.QualifiedName())
	}

	for i := range ps.Properties {
		p := &ps.Properties[i]
		field := projectionField{
			Name:        p.Name,
			Accessor:    naming.Getter(p.Name),
			Type:        types.TypeString(p.Attribute.Type, qualifier),
			Descr:       p.Descr,
			Constraints: p.Constraints(),
			Eq:          p.Hash,
			JSON:        naming.Snake(p.Name),
			BSON:        p.Attribute.StorageName,
		}

		if p.Attribute.Getter != "" {
			field.Getter = p.Attribute.Getter
			field.Setter = naming.Setter(p.Attribute.Name)
		}

		data.Properties = append(data.Properties, field)
	}

	for i := range ps.Extras {
		p := &ps.Extras[i]
		data.Extras = append(data.Extras, projectionField{
			Name:        naming.Capitalize(p.Name),
			Accessor:    naming.Getter(p.Name),
			Type:        g.extraType(td, set, p),
			Descr:       p.Descr,
			Constraints: p.Constraints(),
			Eq:          p.Hash,
			JSON:        naming.Snake(p.Name),
			BSON:        strings.ToLower(p.Name),
		})
	}

	if data.EqualityOverridden {
		for _, f := range data.All() {
			if f.Eq {
				data.EqFields = append(data.EqFields, f)
			}
		}

		data.Reflect = set.Add("reflect")
	}

	set.Merge(td.Imports)

	return g.render(unit, set, g.config.Marker(), projectionTemplate, data)
}

// extraType registers the imports of an extra property and returns its
// type expression.
func (g *Generator) extraType(td *registry.TypeDescriptor, set *registry.ImportSet,
	p *resolve.PropertyDescriptor,
) string {
	for _, ref := range p.Imports {
		if !ref.IsBuiltin() {
			g.session.ImportDirty(td, ref.PkgPath, "")
			set.Add(ref.PkgPath)
		}
	}

	if p.TypeDeclare != "" {
		return p.TypeDeclare
	}

	ref := p.Imports[0]
	if ref.IsBuiltin() {
		return ref.Name
	}

	return set.Qualify(ref.String())
}

func describe(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return ""
}

// render executes the body first so every import it needs is registered,
// then prepends the header and formats the result.
func (g *Generator) render(unit sink.Unit, set *registry.ImportSet, marker string,
	body *template.Template, data any,
) (sink.Unit, error) {
	var buf bytes.Buffer
	if err := body.Execute(&buf, data); err != nil {
		return unit, diagnostic.NewUnitError(unit.QualifiedName, diagnostic.CodeRenderFailed,
			fmt.Errorf("%w: %w", diagnostic.ErrRender, err))
	}

	var head bytes.Buffer

	err := headerTemplate.Execute(&head, headerData{
		Marker:  marker,
		Package: path.Base(unit.PkgPath),
		Imports: set.Imports(),
	})
	if err != nil {
		return unit, diagnostic.NewUnitError(unit.QualifiedName, diagnostic.CodeRenderFailed,
			fmt.Errorf("%w: %w", diagnostic.ErrRender, err))
	}

	src := append(head.Bytes(), buf.Bytes()...)

	out, err := formatSource(unit.Filename, src)
	if err != nil {
		unit.Content = src

		return unit, diagnostic.NewUnitError(unit.QualifiedName, diagnostic.CodeRenderFailed,
			fmt.Errorf("%w: %w", diagnostic.ErrRender, err))
	}

	unit.Content = out

	return unit, nil
}
