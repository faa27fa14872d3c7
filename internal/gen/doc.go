// Package gen renders metamodel and projection units.
//
// Units are rendered with text/template in two steps: the body first, so
// every type it mentions lands in the unit's import set, then the header
// with the generated marker, the package clause and the import block.
// Output is cleaned up by golang.org/x/tools/imports, which also drops
// entity-level imports a unit does not use.
//
// Per entity the generator writes:
//   - a metamodel unit: struct X_ embedding the parent metamodel, one
//     metamodel.Single or metamodel.Collection field per attribute, and a
//     bound variable X;
//   - one projection unit per valid named spec, with accessors, an Equal
//     method when equality is overridden, and a conversion by kind
//     (DTO: ToEntity, VO: NewXVO and XVOProjects, QO: none).
package gen
