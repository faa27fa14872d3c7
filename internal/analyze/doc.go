// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to record,
// in declaration order, every named type of the loaded packages together
// with its modelgen directives, struct fields and getter-shaped methods.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: a named type with its directives, fields and methods
//   - FieldInfo: field name, type, tags (bson-aware) and embedding
//   - Shape: the coarse classification the attribute walker dispatches on
package analyze
