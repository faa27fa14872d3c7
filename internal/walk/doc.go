// Package walk classifies the members of entity types into attributes.
//
// Every eligible member becomes an AttributeDescriptor, classified by shape:
// primitives and primitive arrays, containers (with their element type),
// type parameters (erased to their bound) and declared types that pass the
// basic-attribute predicate are attributes; everything else is a relation
// and is left out. Ancestor attributes are merged only for tracked
// ancestors.
package walk
