package walk

import (
	"go/types"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/common"
)

// Unknown is the element type name of a container whose element cannot be determined.
const Unknown = "?"

// AttributeKind tells single-valued attributes from collections.
type AttributeKind int

const (
	AttributeSingle AttributeKind = iota
	AttributeCollection
)

// String returns a human-readable representation of the AttributeKind.
func (k AttributeKind) String() string {
	switch k {
	case AttributeSingle:
		return "single"
	case AttributeCollection:
		return "collection"
	default:
		return common.UnknownStr
	}
}

// AttributeDescriptor is one classified member of an entity.
type AttributeDescriptor struct {
	Name        string                // property name
	StorageName string                // document key
	Type        types.Type            // declared type, type parameters erased
	TypeName    string                // fully qualified Type
	Kind        AttributeKind         // single or collection
	Container   analyze.ContainerKind // collection family
	Elem        types.Type            // collection element; nil when ElemName is Unknown
	ElemName    string                // fully qualified Elem, or Unknown
	Identifier  bool                  // document identifier
	Getter      string                // accessor method for property-access entities
	Owner       analyze.TypeID        // type that declares the member
}

// IsCollection reports whether the attribute is collection-valued.
func (a AttributeDescriptor) IsCollection() bool {
	return a.Kind == AttributeCollection
}

// Tracker answers registry questions for the walker.
type Tracker interface {
	// Tracked reports whether id is a registered entity or mapped superclass.
	Tracked(id analyze.TypeID) bool
	// MetaComplete reports whether id is fully spec-driven.
	MetaComplete(id analyze.TypeID) bool
	// AddEmbeddable registers an embeddable type found by reference.
	AddEmbeddable(info *analyze.TypeInfo)
}

// anyType is the erasure of an unbounded type parameter.
var anyType = types.Universe.Lookup("any").Type()
