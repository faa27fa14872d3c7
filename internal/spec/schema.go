package spec

import (
	"fmt"
	"strings"

	"github.com/Ftibw/mongo-modelgen/internal/common"
)

// File represents the root of a specification file.
type File struct {
	// Version of the file format.
	Version string `yaml:"version,omitempty"`

	// Containers maps qualified generic type names to a container family.
	Containers map[string]string `yaml:"containers,omitempty"`

	// BasicTypes lists qualified names of extra single-valued attribute types.
	BasicTypes []string `yaml:"basic_types,omitempty"`

	// Entities attaches projection specs to entity types.
	Entities []Entity `yaml:"entities"`
}

// Entity attaches specs to one entity or mapped superclass.
type Entity struct {
	// Type is the entity type id ("entity.User" or "example.com/app/entity.User").
	Type string `yaml:"type"`

	// MetaComplete marks the entity as fully described by this file: its
	// ancestors are tracked only through registration, never through directives.
	MetaComplete bool `yaml:"meta_complete,omitempty"`

	// Specs lists the projections. The first one is the implicit default.
	Specs []Spec `yaml:"specs,omitempty"`
}

// Default returns the implicit default spec, if any.
func (e *Entity) Default() (*Spec, bool) {
	if common.IsEmpty(e.Specs) {
		return nil, false
	}

	return &e.Specs[0], true
}

// Named returns every spec after the default.
func (e *Entity) Named() []Spec {
	if len(e.Specs) < 2 {
		return nil
	}

	return e.Specs[1:]
}

// Spec describes one projection of an entity.
type Spec struct {
	// Namespace nests the projection package and prefixes its type name.
	Namespace string `yaml:"namespace,omitempty"`

	// Kind is DTO, QO or VO.
	Kind string `yaml:"kind,omitempty"`

	// Descr documents the projection type.
	Descr string `yaml:"descr,omitempty"`

	// Props selects entity properties, in order.
	Props []Prop `yaml:"props,omitempty"`

	// Extra declares synthetic properties that do not exist on the entity.
	Extra []Extra `yaml:"extra,omitempty"`
}

// ProjectionKind parses Kind.
func (s *Spec) ProjectionKind() (Kind, error) {
	return ParseKind(s.Kind)
}

// Prop selects an entity property.
type Prop struct {
	Name  string `yaml:"name"`
	Descr string `yaml:"descr,omitempty"`
	Rules []Rule `yaml:"rules,omitempty"`
	// Hash marks the property as part of the projection's equality.
	Hash bool `yaml:"hash,omitempty"`
}

// Extra declares a synthetic property.
type Extra struct {
	Name  string `yaml:"name"`
	Descr string `yaml:"descr,omitempty"`
	Rules []Rule `yaml:"rules,omitempty"`
	Hash  bool   `yaml:"hash,omitempty"`

	// Imports lists the qualified types the declaration needs.
	Imports StringOrArray `yaml:"imports,omitempty"`

	// TypeDeclare is the verbatim type expression. Required when Imports
	// has more than one entry.
	TypeDeclare string `yaml:"type_declare,omitempty"`
}

// Rule is a single constraint attached to a property.
type Rule struct {
	Kind string   `yaml:"kind"`
	Msg  string   `yaml:"msg,omitempty"`
	Opts []string `yaml:"opts,omitempty"`
}

// StringOrArray is a YAML type that accepts either a single string or an array of strings.
type StringOrArray []string

// Kind is the kind of a projection.
type Kind int

const (
	KindNone Kind = iota
	KindDataTransfer
	KindQuery
	KindView
)

// String returns the kind suffix used in generated names.
func (k Kind) String() string {
	switch k {
	case KindDataTransfer:
		return "DTO"
	case KindQuery:
		return "QO"
	case KindView:
		return "VO"
	case KindNone:
		return ""
	default:
		return common.UnknownStr
	}
}

// ParseKind parses a projection kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DTO", "DATA_TRANSFER":
		return KindDataTransfer, nil
	case "QO", "QUERY":
		return KindQuery, nil
	case "VO", "VIEW":
		return KindView, nil
	case "":
		return KindNone, nil
	default:
		return KindNone, fmt.Errorf("unknown projection kind %q", s)
	}
}
