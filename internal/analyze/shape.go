package analyze

import (
	"fmt"
	"go/types"

	"github.com/Ftibw/mongo-modelgen/internal/common"
)

//go:generate go tool stringer -type=Shape -trimprefix=Shape

// Shape is the coarse classification of a member type.
type Shape int

const (
	ShapeUnsupported  Shape = iota // func, chan, interface, anonymous struct
	ShapePrimitive                 // basic kinds, also behind pointers
	ShapeArray                     // fixed arrays of basics, []byte, []rune
	ShapeCollection                // slices, maps, registered generic containers
	ShapeTypeVariable              // type parameter of a generic declaration
	ShapeDeclared                  // any other named type
)

// ContainerKind is the family of a collection attribute.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerCollection
	ContainerList
	ContainerSet
	ContainerSortedSet
	ContainerMap
	ContainerSortedMap
)

var containerNames = map[ContainerKind]string{
	ContainerCollection: "collection",
	ContainerList:       "list",
	ContainerSet:        "set",
	ContainerSortedSet:  "sorted_set",
	ContainerMap:        "map",
	ContainerSortedMap:  "sorted_map",
}

// String returns the spec-file spelling of the kind.
func (k ContainerKind) String() string {
	if s, ok := containerNames[k]; ok {
		return s
	}

	return common.UnknownStr
}

// IsMapLike reports whether the element type is the second type argument.
func (k ContainerKind) IsMapLike() bool {
	return k == ContainerMap || k == ContainerSortedMap
}

// ParseContainerKind parses the spec-file spelling of a container kind.
func ParseContainerKind(s string) (ContainerKind, error) {
	for k, name := range containerNames {
		if name == s {
			return k, nil
		}
	}

	return ContainerNone, fmt.Errorf("unknown container kind %q", s)
}

// ContainerTable maps generic container types to their family.
type ContainerTable map[TypeID]ContainerKind

// Lookup returns the container family of t, looking through pointers.
// Slices are lists and built-in maps are maps.
func (c ContainerTable) Lookup(t types.Type) (ContainerKind, bool) {
	switch tt := Deref(t).(type) {
	case *types.Slice:
		return ContainerList, true
	case *types.Map:
		return ContainerMap, true
	case *types.Named:
		k, ok := c[IDOf(tt)]
		return k, ok
	default:
		return ContainerNone, false
	}
}

// ShapeOf classifies t. Pointers are looked through so *T shapes like T.
func ShapeOf(t types.Type, containers ContainerTable) Shape {
	switch tt := Deref(t).(type) {
	case *types.Basic:
		if tt.Kind() == types.Invalid || tt.Kind() == types.UnsafePointer || tt.Kind() == types.UntypedNil {
			return ShapeUnsupported
		}

		return ShapePrimitive

	case *types.Array:
		if _, ok := types.Unalias(tt.Elem()).(*types.Basic); ok {
			return ShapeArray
		}

		return ShapeUnsupported

	case *types.Slice:
		if b, ok := types.Unalias(tt.Elem()).(*types.Basic); ok && (b.Kind() == types.Uint8 || b.Kind() == types.Int32) {
			return ShapeArray
		}

		return ShapeCollection

	case *types.Map:
		return ShapeCollection

	case *types.TypeParam:
		return ShapeTypeVariable

	case *types.Named:
		if _, ok := containers.Lookup(tt); ok {
			return ShapeCollection
		}

		return ShapeDeclared

	default:
		return ShapeUnsupported
	}
}

// TypeArgs returns the generic arguments of a collection type: the element
// of a slice, key and value of a map, or the type arguments of a named type.
func TypeArgs(t types.Type) []types.Type {
	switch tt := Deref(t).(type) {
	case *types.Slice:
		return []types.Type{tt.Elem()}
	case *types.Map:
		return []types.Type{tt.Key(), tt.Elem()}
	case *types.Named:
		args := tt.TypeArgs()
		if args == nil {
			return nil
		}

		out := make([]types.Type, args.Len())
		for i := range out {
			out[i] = args.At(i)
		}

		return out
	default:
		return nil
	}
}

// Concrete walks a type parameter through its constraint to the single
// concrete type it is bound to. It returns nil when the bound is not a
// single type, which callers render as any.
func Concrete(t types.Type) types.Type {
	seen := map[*types.TypeParam]bool{}

	for {
		tp, ok := types.Unalias(t).(*types.TypeParam)
		if !ok {
			return t
		}

		if seen[tp] {
			return nil
		}

		seen[tp] = true

		t = coreTerm(tp.Constraint())
		if t == nil {
			return nil
		}
	}
}

func coreTerm(constraint types.Type) types.Type {
	iface, ok := constraint.Underlying().(*types.Interface)
	if !ok {
		return constraint
	}

	if iface.NumMethods() != 0 || iface.NumEmbeddeds() != 1 {
		return nil
	}

	emb := iface.EmbeddedType(0)
	if u, ok := emb.(*types.Union); ok {
		if u.Len() != 1 {
			return nil
		}

		return u.Term(0).Type()
	}

	if _, ok := emb.Underlying().(*types.Interface); ok {
		return coreTerm(emb)
	}

	return emb
}
