package analyze_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/analyze/analyzetest"
)

const shapesSrc = `package entity

type Status string

type Set[T any] struct{ items map[any]T }

type Triple[A, B, C any] struct{}

type Number interface{ ~int64 }

type Shapes[T Number, U any] struct {
	Count   int
	Ptr     *float64
	Raw     []byte
	Runes   []rune
	Fixed   [4]int
	Grid    [2]Status
	Names   []string
	Props   map[string]int
	Tags    Set[string]
	Odd     Triple[int, int, int]
	Status  Status
	Value   T
	Other   U
	Fn      func()
	Ch      chan int
	Any     any
	Anon    struct{ X int }
}
`

func loadShapes(t *testing.T) (*analyze.TypeInfo, analyze.ContainerTable) {
	t.Helper()

	graph := analyzetest.Load(t, map[string]string{"example.com/app/entity": shapesSrc})
	info := graph.GetType(analyze.TypeID{PkgPath: "example.com/app/entity", Name: "Shapes"})
	require.NotNil(t, info)

	containers := analyze.ContainerTable{
		{PkgPath: "example.com/app/entity", Name: "Set"}:    analyze.ContainerSet,
		{PkgPath: "example.com/app/entity", Name: "Triple"}: analyze.ContainerCollection,
	}

	return info, containers
}

func TestShapeOf(t *testing.T) {
	info, containers := loadShapes(t)

	want := map[string]analyze.Shape{
		"Count":  analyze.ShapePrimitive,
		"Ptr":    analyze.ShapePrimitive,
		"Raw":    analyze.ShapeArray,
		"Runes":  analyze.ShapeArray,
		"Fixed":  analyze.ShapeArray,
		"Grid":   analyze.ShapeUnsupported,
		"Names":  analyze.ShapeCollection,
		"Props":  analyze.ShapeCollection,
		"Tags":   analyze.ShapeCollection,
		"Odd":    analyze.ShapeCollection,
		"Status": analyze.ShapeDeclared,
		"Value":  analyze.ShapeTypeVariable,
		"Other":  analyze.ShapeTypeVariable,
		"Fn":     analyze.ShapeUnsupported,
		"Ch":     analyze.ShapeUnsupported,
		"Any":    analyze.ShapeUnsupported,
		"Anon":   analyze.ShapeUnsupported,
	}

	for _, f := range info.Fields {
		assert.Equal(t, want[f.Name], analyze.ShapeOf(f.Type, containers), f.Name)
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "TypeVariable", analyze.ShapeTypeVariable.String())
	assert.Equal(t, "Shape(42)", analyze.Shape(42).String())
}

func TestTypeArgs(t *testing.T) {
	info, _ := loadShapes(t)

	field := func(name string) types.Type {
		f, ok := info.Field(name)
		require.True(t, ok)

		return f.Type
	}

	assert.Len(t, analyze.TypeArgs(field("Names")), 1)
	assert.Len(t, analyze.TypeArgs(field("Props")), 2)
	assert.Len(t, analyze.TypeArgs(field("Tags")), 1)
	assert.Len(t, analyze.TypeArgs(field("Odd")), 3)
	assert.Nil(t, analyze.TypeArgs(field("Count")))
}

func TestConcrete(t *testing.T) {
	info, _ := loadShapes(t)

	value, _ := info.Field("Value")
	bound := analyze.Concrete(value.Type)
	require.NotNil(t, bound)
	assert.Equal(t, "int64", bound.String())

	other, _ := info.Field("Other")
	assert.Nil(t, analyze.Concrete(other.Type))

	count, _ := info.Field("Count")
	assert.Same(t, count.Type, analyze.Concrete(count.Type))
}

func TestContainerKind(t *testing.T) {
	k, err := analyze.ParseContainerKind("sorted_map")
	require.NoError(t, err)
	assert.Equal(t, analyze.ContainerSortedMap, k)
	assert.True(t, k.IsMapLike())
	assert.Equal(t, "sorted_map", k.String())

	_, err = analyze.ParseContainerKind("bag")
	require.Error(t, err)
	assert.Equal(t, "unknown", analyze.ContainerNone.String())
}

func TestParseDirective(t *testing.T) {
	d, ok := analyze.ParseDirective("//modelgen:entity access=property complete")
	require.True(t, ok)
	assert.Equal(t, "entity", d.Name)
	assert.Equal(t, "property", d.Arg("access"))
	assert.True(t, d.Flag("complete"))

	_, ok = analyze.ParseDirective("// modelgen:entity")
	assert.False(t, ok)

	_, ok = analyze.ParseDirective("//modelgen:")
	assert.False(t, ok)
}
