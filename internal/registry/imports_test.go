package registry

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportSet_AddAndConflicts(t *testing.T) {
	s := NewImportSet("example.com/app/meta")

	assert.Equal(t, "", s.Add(""))
	assert.Equal(t, "", s.Add("example.com/app/meta"))
	assert.Equal(t, "entity", s.Add("example.com/app/entity"))
	assert.Equal(t, "entity", s.Add("example.com/app/entity"))
	assert.Equal(t, "entity2", s.Add("example.com/other/entity"))
	assert.Equal(t, "yaml", s.Add("gopkg.in/yaml.v3"))
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, []Import{
		{Alias: "entity", Path: "example.com/app/entity"},
		{Alias: "entity2", Path: "example.com/other/entity"},
		{Alias: "yaml", Path: "gopkg.in/yaml.v3"},
	}, s.Imports())

	assert.False(t, s.Imports()[0].Explicit())
	assert.True(t, s.Imports()[1].Explicit())
	assert.False(t, s.Imports()[2].Explicit())
}

func TestImportSet_Remove(t *testing.T) {
	s := NewImportSet("")
	s.Add("time")
	s.Add("math/big")

	s.Remove("time")
	s.Remove("missing")

	assert.False(t, s.Has("time"))
	assert.True(t, s.Has("math/big"))
	assert.Equal(t, "time", s.Add("time"))
}

func TestImportSet_TypeString(t *testing.T) {
	s := NewImportSet("example.com/app/dto")

	timePkg := types.NewPackage("time", "time")
	timeT := types.NewNamed(types.NewTypeName(0, timePkg, "Time", nil), types.NewStruct(nil, nil), nil)
	self := types.NewPackage("example.com/app/dto", "dto")
	local := types.NewNamed(types.NewTypeName(0, self, "Local", nil), types.Typ[types.Int], nil)

	assert.Equal(t, "[]*time.Time", s.TypeString(types.NewSlice(types.NewPointer(timeT))))
	assert.Equal(t, "map[string]Local", s.TypeString(types.NewMap(types.Typ[types.String], local)))
	assert.Equal(t, []string{"time"}, s.Paths())

	assert.Equal(t, "decimal.Decimal", s.Qualify("github.com/shopspring/decimal.Decimal"))
	assert.Equal(t, "string", s.Qualify("string"))
}

func TestImportSet_Merge(t *testing.T) {
	a := NewImportSet("")
	a.Add("time")

	b := NewImportSet("")
	b.Add("math/big")
	b.Merge(a)
	b.Merge(nil)

	assert.Equal(t, []string{"math/big", "time"}, b.Paths())
}

func TestImportSet_DeclaredNameDiffersFromPath(t *testing.T) {
	s := NewImportSet("example.com/app/vo")

	core := types.NewPackage("example.com/lib/core/v1", "v1")
	level := types.NewNamed(types.NewTypeName(0, core, "Level", nil), types.Typ[types.Int], nil)

	assert.Equal(t, "v1.Level", s.TypeString(level))
	assert.Equal(t, []Import{{Alias: "v1", Path: "example.com/lib/core/v1", Name: "v1"}}, s.Imports())
	assert.True(t, s.Imports()[0].Explicit())
}

func TestImportSet_NameLearnedAfterAdd(t *testing.T) {
	s := NewImportSet("")

	assert.Equal(t, "core", s.Add("example.com/lib/core/v1"))
	assert.Equal(t, "core", s.AddNamed("example.com/lib/core/v1", "v1"))

	imp := s.Imports()[0]
	assert.Equal(t, "v1", imp.Name)
	assert.True(t, imp.Explicit(), "the alias no longer matches the package clause")
}

func TestImportSet_MergeKeepsNames(t *testing.T) {
	a := NewImportSet("")
	a.AddNamed("example.com/lib/core/v1", "v1")

	b := NewImportSet("")
	b.Merge(a)

	assert.Equal(t, []Import{{Alias: "v1", Path: "example.com/lib/core/v1", Name: "v1"}}, b.Imports())
}
