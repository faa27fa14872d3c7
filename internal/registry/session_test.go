package registry_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/analyze/analyzetest"
	"github.com/Ftibw/mongo-modelgen/internal/registry"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
)

const entitySrc = `package entity

import "time"

//modelgen:embeddable
type Geo struct {
	Lat float64
	Lng float64
}

//modelgen:embeddable
type Address struct {
	Street string
	Point  Geo
}

//modelgen:mapped-superclass
type Base struct {
	ID      string    ` + "`bson:\"_id\"`" + `
	Created time.Time
}

//modelgen:entity
type User struct {
	Base ` + "`bson:\",inline\"`" + `
	Name string
	Home Address
}

type Order struct {
	Base  ` + "`bson:\",inline\"`" + `
	Total int
}

type Loose struct {
	Note string
}
`

func id(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: "example.com/app/entity", Name: name}
}

func newSession(t *testing.T, file *spec.File) *registry.Session {
	t.Helper()

	graph := analyzetest.Load(t, map[string]string{"example.com/app/entity": entitySrc})

	return registry.NewSession(graph, file)
}

func ids(tds []*registry.TypeDescriptor) []analyze.TypeID {
	out := make([]analyze.TypeID, 0, len(tds))
	for _, td := range tds {
		out = append(out, td.ID())
	}

	return out
}

func TestSession_Discover(t *testing.T) {
	s := newSession(t, &spec.File{Entities: []spec.Entity{
		{Type: "entity.Order", MetaComplete: true},
	}})

	want := []analyze.TypeID{id("Base"), id("User"), id("Order")}
	if diff := cmp.Diff(want, ids(s.Direct())); diff != "" {
		t.Errorf("direct entities (-want +got):\n%s", diff)
	}

	assert.True(t, s.Tracked(id("Base")))
	assert.False(t, s.Tracked(id("Loose")))
	assert.True(t, s.MetaComplete(id("Order")))
	assert.False(t, s.MetaComplete(id("User")))
	assert.NotNil(t, s.Get(id("Order")).Spec)
	assert.Nil(t, s.Get(id("User")).Spec)
	assert.Empty(t, s.Embeddables())
}

func TestSession_LazyEmbeddables(t *testing.T) {
	s := newSession(t, nil)

	user := s.Get(id("User"))
	attrs := s.Attributes(user)

	require.Len(t, attrs, 4)
	assert.Equal(t, []analyze.TypeID{id("Address")}, ids(s.Embeddables()))
	assert.False(t, s.Tracked(id("Address")))

	s.OwnAttributes(s.Get(id("Address")))
	assert.Equal(t, []analyze.TypeID{id("Address"), id("Geo")}, ids(s.Embeddables()))

	assert.True(t, s.MarkEmitted(id("Address")))
	assert.False(t, s.MarkEmitted(id("Address")))
	assert.True(t, s.IsEmitted(id("Address")))
	assert.Equal(t, []analyze.TypeID{id("Geo")}, ids(s.PendingEmbeddables()))
}

func TestSession_AddEmbeddableIgnoresDirectEntities(t *testing.T) {
	s := newSession(t, nil)

	s.AddEmbeddable(s.Get(id("User")).Info)

	assert.Empty(t, s.Embeddables())
	assert.True(t, s.Tracked(id("User")))
}

func TestSession_Superclass(t *testing.T) {
	s := newSession(t, nil)

	assert.Equal(t, "example.com/app/entity.Base", s.SuperclassName(s.Get(id("User"))))
	assert.Nil(t, s.Superclass(s.Get(id("Base"))))
	assert.Equal(t, "entity", s.Get(id("User")).PackageName())
	assert.Equal(t, "User", s.Get(id("User")).SimpleName())
	assert.False(t, s.Get(id("User")).PropertyAccess())

	inherited := s.InheritedAttributes(s.Get(id("User")))
	require.Len(t, inherited, 2)
	assert.Equal(t, "ID", inherited[0].Name)
}

func TestSession_DirtyImports(t *testing.T) {
	s := newSession(t, nil)
	user := s.Get(id("User"))

	user.Imports.Add("time")
	assert.Empty(t, s.Dirty())

	assert.Equal(t, "time", s.ImportDirty(user, "time", ""))
	assert.Empty(t, s.Dirty(), "already imported paths are not dirty")

	assert.Equal(t, "big", s.ImportDirty(user, "math/big", "big"))
	assert.Equal(t, []string{"math/big"}, s.Dirty())
	assert.True(t, user.Imports.Has("math/big"))

	s.ClearDirty(user)

	assert.Empty(t, s.Dirty())
	assert.False(t, user.Imports.Has("math/big"))
	assert.True(t, user.Imports.Has("time"))
	assert.True(t, user.Imports.Has("example.com/app/entity"))
}
