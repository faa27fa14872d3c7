package resolve_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/resolve"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

func attrs(names ...string) []walk.AttributeDescriptor {
	out := make([]walk.AttributeDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, walk.AttributeDescriptor{Name: n, StorageName: n, TypeName: "string"})
	}

	return out
}

func userInput(entity *spec.Entity) resolve.Input {
	inherited := attrs("CreatedAt", "ID")
	inherited[1].Identifier = true

	return resolve.Input{
		Unit:      "example.com/app/entity.User",
		Entity:    entity,
		Own:       attrs("Name", "Email", "Age"),
		Inherited: inherited,
	}
}

func resolveOne(t *testing.T, entity *spec.Entity) (resolve.Resolution, *diagnostic.Diagnostics) {
	t.Helper()

	diags := &diagnostic.Diagnostics{}
	res := resolve.NewResolver(diags, nil).Resolve(userInput(entity))

	return res, diags
}

func TestResolve_RulesDedupByKind(t *testing.T) {
	res, diags := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "DTO", Props: []spec.Prop{{
			Name: "Name",
			Rules: []spec.Rule{
				{Kind: spec.RuleNotBlank},
				{Kind: spec.RuleNotBlank, Msg: "dropped"},
				{Kind: "Bogus"},
				{Kind: spec.RuleSize, Opts: []string{"1", "2"}},
			},
		}}},
	}})

	require.Len(t, res.Named, 1)
	require.Len(t, res.Named[0].Properties, 1)
	assert.Equal(t, []string{"NotBlank", "Size(min=1,max=2)"}, res.Named[0].Properties[0].Constraints())
	assert.False(t, diags.HasErrors())
}

func TestResolve_DuplicateNamespaceAndKind(t *testing.T) {
	res, diags := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Namespace: "a", Kind: "DTO", Props: []spec.Prop{{Name: "Name"}}},
		{Namespace: "a", Kind: "dto", Props: []spec.Prop{{Name: "Email"}}},
		{Namespace: "a", Kind: "VO", Props: []spec.Prop{{Name: "Email"}}},
	}})

	require.Len(t, res.Named, 2)
	assert.Equal(t, []string{"Name"}, res.Named[0].PropertyNames())
	assert.Equal(t, spec.KindView, res.Named[1].Kind)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeDuplicateSpec, diags.Warnings[0].Code)
}

func TestResolve_PropertyOrder(t *testing.T) {
	res, _ := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "VO", Props: []spec.Prop{
			{Name: "CreatedAt"}, {Name: "Age"}, {Name: "ID"}, {Name: "Name"},
		}},
	}})

	got := res.Named[0].PropertyNames()
	if diff := cmp.Diff([]string{"ID", "Name", "Age", "CreatedAt"}, got); diff != "" {
		t.Errorf("property order (-want +got):\n%s", diff)
	}

	for _, p := range res.Named[0].Properties {
		require.NotNil(t, p.Attribute)
		assert.Equal(t, p.Name, p.Attribute.Name)
		assert.False(t, p.IsExtra())
	}
}

func TestResolve_Descriptions(t *testing.T) {
	super := &spec.Entity{Specs: []spec.Spec{{Props: []spec.Prop{
		{Name: "ID", Descr: "primary key"},
		{Name: "CreatedAt", Descr: "creation time"},
	}}}}

	entity := &spec.Entity{Specs: []spec.Spec{
		{Descr: "A user", Props: []spec.Prop{{Name: "CreatedAt", Descr: "signup time"}}},
		{Kind: "DTO", Props: []spec.Prop{
			{Name: "ID"}, {Name: "CreatedAt"}, {Name: "Name"}, {Name: "Email", Descr: "login"},
		}},
		{Kind: "VO", Descr: "User view"},
	}}

	in := userInput(entity)
	in.Super = super

	res := resolve.NewResolver(nil, nil).Resolve(in)

	assert.Equal(t, "A user", res.Descr)
	require.Len(t, res.Named, 2)

	dto := res.Named[0]
	assert.Equal(t, "A user", dto.Descr)

	descr := func(name string) string {
		p, ok := dto.Property(name)
		require.True(t, ok, name)

		return p.Descr
	}

	assert.Equal(t, "primary key", descr("ID"))
	assert.Equal(t, "signup time", descr("CreatedAt"))
	assert.Equal(t, "Name", descr("Name"))
	assert.Equal(t, "login", descr("Email"))

	assert.Equal(t, "User view", res.Named[1].Descr)
	assert.Empty(t, res.Named[1].Properties)
}

func TestResolve_EqualityOverride(t *testing.T) {
	res, _ := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "DTO", Props: []spec.Prop{{Name: "Name", Hash: true}, {Name: "Email"}}},
		{Kind: "VO", Props: []spec.Prop{{Name: "Name"}}},
		{Kind: "QO", Extra: []spec.Extra{{Name: "Page", Imports: spec.StringOrArray{"int"}, Hash: true}}},
	}})

	require.Len(t, res.Named, 3)
	assert.True(t, res.Named[0].EqualityOverridden)
	assert.False(t, res.Named[1].EqualityOverridden)
	assert.True(t, res.Named[2].EqualityOverridden)
}

func TestResolve_UnknownPropertyInvalidatesProjection(t *testing.T) {
	res, diags := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "DTO", Props: []spec.Prop{{Name: "Name"}, {Name: "Emial"}, {Name: "Emial"}}},
		{Kind: "VO", Props: []spec.Prop{{Name: "Name"}}},
	}})

	require.Len(t, res.Named, 2)
	assert.True(t, res.Named[0].Invalid)
	assert.False(t, res.Named[1].Invalid)

	errs := diags.ByCode(diagnostic.CodePropertyNotFound)
	require.Len(t, errs, 1)
	assert.Equal(t, "Emial", errs[0].Property)
	assert.Equal(t, []string{"Email"}, errs[0].Suggestions)
}

func TestResolve_ExtraProperties(t *testing.T) {
	res, _ := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "DTO", Props: []spec.Prop{{Name: "Name"}}, Extra: []spec.Extra{
			{Name: "Name", Imports: spec.StringOrArray{"string"}},
			{Name: "Captcha", Imports: spec.StringOrArray{"string"}},
			{Name: "Captcha", Imports: spec.StringOrArray{"int"}},
			{Name: "Unresolved", Imports: spec.StringOrArray{"not a type"}},
			{Name: "NoImports"},
			{Name: "Ambiguous", Imports: spec.StringOrArray{"time.Time", "math/big.Int"}},
			{
				Name:        "Window",
				Imports:     spec.StringOrArray{"time.Time", "math/big.Int"},
				TypeDeclare: "map[time.Time]*big.Int",
				Descr:       "buckets",
				Rules:       []spec.Rule{{Kind: spec.RuleNotNull}, {Kind: spec.RuleNotNull}},
			},
			{Name: "Since", Imports: spec.StringOrArray{"time.Time"}},
		}},
	}})

	require.Len(t, res.Named, 1)
	extras := res.Named[0].Extras

	names := make([]string, 0, len(extras))
	for _, e := range extras {
		names = append(names, e.Name)
		assert.True(t, e.IsExtra())
	}

	assert.Equal(t, []string{"Captcha", "Window", "Since"}, names)

	assert.Equal(t, "Captcha", extras[0].Descr)
	assert.Equal(t, []spec.TypeRef{{Name: "string"}}, extras[0].Imports)

	assert.Equal(t, "map[time.Time]*big.Int", extras[1].TypeDeclare)
	assert.Equal(t, "buckets", extras[1].Descr)
	assert.Equal(t, []string{"NotNull"}, extras[1].Constraints())

	assert.Equal(t, []spec.TypeRef{{PkgPath: "time", Name: "Time"}}, extras[2].Imports)
	assert.Empty(t, extras[2].TypeDeclare)

	_, ok := res.Named[0].Property("Window")
	assert.True(t, ok)
	assert.Len(t, res.Named[0].Fields(), 4)
}

func TestResolve_ExtraNamesCompareAsFields(t *testing.T) {
	res, diags := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Kind: "DTO", Props: []spec.Prop{{Name: "Name"}}, Extra: []spec.Extra{
			{Name: "name", Imports: spec.StringOrArray{"string"}},
			{Name: "note", Imports: spec.StringOrArray{"string"}},
			{Name: "Note", Imports: spec.StringOrArray{"int"}},
		}},
	}})

	require.Len(t, res.Named, 1)
	assert.False(t, diags.HasErrors())

	extras := res.Named[0].Extras
	require.Len(t, extras, 1)
	assert.Equal(t, "note", extras[0].Name)
	assert.Equal(t, []spec.TypeRef{{Name: "string"}}, extras[0].Imports)
}

func TestResolve_NoEntitySpec(t *testing.T) {
	super := &spec.Entity{Specs: []spec.Spec{{Props: []spec.Prop{{Name: "ID", Descr: "key"}}}}}

	in := userInput(nil)
	in.Super = super

	res := resolve.NewResolver(nil, nil).Resolve(in)

	assert.Empty(t, res.Named)
	assert.Equal(t, "key", res.Descriptions["ID"])
}

func TestResolve_SkipsSpecsWithoutKind(t *testing.T) {
	res, _ := resolveOne(t, &spec.Entity{Specs: []spec.Spec{
		{},
		{Namespace: "x"},
		{Kind: "BO"},
		{Kind: "QO"},
	}})

	require.Len(t, res.Named, 1)
	assert.Equal(t, spec.KindQuery, res.Named[0].Kind)
}
