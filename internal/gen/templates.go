package gen

import (
	"text/template"

	"github.com/Ftibw/mongo-modelgen/internal/registry"
)

// headerData fills the header of every unit.
type headerData struct {
	Marker  string
	Package string
	Imports []registry.Import
}

var headerTemplate = template.Must(template.New("header").Parse(`{{if .Marker}}{{.Marker}}

{{end}}package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Explicit}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
`))

// metaData fills the metamodel body.
type metaData struct {
	Name    string // X_
	Var     string // X
	Entity  string // entity.X, as rendered in the unit
	Parent  string // parent metamodel, empty when there is none
	Runtime string // alias of the metamodel runtime package
	Fields  []metaField
}

type metaField struct {
	Name string
	Kind string // Single or Collection
	Type string
	Tag  string
}

var metaTemplate = template.Must(template.New("meta").Parse(`
// {{.Name}} is the metamodel of {{.Entity}}.
type {{.Name}} struct {
{{- if .Parent}}
	{{.Parent}}
{{- if .Fields}}
{{end}}
{{- end}}
{{- range .Fields}}
	{{.Name}} {{$.Runtime}}.{{.Kind}}[{{.Type}}] ` + "`" + `meta:"{{.Tag}}"` + "`" + `
{{- end}}
}

// {{.Var}} holds the document keys of {{.Entity}}.
var {{.Var}} = {{.Runtime}}.Bind[{{.Name}}]()
`))

// projectionData fills a projection body.
type projectionData struct {
	Name               string
	Descr              string
	Entity             string // rendered entity type
	EqualityOverridden bool
	Properties         []projectionField
	Extras             []projectionField
	EqFields           []projectionField
	Reflect            string // alias of reflect, set when Equal is generated
	Kind               string // DTO, QO or VO
}

type projectionField struct {
	Name        string
	Type        string
	Descr       string
	Constraints []string
	Eq          bool
	JSON        string
	BSON        string
	Accessor    string // getter generated on the projection
	Getter      string // entity getter for property-access entities
	Setter      string // entity setter for property-access entities
}

// All returns properties followed by extras.
func (d projectionData) All() []projectionField {
	return append(append([]projectionField{}, d.Properties...), d.Extras...)
}

var projectionTemplate = template.Must(template.New("projection").Parse(`
{{- define "field"}}
{{if .Eq}}	// +modelgen:eq
{{end}}
{{- range .Constraints}}	// +modelgen:constraint={{.}}
{{end}}	// {{.Descr}}
	{{.Name}} {{.Type}} ` + "`" + `json:"{{.JSON}},omitempty" bson:"{{.BSON}},omitempty"` + "`" + `
{{- end}}
// {{.Name}} {{.Descr}}
//
// swagger:model {{.Name}}
{{- if .EqualityOverridden}}
// +modelgen:equality=explicit
{{- end}}
// +modelgen:accessors
type {{.Name}} struct {
{{- range .Properties}}
{{- template "field" .}}
{{- end}}
{{- if .Extras}}

	// extra properties
{{- range .Extras}}
{{- template "field" .}}
{{- end}}
{{- end}}
}
{{range .All}}
// {{.Accessor}} returns {{.Name}}, or its zero value when p is nil.
func (p *{{$.Name}}) {{.Accessor}}() (v {{.Type}}) {
	if p == nil {
		return v
	}

	return p.{{.Name}}
}
{{end}}
{{- if .EqualityOverridden}}
// Equal compares the fields marked +modelgen:eq.
func (p *{{.Name}}) Equal(o *{{.Name}}) bool {
	if p == nil || o == nil {
		return p == o
	}

	return {{range $i, $f := .EqFields}}{{if $i}} &&
		{{end}}{{$.Reflect}}.DeepEqual(p.{{$f.Name}}, o.{{$f.Name}}){{end}}
}
{{end}}
{{- if eq .Kind "DTO"}}
// ToEntity copies the projected properties onto a new {{.Entity}}.
func (p *{{.Name}}) ToEntity() *{{.Entity}} {
	if p == nil {
		return nil
	}

	one := &{{.Entity}}{}
{{- range .Properties}}
{{- if .Setter}}
	one.{{.Setter}}(p.{{.Name}})
{{- else}}
	one.{{.Name}} = p.{{.Name}}
{{- end}}
{{- end}}

	return one
}
{{end}}
{{- if eq .Kind "VO"}}
// New{{.Name}} copies the projected properties of po.
func New{{.Name}}(po *{{.Entity}}) *{{.Name}} {
	if po == nil {
		return nil
	}

	return &{{.Name}}{
{{- range .Properties}}
		{{.Name}}: po.{{if .Getter}}{{.Getter}}(){{else}}{{.Name}}{{end}},
{{- end}}
	}
}

// {{.Name}}Projects lists the document keys {{.Name}} reads.
func {{.Name}}Projects() []string {
	return []string{ {{- range $i, $f := .Properties}}{{if $i}}, {{end}}{{printf "%q" $f.BSON}}{{end -}} }
}
{{end}}
`))
