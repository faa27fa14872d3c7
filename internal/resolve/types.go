package resolve

import (
	"github.com/Ftibw/mongo-modelgen/internal/spec"
	"github.com/Ftibw/mongo-modelgen/internal/walk"
)

// PropertyDescriptor is one property of a projection.
type PropertyDescriptor struct {
	Name  string
	Descr string
	Rules []spec.Rule // first rule of each kind, in declaration order
	Hash  bool        // participates in equality

	// Attribute is the entity attribute behind the property; nil for extras.
	Attribute *walk.AttributeDescriptor

	// TypeDeclare is the verbatim type of an extra property. When blank the
	// type is Imports[0].
	TypeDeclare string
	Imports     []spec.TypeRef
}

// IsExtra reports whether the property is synthetic.
func (p *PropertyDescriptor) IsExtra() bool {
	return p.Attribute == nil
}

// Constraints renders the rules as constraint decorators.
func (p *PropertyDescriptor) Constraints() []string {
	out := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		out = append(out, r.Render())
	}

	return out
}

// ProjectionSpec is a resolved named spec.
type ProjectionSpec struct {
	Namespace string
	Descr     string
	Kind      spec.Kind

	// Properties are the selected entity properties in render order:
	// the inherited identifier, own attributes, then other inherited ones.
	Properties []PropertyDescriptor
	// Extras are the admitted synthetic properties in spec order.
	Extras []PropertyDescriptor

	EqualityOverridden bool

	// Invalid is set when a selected property does not exist; the
	// projection must not be emitted.
	Invalid bool
}

// Property returns the selected or extra property called name.
func (s *ProjectionSpec) Property(name string) (*PropertyDescriptor, bool) {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i], true
		}
	}

	for i := range s.Extras {
		if s.Extras[i].Name == name {
			return &s.Extras[i], true
		}
	}

	return nil, false
}

// PropertyNames returns the names of the selected entity properties.
func (s *ProjectionSpec) PropertyNames() []string {
	out := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		out = append(out, p.Name)
	}

	return out
}

// Fields returns the selected properties followed by the extras.
func (s *ProjectionSpec) Fields() []PropertyDescriptor {
	return append(append([]PropertyDescriptor{}, s.Properties...), s.Extras...)
}

// Resolution holds the specs of one entity.
type Resolution struct {
	// Descr is the default spec description.
	Descr string
	// Descriptions maps property names to default descriptions.
	Descriptions map[string]string
	// Named are the deduplicated named specs in declaration order.
	Named []ProjectionSpec
}
