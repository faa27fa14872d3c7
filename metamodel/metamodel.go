// Package metamodel is the runtime side of generated metamodel types.
//
// A generated metamodel is a struct whose fields are Single or Collection
// attributes tagged with their document key:
//
//	type User_ struct {
//		Base_
//
//		Name metamodel.Single[string]     `meta:"name"`
//		Tags metamodel.Collection[string] `meta:"tags,list"`
//	}
//
//	var User = metamodel.Bind[User_]()
//
// Bind fills in the paths, so User.Name.Path == "name" can be used to build
// queries and projections without spelling document keys by hand.
package metamodel

import (
	"reflect"
	"strings"
)

// TagName is the struct tag Bind reads.
const TagName = "meta"

// Attribute is implemented by every metamodel attribute.
type Attribute interface {
	// Key returns the document key of the attribute.
	Key() string
}

// Single is a single-valued attribute of type T.
type Single[T any] struct {
	Path string
}

// Key returns the document key.
func (a Single[T]) Key() string {
	return a.Path
}

func (a *Single[T]) bind(path, _ string) {
	a.Path = path
}

// Collection is a collection-valued attribute with elements of type E.
type Collection[E any] struct {
	Path string
	// Container is the collection family: list, set, sorted_set, map, sorted_map or collection.
	Container string
}

// Key returns the document key.
func (a Collection[E]) Key() string {
	return a.Path
}

// IsMap reports whether the collection is keyed.
func (a Collection[E]) IsMap() bool {
	return a.Container == "map" || a.Container == "sorted_map"
}

func (a *Collection[E]) bind(path, container string) {
	a.Path = path
	a.Container = container
}

type binder interface {
	bind(path, container string)
}

// Bind returns a metamodel value of type M with every tagged attribute
// bound to its document key. Embedded metamodels are bound too.
func Bind[M any]() M {
	var m M

	bindStruct(reflect.ValueOf(&m).Elem())

	return m
}

func bindStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		fv := v.Field(i)

		tag, ok := f.Tag.Lookup(TagName)
		if !ok {
			if f.Anonymous {
				bindStruct(fv)
			}

			continue
		}

		if !fv.CanAddr() || !fv.Addr().CanInterface() {
			continue
		}

		b, ok := fv.Addr().Interface().(binder)
		if !ok {
			continue
		}

		path, container, _ := strings.Cut(tag, ",")
		b.bind(path, container)
	}
}

// Join builds a dotted path through nested attributes, as used by
// MongoDB filters on embedded documents.
func Join(attrs ...Attribute) string {
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if k := a.Key(); k != "" {
			keys = append(keys, k)
		}
	}

	return strings.Join(keys, ".")
}
