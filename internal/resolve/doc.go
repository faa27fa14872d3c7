// Package resolve turns the spec entries of an entity into projection specs.
//
// The first spec of an entity is its implicit default: it is never emitted
// and only supplies property descriptions, merged over the default spec of
// the nearest tracked superclass. Every later spec becomes a ProjectionSpec
// with its selected properties in render order, its deduplicated rules and
// the extra properties it admits.
package resolve
