// Package naming holds the identifier and package-path conventions shared by
// the attribute walker and the source emitter: getter/setter recognition,
// capitalization, generated type names and the entity -> meta/projection
// package rewrites.
package naming
