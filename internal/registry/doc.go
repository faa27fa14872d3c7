// Package registry holds the state of one generation run.
//
// A Session is built once per run from the type graph and the spec file. It
// partitions tracked types into direct entities (declared by directive or by
// the spec file) and embeddables (registered lazily when an attribute points
// at them), remembers what has been emitted, and owns the dirty-import
// scratch set that keeps one projection's imports out of its siblings.
package registry
