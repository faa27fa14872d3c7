// Package match suggests the closest known name for a misspelled property.
//
// Names are normalized (camel case split, separators dropped, lower-cased)
// and scored by normalized Levenshtein similarity.
package match
