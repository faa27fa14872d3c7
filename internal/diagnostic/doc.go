// Package diagnostic collects the problems found while generating units.
//
// Generation never aborts on a single bad entity or projection. Every failure
// is recorded here with a code, the unit it belongs to and, when known, the
// property, and the run continues with the remaining units. The sentinel
// errors in errors.go let callers match failures with errors.Is.
package diagnostic
