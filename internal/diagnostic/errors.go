package diagnostic

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEntityMarker is returned when a package path has no "entity" segment to rewrite.
	ErrMissingEntityMarker = errors.New("modelgen: package path has no entity segment")
	// ErrPropertyNotFound is returned when a spec selects a property the entity does not declare.
	ErrPropertyNotFound = errors.New("modelgen: property not found")
	// ErrNonConvergence is returned when deferred entities stop making progress.
	ErrNonConvergence = errors.New("modelgen: potential endless loop in generation of entities")
	// ErrSinkWrite is returned when a rendered unit could not be persisted.
	ErrSinkWrite = errors.New("modelgen: sink write failed")
	// ErrRender is returned when a unit could not be rendered or formatted.
	ErrRender = errors.New("modelgen: render failed")
)

// Diagnostic codes shared across packages.
const (
	CodeEntityTypeNotFound   = "entity_type_not_found"
	CodeDuplicateEntity      = "duplicate_entity"
	CodeUnknownSpecKind      = "unknown_spec_kind"
	CodeUnknownRuleKind      = "unknown_rule_kind"
	CodeUnknownFormat        = "unknown_format"
	CodeUnknownContainerKind = "unknown_container_kind"
	CodeUnknownBasicType     = "unknown_basic_type"
	CodeMissingEntityMarker  = "missing_entity_marker"
	CodePropertyNotFound     = "property_not_found"
	CodeAnomalousTypeArgs    = "anomalous_type_arguments"
	CodeEmbeddedNotInline    = "embedded_not_inline"
	CodeExtraTypeNotFound    = "extra_type_not_found"
	CodeExtraTypeUnverified  = "extra_type_unverified"
	CodeDuplicateSpec        = "duplicate_spec"
	CodePotentialEndlessLoop = "potential_endless_loop"
	CodeSinkWriteFailed      = "sink_write_failed"
	CodeRenderFailed         = "render_failed"
	CodeSpecWithoutEntity    = "spec_without_entity"
	CodeUnitEmitted          = "unit_emitted"
)

// UnitError ties an error to the generated unit (and optionally the property) it broke.
type UnitError struct {
	Unit     string
	Property string
	Code     string
	Err      error
}

// NewUnitError creates a UnitError.
func NewUnitError(unit, code string, err error) *UnitError {
	return &UnitError{Unit: unit, Code: code, Err: err}
}

// NewPropertyError creates a UnitError scoped to a single property.
func NewPropertyError(unit, property, code string, err error) *UnitError {
	return &UnitError{Unit: unit, Property: property, Code: code, Err: err}
}

// Error implements the error interface.
func (e *UnitError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s.%s: %v", e.Unit, e.Property, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Unit, e.Err)
}

// Unwrap returns the underlying error.
func (e *UnitError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a UnitError with the same code.
func (e *UnitError) Is(target error) bool {
	t, ok := target.(*UnitError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}
