package foval

import "errors"

// Configuration errors raised while defining fields or wiring a form. These
// are fatal: they surface as the error return of AddField or Validate and are
// never represented as per-field validation failures.
var (
	// ErrDuplicateField is returned when a field name is defined twice on the same form.
	ErrDuplicateField = errors.New("field is already defined")

	// ErrInvalidFieldName is returned when a field is defined without a usable name.
	ErrInvalidFieldName = errors.New("invalid field name")

	// ErrUnknownDataType is returned when a field's data type does not normalize to a canonical type.
	ErrUnknownDataType = errors.New("unknown data type")

	// ErrUnknownTransform is returned when a configured transform name is not registered.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrUnknownValidation is returned when a configured validation name is not registered.
	ErrUnknownValidation = errors.New("unknown validation")

	// ErrWrongDataType is returned when a step is invoked on a field whose
	// data type it does not accept.
	ErrWrongDataType = errors.New("step does not accept field data type")

	// ErrMissingFunction is returned when a custom step is configured without a function.
	ErrMissingFunction = errors.New("custom step requires a function")

	// ErrInvalidPattern is returned when a regexp option fails to compile.
	ErrInvalidPattern = errors.New("invalid regular expression")

	// ErrInvalidList is returned when an in-list validation has no usable list option.
	ErrInvalidList = errors.New("in-list validation requires a non-empty list")

	// ErrInvalidMatchField is returned when match-field names a field that is not defined.
	ErrInvalidMatchField = errors.New("match-field target is not defined")

	// ErrUnknownFormatter is returned by Format for an unrecognized formatter name.
	ErrUnknownFormatter = errors.New("unknown formatter")

	// ErrStaleClient is returned when the submitted client version tag does
	// not match the version the form expects.
	ErrStaleClient = errors.New("stale client version")
)
