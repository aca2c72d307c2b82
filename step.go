package foval

import (
	"context"
	"fmt"
	"slices"
)

// StepContext is the immutable view a transform or validation receives of the
// field it operates on and of its sibling fields. Steps never mutate form
// state directly; transforms return the replacement value instead.
type StepContext struct {
	form  *Form
	state *FieldState
}

// Value returns the field's current working value.
func (c StepContext) Value() any { return c.state.Value }

// Raw returns the original input value, untouched by coercion or transforms.
func (c StepContext) Raw() any { return c.state.Raw }

// DataType returns the field's canonical data type.
func (c StepContext) DataType() DataType { return c.state.def.Type }

// FieldName returns the name of the field being processed.
func (c StepContext) FieldName() string { return c.state.def.Name }

// Required reports whether the field carries a required validation.
func (c StepContext) Required() bool { return c.state.def.Required }

// Sibling returns the current value and data type of another field on the
// same form. Note that sibling values reflect pipeline progress at call time:
// a field defined later has not run its pipeline yet, and an earlier field
// has not run its after-transforms. Cross-field checks compare against this
// in-flight value on purpose; see the match-field validation.
func (c StepContext) Sibling(name string) (any, DataType, bool) {
	st, ok := c.form.states[name]
	if !ok {
		return nil, "", false
	}
	return st.Value, st.def.Type, true
}

// TransformFunc mutates a field's value. It returns the replacement value or
// a fatal error that aborts the whole validation run.
type TransformFunc func(ctx context.Context, sc StepContext, opts Options) (any, error)

// ValidateFunc checks a field's value. It returns the outcome, a short
// machine-readable reason for failures, and a fatal error for configuration
// problems (never for ordinary validation failures).
type ValidateFunc func(ctx context.Context, sc StepContext, opts Options) (bool, string, error)

// CustomTransformFunc is the caller-supplied function behind a custom
// transform step.
type CustomTransformFunc func(ctx context.Context, value any, dataType DataType) (any, error)

// CustomValidationFunc is the caller-supplied predicate behind a custom
// validation step.
type CustomValidationFunc func(ctx context.Context, value any, dataType DataType, required bool) (bool, string, error)

// Transform is a named, registered transform step.
type Transform struct {
	Name string

	// AllowedTypes restricts which field data types the transform accepts.
	// Empty means any type.
	AllowedTypes []DataType

	// PrimaryOption names the key a bare scalar option shorthand resolves to.
	PrimaryOption string

	// Defaults are merged under caller options during normalization.
	Defaults Options

	Apply TransformFunc
}

// Validation is a named, registered validation step.
type Validation struct {
	Name          string
	AllowedTypes  []DataType
	PrimaryOption string
	Defaults      Options

	// SkipWhenEmpty marks validations that pass automatically when the field
	// is empty and not required. Every built-in validation except required
	// sets this.
	SkipWhenEmpty bool

	Check ValidateFunc
}

func (t Transform) accepts(dt DataType) bool {
	return len(t.AllowedTypes) == 0 || slices.Contains(t.AllowedTypes, dt)
}

func (v Validation) accepts(dt DataType) bool {
	return len(v.AllowedTypes) == 0 || slices.Contains(v.AllowedTypes, dt)
}

// resolvedStep is one configured step after option normalization.
type resolvedStep struct {
	name    string
	options Options
	run     bool
}

// Registry holds the named transform and validation steps available to a
// form. The default registry is shared and must not be mutated after init;
// callers that register their own steps work on a copy from NewRegistry.
type Registry struct {
	transforms  map[string]Transform
	validations map[string]Validation
}

// NewRegistry returns a mutable copy of the built-in registry.
func NewRegistry() *Registry {
	r := &Registry{
		transforms:  make(map[string]Transform, len(defaultRegistry.transforms)),
		validations: make(map[string]Validation, len(defaultRegistry.validations)),
	}
	for name, t := range defaultRegistry.transforms {
		r.transforms[name] = t
	}
	for name, v := range defaultRegistry.validations {
		r.validations[name] = v
	}
	return r
}

// RegisterTransform adds or replaces a named transform.
func (r *Registry) RegisterTransform(t Transform) error {
	if t.Name == "" || t.Apply == nil {
		return fmt.Errorf("%w: transform requires a name and an apply function", ErrMissingFunction)
	}
	r.transforms[t.Name] = t
	return nil
}

// RegisterValidation adds or replaces a named validation.
func (r *Registry) RegisterValidation(v Validation) error {
	if v.Name == "" || v.Check == nil {
		return fmt.Errorf("%w: validation requires a name and a check function", ErrMissingFunction)
	}
	r.validations[v.Name] = v
	return nil
}

func (r *Registry) transform(name string) (Transform, bool) {
	t, ok := r.transforms[name]
	return t, ok
}

func (r *Registry) validation(name string) (Validation, bool) {
	v, ok := r.validations[name]
	return v, ok
}

var defaultRegistry = &Registry{
	transforms:  builtinTransforms(),
	validations: builtinValidations(),
}
