package foval

import (
	"context"
	"fmt"
)

// Per-field pipeline runner. Each field moves through a fixed, linear set of
// stages: before-transforms, validations, then after-transforms for fields
// that passed. Steps run strictly in declared order and each may suspend on
// the context (custom steps, external scorers) before the next one starts.
// A step error is fatal and aborts the whole validation run; it is never
// recorded as a validation failure.

func runFieldPipeline(ctx context.Context, form *Form, state *FieldState) (*FieldResult, error) {
	state.validity = ValidityPending

	if err := runTransforms(ctx, form, state, state.def.before); err != nil {
		return nil, err
	}

	result, err := runValidations(ctx, form, state)
	if err != nil {
		return nil, err
	}

	if result.Valid {
		state.validity = ValidityPassed
		// After-transforms operate on already-valid data only; a field that
		// failed keeps the value its validations saw.
		if err := runTransforms(ctx, form, state, state.def.after); err != nil {
			return nil, err
		}
	} else {
		state.validity = ValidityFailed
	}

	return result, nil
}

func runTransforms(ctx context.Context, form *Form, state *FieldState, steps []resolvedStep) error {
	for _, step := range steps {
		if !step.run {
			continue
		}

		transform, ok := form.registry.transform(step.name)
		if !ok {
			return fmt.Errorf("field %q: %w: %q", state.def.Name, ErrUnknownTransform, step.name)
		}
		if !transform.accepts(state.def.Type) {
			return fmt.Errorf("field %q: transform %q: %w (%s)", state.def.Name, step.name, ErrWrongDataType, state.def.Type)
		}

		value, err := transform.Apply(ctx, StepContext{form: form, state: state}, step.options)
		if err != nil {
			return fmt.Errorf("field %q: transform %q: %w", state.def.Name, step.name, err)
		}
		state.Value = value
	}
	return nil
}

func runValidations(ctx context.Context, form *Form, state *FieldState) (*FieldResult, error) {
	result := newFieldResult()

	for _, step := range state.def.validations {
		if !step.run {
			continue
		}

		validation, ok := form.registry.validation(step.name)
		if !ok {
			return nil, fmt.Errorf("field %q: %w: %q", state.def.Name, ErrUnknownValidation, step.name)
		}
		if !validation.accepts(state.def.Type) {
			return nil, fmt.Errorf("field %q: validation %q: %w (%s)", state.def.Name, step.name, ErrWrongDataType, state.def.Type)
		}

		// Empty optional fields pass every validation except required
		// without the value being inspected at all.
		if validation.SkipWhenEmpty && !state.def.Required && isEmptyValue(state.Value) {
			result.addStep(step.name, StepResult{Passed: true})
			continue
		}

		passed, reason, err := validation.Check(ctx, StepContext{form: form, state: state}, step.options)
		if err != nil {
			return nil, fmt.Errorf("field %q: validation %q: %w", state.def.Name, step.name, err)
		}

		result.addStep(step.name, StepResult{Passed: passed, Reason: reason})
		if !passed && form.stopOnInvalid {
			break
		}
	}

	return result, nil
}
