// Package foval is a declarative form-validation engine. Given a flat bag of
// raw key/value input, typically an HTML form submission, callers define
// named, typed fields and then run each field through an ordered pipeline of
// type coercion, before-transforms, validations and after-transforms,
// producing a structured pass/fail result together with the sanitized field
// values.
//
// # Architecture
//
// Core building blocks:
//   - DataType / NormalizeDataType – canonical field types and alias mapping
//   - Registry                     – named, pluggable Transform and Validation steps
//   - FieldConfig / AddField       – field definition with shorthand expansion
//   - Form.Validate                – per-field pipeline runner plus aggregation
//   - FormResult                   – per-field step outcomes and final values
//
// Each field moves through a fixed, linear pipeline: coercion at definition
// time, then before-transforms, validations and after-transforms in declared
// order. Validation failures are routine outcomes recorded as StepResult
// entries; configuration mistakes (duplicate fields, unknown step names,
// malformed patterns) are fatal errors returned to the caller and never mixed
// into the per-field results.
//
// # Usage
//
//	form := foval.New(foval.Values{"age": "15"})
//	err := form.AddField(foval.FieldConfig{
//		Name:        "age",
//		Type:        "int",
//		Required:    true,
//		Validations: foval.Steps{foval.Step("numeric", map[string]any{"min": 18, "max": 120})},
//	})
//	if err != nil {
//		// configuration problem, fix the form definition
//	}
//
//	result, err := form.Validate(ctx)
//	if err != nil {
//		// fatal error, not a validation failure
//	}
//	if !result.Valid {
//		// result.Fields["age"].Steps["numeric"].Reason == "too-small"
//	}
//
// A single validation run is fully sequential; steps may suspend on the
// context before producing their result, and the runner waits for each step
// before starting the next. Independent forms validate concurrently without
// shared mutable state: the built-in registries are read-only after init.
//
// Cross-field checks (match-field) read the sibling field's in-flight value.
// Fields validate in definition order, so a match target defined later has
// not been coerced through its own pipeline yet, and one defined earlier has
// not run its after-transforms. Define match targets first; this ordering is
// part of the contract, not an accident of implementation.
package foval
