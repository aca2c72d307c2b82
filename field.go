package foval

import (
	"context"
	"fmt"
	"strings"
)

// StepConfig names one transform or validation step together with its raw,
// not-yet-normalized options.
type StepConfig struct {
	Name    string
	Options any
}

// Steps is an ordered list of configured steps.
type Steps []StepConfig

// Step is a convenience constructor for a StepConfig.
func Step(name string, opts any) StepConfig {
	return StepConfig{Name: name, Options: opts}
}

func (s Steps) contains(name string) bool {
	for _, step := range s {
		if step.Name == name {
			return true
		}
	}
	return false
}

// FieldConfig is the caller-facing configuration for one field.
type FieldConfig struct {
	Name    string
	Type    string // alias or canonical data type name
	Default any

	// Shorthands, expanded into steps by the builder.
	Required bool
	Trim     bool
	Modify   CustomTransformFunc

	// DisableTypecasting keeps the raw value as-is instead of coercing it to
	// the canonical representation of the data type.
	DisableTypecasting bool

	Before      Steps
	After       Steps
	Validations Steps
}

// FieldDefinition is the immutable, fully-resolved configuration for one
// field, created once when the field is defined.
type FieldDefinition struct {
	Name     string
	Type     DataType
	Required bool
	Default  any

	typecast    bool
	before      []resolvedStep
	after       []resolvedStep
	validations []resolvedStep
}

// FieldState carries a field's working value through one validation run.
type FieldState struct {
	def *FieldDefinition

	// Value is the current working value; it starts as the coerced raw (or
	// default) value and is overwritten by each transform step.
	Value any

	// Raw is the original input value, kept as an audit trail.
	Raw any

	validity Validity
	extra    map[string]any
}

// Validity is the tri-state validation outcome of a field.
type Validity int8

const (
	ValidityPending Validity = iota
	ValidityPassed
	ValidityFailed
)

// Definition returns the field's immutable definition.
func (s *FieldState) Definition() *FieldDefinition { return s.def }

// Validity reports the field's current validation outcome.
func (s *FieldState) Validity() Validity { return s.validity }

// SetExtra attaches caller metadata to the field, independent of the
// pipeline.
func (s *FieldState) SetExtra(key string, value any) {
	if s.extra == nil {
		s.extra = make(map[string]any)
	}
	s.extra[key] = value
}

// Extra reads caller metadata attached with SetExtra.
func (s *FieldState) Extra(key string) (any, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// typeDefaultSteps returns the steps a canonical type injects automatically
// when the caller has not configured a step of the same name.
func typeDefaultSteps(t DataType) (before, after, validations []string) {
	switch t {
	case TypeEmail:
		return []string{"str-trim"}, nil, []string{"email"}
	case TypeURL:
		return []string{"str-trim"}, []string{"url"}, []string{"url"}
	case TypeTelephone:
		return []string{"str-trim"}, nil, []string{"telephone"}
	default:
		return nil, nil, nil
	}
}

// newFieldDefinition validates and normalizes a field configuration. Any
// error leaves no partial definition behind; the caller only stores the
// result on success.
func newFieldDefinition(registry *Registry, cfg FieldConfig) (*FieldDefinition, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFieldName)
	}

	dataType, err := NormalizeDataType(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", cfg.Name, err)
	}

	defBefore, defAfter, defValidations := typeDefaultSteps(dataType)

	before := make(Steps, 0, len(cfg.Before)+2)
	if (cfg.Trim || containsName(defBefore, "str-trim")) && !cfg.Before.contains("str-trim") {
		before = append(before, Step("str-trim", true))
	}
	if cfg.Modify != nil {
		before = append(before, Step("custom", cfg.Modify))
	}
	before = append(before, cfg.Before...)

	validations := make(Steps, 0, len(cfg.Validations)+2)
	if cfg.Required && !cfg.Validations.contains("required") {
		validations = append(validations, Step("required", true))
	}
	for _, name := range defValidations {
		if !cfg.Validations.contains(name) {
			validations = append(validations, Step(name, true))
		}
	}
	validations = append(validations, cfg.Validations...)

	after := make(Steps, 0, len(cfg.After)+1)
	for _, name := range defAfter {
		if !cfg.After.contains(name) {
			after = append(after, Step(name, true))
		}
	}
	after = append(after, cfg.After...)

	def := &FieldDefinition{
		Name:     cfg.Name,
		Type:     dataType,
		Default:  cfg.Default,
		typecast: !cfg.DisableTypecasting,
	}

	if def.before, err = resolveTransforms(registry, cfg.Name, before); err != nil {
		return nil, err
	}
	if def.after, err = resolveTransforms(registry, cfg.Name, after); err != nil {
		return nil, err
	}
	if def.validations, err = resolveValidations(registry, cfg.Name, validations); err != nil {
		return nil, err
	}

	// Keep the flag and the validation step consistent no matter which of
	// the two the caller configured.
	def.Required = false
	for _, step := range def.validations {
		if step.name == "required" && step.run {
			def.Required = true
		}
	}

	return def, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func resolveTransforms(registry *Registry, fieldName string, steps Steps) ([]resolvedStep, error) {
	resolved := make([]resolvedStep, 0, len(steps))
	for _, step := range steps {
		t, ok := registry.transform(step.Name)
		if !ok {
			return nil, fmt.Errorf("field %q: %w: %q", fieldName, ErrUnknownTransform, step.Name)
		}
		opts, run := normalizeOptions(step.Options, t.PrimaryOption, t.Defaults)
		if step.Name == "custom" && run {
			if err := requireFunction(opts, fieldName, "transform"); err != nil {
				return nil, err
			}
		}
		resolved = append(resolved, resolvedStep{name: step.Name, options: opts, run: run})
	}
	return resolved, nil
}

func resolveValidations(registry *Registry, fieldName string, steps Steps) ([]resolvedStep, error) {
	resolved := make([]resolvedStep, 0, len(steps))
	for _, step := range steps {
		v, ok := registry.validation(step.Name)
		if !ok {
			return nil, fmt.Errorf("field %q: %w: %q", fieldName, ErrUnknownValidation, step.Name)
		}
		opts, run := normalizeOptions(step.Options, v.PrimaryOption, v.Defaults)
		if step.Name == "custom" && run {
			if err := requireFunction(opts, fieldName, "validation"); err != nil {
				return nil, err
			}
		}
		resolved = append(resolved, resolvedStep{name: step.Name, options: opts, run: run})
	}
	return resolved, nil
}

// requireFunction checks a custom step carries a usable function so the
// failure surfaces at definition time, not mid-pipeline.
func requireFunction(opts Options, fieldName, kind string) error {
	switch opts["fn"].(type) {
	case CustomTransformFunc, func(context.Context, any, DataType) (any, error):
		return nil
	case CustomValidationFunc, func(context.Context, any, DataType, bool) (bool, string, error):
		return nil
	default:
		return fmt.Errorf("field %q: %w: custom %s", fieldName, ErrMissingFunction, kind)
	}
}

// newFieldState computes the field's starting value from the raw input bag.
// Hash fields are the one multi-key case: their value is assembled from all
// raw keys of the form name[subKey].
func newFieldState(def *FieldDefinition, raw Values) *FieldState {
	state := &FieldState{def: def}

	if def.Type == TypeHash {
		state.Raw = assembleHash(raw, def.Name)
		state.Value = coerceValue(def.Type, state.Raw)
		return state
	}

	rawValue, present := raw[def.Name]
	if !present {
		if def.Default != nil {
			rawValue = def.Default
		} else {
			rawValue = defaultValueFor(def.Type)
		}
	}
	state.Raw = rawValue

	if def.typecast {
		state.Value = coerceValue(def.Type, rawValue)
	} else {
		state.Value = rawValue
	}
	return state
}

// assembleHash collects name[subKey] entries from the raw bag into a boolean
// selection map. A direct map under the plain name is accepted too, which is
// what the JSON body of an API client produces.
func assembleHash(raw Values, name string) map[string]bool {
	out := make(map[string]bool)

	switch direct := raw[name].(type) {
	case map[string]bool:
		for k, v := range direct {
			out[k] = v
		}
	case map[string]any:
		for k, v := range direct {
			parsed, _ := parseBoolToken(v).(bool)
			out[k] = parsed
		}
	}

	prefix := name + "["
	for key, value := range raw {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		subKey := key[len(prefix) : len(key)-1]
		if subKey == "" {
			continue
		}
		parsed, _ := parseBoolToken(value).(bool)
		out[subKey] = parsed
	}
	return out
}
