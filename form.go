package foval

import (
	"context"
	"fmt"

	"github.com/saikojosh/Foval/pkg/strength"
)

// Values is the flat raw input bag a form validates: field name to submitted
// value. Values are typically strings, string slices for multi-value names,
// or FileMeta for uploaded files; hash fields span several keys of the form
// name[subKey].
type Values map[string]any

// FileMeta describes an uploaded file as delivered by the client collector.
type FileMeta struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Mime     string `json:"mime"`
	Data     []byte `json:"data,omitempty"`
}

// ClientVersionKey is the raw-bag key the client collector uses to report its
// version. A mismatch against the expected version is fatal; it means the
// browser is running a stale collector whose output shape cannot be trusted.
const ClientVersionKey = "foval-version"

// FormCheckFunc is the optional whole-form check invoked after every field
// pipeline has completed. It receives the final field value map and returns
// additional per-field entries to merge into the results. Entries can flip a
// field to invalid but never back to valid.
type FormCheckFunc func(ctx context.Context, form *Form, values map[string]any) (map[string]CheckResult, error)

// Form owns a set of field definitions and validates one raw input bag.
// A Form is not safe for concurrent use; concurrent requests each build
// their own Form. The registries behind it are read-only and shared.
type Form struct {
	raw           Values
	registry      *Registry
	scorer        PasswordScorer
	stopOnInvalid bool
	clientVersion string
	formCheck     FormCheckFunc

	states map[string]*FieldState
	order  []string
}

// Option configures a Form.
type Option func(*Form)

// WithStopOnInvalid controls whether a field stops running its remaining
// validations after the first failure. Defaults to true.
func WithStopOnInvalid(stop bool) Option {
	return func(f *Form) { f.stopOnInvalid = stop }
}

// WithRegistry replaces the default step registry, typically a NewRegistry
// copy extended with custom steps.
func WithRegistry(r *Registry) Option {
	return func(f *Form) {
		if r != nil {
			f.registry = r
		}
	}
}

// WithClientVersion sets the collector version the form expects. When set,
// Validate fails with ErrStaleClient if the submitted bag reports a
// different version.
func WithClientVersion(version string) Option {
	return func(f *Form) { f.clientVersion = version }
}

// WithFormCheck registers the whole-form check.
func WithFormCheck(check FormCheckFunc) Option {
	return func(f *Form) { f.formCheck = check }
}

// WithPasswordScorer substitutes the password-strength collaborator used by
// the password validation.
func WithPasswordScorer(scorer PasswordScorer) Option {
	return func(f *Form) {
		if scorer != nil {
			f.scorer = scorer
		}
	}
}

// New creates a form over a raw input bag.
func New(values Values, opts ...Option) *Form {
	if values == nil {
		values = Values{}
	}
	f := &Form{
		raw:           values,
		registry:      defaultRegistry,
		scorer:        strength.New(),
		stopOnInvalid: true,
		states:        make(map[string]*FieldState),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddField defines a field on the form. Configuration problems (duplicate
// name, unknown type, unknown step, custom step without a function) are
// returned immediately and leave the form unchanged.
func (f *Form) AddField(cfg FieldConfig) error {
	if _, exists := f.states[cfg.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateField, cfg.Name)
	}

	def, err := newFieldDefinition(f.registry, cfg)
	if err != nil {
		return err
	}

	f.states[def.Name] = newFieldState(def, f.raw)
	f.order = append(f.order, def.Name)
	return nil
}

// Field returns the state of a defined field.
func (f *Form) Field(name string) (*FieldState, bool) {
	st, ok := f.states[name]
	return st, ok
}

// FieldNames returns the defined field names in definition order.
func (f *Form) FieldNames() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Values returns the current value of every defined field.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.order))
	for _, name := range f.order {
		out[name] = f.states[name].Value
	}
	return out
}

// ResetValues rebuilds every field's state from the original raw bag,
// discarding transform output, validity, and extra data from previous runs.
func (f *Form) ResetValues() {
	for _, name := range f.order {
		f.states[name] = newFieldState(f.states[name].def, f.raw)
	}
}

// Validate runs every field's pipeline in definition order, aggregates the
// per-field results, then invokes the whole-form check if one is registered.
// The error return carries only fatal configuration or step errors; ordinary
// validation failures live in the result.
//
// Re-invoking Validate re-runs the full pipeline from the fields' current
// values, so transforms apply on top of the previous run's output.
func (f *Form) Validate(ctx context.Context) (*FormResult, error) {
	if f.clientVersion != "" {
		if submitted := toString(f.raw[ClientVersionKey]); submitted != f.clientVersion {
			return nil, fmt.Errorf("%w: expected %q, got %q", ErrStaleClient, f.clientVersion, submitted)
		}
	}

	result := &FormResult{
		Valid:  true,
		Fields: make(map[string]*FieldResult, len(f.order)),
	}

	for _, name := range f.order {
		fieldResult, err := runFieldPipeline(ctx, f, f.states[name])
		if err != nil {
			return nil, err
		}
		result.Fields[name] = fieldResult
		result.Valid = result.Valid && fieldResult.Valid
	}

	result.Values = f.Values()

	// The whole-form check runs even when fields short-circuited; its own
	// errors propagate as fatal.
	if f.formCheck != nil {
		checks, err := f.formCheck(ctx, f, result.Values)
		if err != nil {
			return nil, fmt.Errorf("form check: %w", err)
		}
		for name, check := range checks {
			fieldResult, ok := result.Fields[name]
			if !ok {
				fieldResult = newFieldResult()
				result.Fields[name] = fieldResult
			}
			// Merging can only flip a field to invalid, never rescue one the
			// pipeline already failed.
			fieldResult.addStep("form-check", StepResult{Passed: check.Passed, Reason: check.Reason})
			if !check.Passed {
				if st, defined := f.states[name]; defined {
					st.validity = ValidityFailed
				}
				result.Valid = false
			}
		}
	}

	return result, nil
}
