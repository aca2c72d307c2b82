package foval

// StepResult is the outcome of one executed validation step. Reasons are
// short machine-readable tokens ("too-small", "invalid", ...) intended for
// client-side message lookup, never prose.
type StepResult struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// CheckResult is one entry supplied by the whole-form check.
type CheckResult struct {
	Passed bool
	Reason string
}

// FieldResult aggregates the executed steps for one field. Under
// stopOnInvalid only the steps that actually ran appear here.
type FieldResult struct {
	Valid bool                  `json:"isValid"`
	Steps map[string]StepResult `json:"steps,omitempty"`

	order []string
}

func newFieldResult() *FieldResult {
	return &FieldResult{Valid: true, Steps: make(map[string]StepResult)}
}

func (r *FieldResult) addStep(name string, res StepResult) {
	if _, seen := r.Steps[name]; !seen {
		r.order = append(r.order, name)
	}
	r.Steps[name] = res
	if !res.Passed {
		r.Valid = false
	}
}

// StepNames returns the executed step names in execution order.
func (r *FieldResult) StepNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// FormResult is the outcome of one Validate call. It is never mutated after
// being returned.
type FormResult struct {
	Valid  bool                    `json:"isFormValid"`
	Fields map[string]*FieldResult `json:"fields"`
	Values map[string]any          `json:"values"`
}
