package foval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saikojosh/Foval"
)

// validateOne builds a single-field form, validates it and returns the run
// result together with the field's final state.
func validateOne(t *testing.T, raw foval.Values, cfg foval.FieldConfig, opts ...foval.Option) (*foval.FormResult, *foval.FieldState) {
	t.Helper()

	form := foval.New(raw, opts...)
	require.NoError(t, form.AddField(cfg))

	result, err := form.Validate(context.Background())
	require.NoError(t, err)

	state, ok := form.Field(cfg.Name)
	require.True(t, ok)
	return result, state
}

// coerced returns the starting value a field receives for a raw input,
// before any pipeline steps run.
func coerced(t *testing.T, dataType string, raw foval.Values, name string) any {
	t.Helper()

	form := foval.New(raw)
	require.NoError(t, form.AddField(foval.FieldConfig{Name: name, Type: dataType}))

	state, ok := form.Field(name)
	require.True(t, ok)
	return state.Value
}
