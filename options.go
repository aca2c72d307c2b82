package foval

import (
	"maps"
	"math"
)

// Options is the canonical, fully-resolved option set for one configured
// step. Shorthand forms accepted by the configuration surface (true, a bare
// scalar, or a partial map) are normalized into this shape exactly once, at
// field-definition time.
type Options map[string]any

// normalizeOptions resolves a raw option value against a step's defaults.
// The second return value reports whether the step should run at all:
// a falsy raw value or a merged `run: false` entry disables the step without
// removing it from the field's configuration.
func normalizeOptions(raw any, primaryKey string, defaults Options) (Options, bool) {
	opts := make(Options, len(defaults)+1)
	maps.Copy(opts, defaults)

	switch v := raw.(type) {
	case nil:
		return opts, false
	case bool:
		return opts, v
	case Options:
		maps.Copy(opts, v)
	case map[string]any:
		maps.Copy(opts, v)
	default:
		if primaryKey != "" {
			opts[primaryKey] = v
		}
	}

	if run, ok := opts["run"].(bool); ok && !run {
		return opts, false
	}
	return opts, true
}

// Bool reads a boolean option, falling back when unset or mistyped.
func (o Options) Bool(key string, fallback bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return fallback
}

// String reads a string option, falling back when unset. Non-string scalars
// are rendered with the same cast used for field values.
func (o Options) String(key, fallback string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return toString(v)
}

// Float reads a numeric option. NaN means "not configured".
func (o Options) Float(key string) float64 {
	v, ok := o[key]
	if !ok || v == nil {
		return math.NaN()
	}
	return toFloat(v)
}

// Int reads an integer option with a fallback.
func (o Options) Int(key string, fallback int) int {
	n := o.Float(key)
	if math.IsNaN(n) {
		return fallback
	}
	return int(n)
}

// Strings reads a string-slice option, accepting either []string or []any.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	default:
		return nil
	}
}

// List reads a generic slice option, accepting []any or []string.
func (o Options) List(key string) []any {
	switch v := o[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out
	default:
		return nil
	}
}
