package foval

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Core validations: presence, length, numeric range, pattern, membership and
// cross-field comparison.

func coreValidations() []Validation {
	return []Validation{
		{
			Name: "required",
			Check: func(_ context.Context, sc StepContext, _ Options) (bool, string, error) {
				if !isPopulated(sc.DataType(), sc.Value()) {
					return false, "required", nil
				}
				return true, "", nil
			},
		},
		{
			Name:          "str-length",
			AllowedTypes:  stringTypes,
			PrimaryOption: "min",
			SkipWhenEmpty: true,
			Check: func(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
				length := float64(len([]rune(toString(sc.Value()))))
				if min := opts.Float("min"); !math.IsNaN(min) && length < min {
					return false, "too-short", nil
				}
				if max := opts.Float("max"); !math.IsNaN(max) && length > max {
					return false, "too-long", nil
				}
				return true, "", nil
			},
		},
		{
			Name:          "numeric",
			AllowedTypes:  []DataType{TypeInt, TypeFloat, TypeString},
			PrimaryOption: "max",
			Defaults:      Options{"allowZero": true},
			SkipWhenEmpty: true,
			Check:         checkNumeric,
		},
		{
			Name:          "regexp",
			PrimaryOption: "test",
			SkipWhenEmpty: true,
			Check:         checkRegexp,
		},
		{
			Name:          "in-list",
			PrimaryOption: "list",
			SkipWhenEmpty: true,
			Check:         checkInList,
		},
		{
			Name:          "match-field",
			PrimaryOption: "matchField",
			Defaults:      Options{"strict": false},
			SkipWhenEmpty: true,
			Check:         checkMatchField,
		},
		{
			Name:          "custom",
			PrimaryOption: "fn",
			SkipWhenEmpty: true,
			Check: func(ctx context.Context, sc StepContext, opts Options) (bool, string, error) {
				switch fn := opts["fn"].(type) {
				case CustomValidationFunc:
					return fn(ctx, sc.Value(), sc.DataType(), sc.Required())
				case func(context.Context, any, DataType, bool) (bool, string, error):
					return fn(ctx, sc.Value(), sc.DataType(), sc.Required())
				default:
					return false, "", fmt.Errorf("%w: custom validation", ErrMissingFunction)
				}
			},
		},
	}
}

// checkNumeric validates a numeric value against an optional range. The zero
// check runs first and is independent of min/max.
func checkNumeric(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	n := toFloat(sc.Value())
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false, "invalid", nil
	}
	if n == 0 && !opts.Bool("allowZero", true) {
		return false, "zero-not-allowed", nil
	}
	if min := opts.Float("min"); !math.IsNaN(min) && n < min {
		return false, "too-small", nil
	}
	if max := opts.Float("max"); !math.IsNaN(max) && n > max {
		return false, "too-big", nil
	}
	return true, "", nil
}

func checkRegexp(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	var re *regexp.Regexp

	switch test := opts["test"].(type) {
	case *regexp.Regexp:
		re = test
	case string:
		pattern := test
		if flags := strings.Replace(opts.String("flags", ""), "g", "", -1); flags != "" {
			pattern = "(?" + flags + ")" + pattern
		}
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return false, "", fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	default:
		return false, "", fmt.Errorf("%w: regexp validation requires a test pattern", ErrInvalidPattern)
	}

	if !re.MatchString(toString(sc.Value())) {
		return false, "no-match", nil
	}
	return true, "", nil
}

func checkInList(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	list := opts.List("list")
	if len(list) == 0 {
		return false, "", ErrInvalidList
	}
	for _, item := range list {
		if looseEqual(sc.Value(), item) {
			return true, "", nil
		}
	}
	return false, "not-in-list", nil
}

// checkMatchField compares the field against a sibling's current value.
// Loose mode matches coerced string/numeric equality; strict mode also
// requires the two fields to share a data type. The sibling value is read
// in-flight: a later-defined target has not run its pipeline yet and an
// earlier one has not run its after-transforms. Define match targets first
// and keep their after-transforms cosmetic.
func checkMatchField(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	target := opts.String("matchField", "")
	if target == "" {
		return false, "", fmt.Errorf("%w: match-field requires a target field name", ErrInvalidMatchField)
	}

	other, otherType, ok := sc.Sibling(target)
	if !ok {
		return false, "", fmt.Errorf("%w: %q", ErrInvalidMatchField, target)
	}

	if !looseEqual(sc.Value(), other) {
		return false, "no-match", nil
	}
	if opts.Bool("strict", false) && sc.DataType() != otherType {
		return false, "loose-match", nil
	}
	return true, "", nil
}

// looseEqual mirrors coercing equality: numeric comparands compare as
// numbers, everything else by string form.
func looseEqual(a, b any) bool {
	na, nb := toFloat(a), toFloat(b)
	if !math.IsNaN(na) && !math.IsNaN(nb) {
		return na == nb
	}
	return toString(a) == toString(b)
}
