package foval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikojosh/Foval"
)

func TestRequiredValidation(t *testing.T) {
	t.Run("string requires a non-empty value", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"name": ""}, foval.FieldConfig{Name: "name", Type: "str", Required: true})
		assert.False(t, result.Valid)
		assert.Equal(t, "required", result.Fields["name"].Steps["required"].Reason)
	})

	t.Run("numeric requires a parseable number", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"age": "abc"}, foval.FieldConfig{Name: "age", Type: "int", Required: true})
		assert.False(t, result.Valid)

		result, _ = validateOne(t, foval.Values{"age": "0"}, foval.FieldConfig{Name: "age", Type: "int", Required: true})
		assert.True(t, result.Valid, "zero is a valid answer for numeric required")
	})

	t.Run("checkbox requires exactly true", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"agree": "off"}, foval.FieldConfig{Name: "agree", Type: "checkbox", Required: true})
		assert.False(t, result.Valid)

		result, _ = validateOne(t, foval.Values{}, foval.FieldConfig{Name: "agree", Type: "checkbox", Required: true})
		assert.False(t, result.Valid, "unanswered checkbox is not true")

		result, _ = validateOne(t, foval.Values{"agree": "on"}, foval.FieldConfig{Name: "agree", Type: "checkbox", Required: true})
		assert.True(t, result.Valid)
	})

	t.Run("hash requires at least one selection", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"opts[a]": "false"}, foval.FieldConfig{Name: "opts", Type: "hash", Required: true})
		assert.False(t, result.Valid)

		result, _ = validateOne(t, foval.Values{"opts[a]": "true"}, foval.FieldConfig{Name: "opts", Type: "hash", Required: true})
		assert.True(t, result.Valid)
	})

	t.Run("required shorthand and explicit step stay consistent", func(t *testing.T) {
		form := foval.New(foval.Values{"name": "x"})
		require.NoError(t, form.AddField(foval.FieldConfig{
			Name:        "name",
			Type:        "str",
			Validations: foval.Steps{foval.Step("required", true)},
		}))
		state, _ := form.Field("name")
		assert.True(t, state.Definition().Required, "explicit required step sets the flag")
	})
}

func TestEmptyOptionalSkip(t *testing.T) {
	t.Run("every validation except required passes on empty optional fields", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"nick": ""}, foval.FieldConfig{
			Name: "nick",
			Type: "str",
			Validations: foval.Steps{
				foval.Step("str-length", map[string]any{"min": 3}),
				foval.Step("regexp", "^[a-z]+$"),
				foval.Step("in-list", []string{"josh", "sam"}),
			},
		})
		assert.True(t, result.Valid)
		for name, step := range result.Fields["nick"].Steps {
			assert.True(t, step.Passed, "step %q should pass without inspecting the value", name)
		}
	})
}

func TestStrLengthValidation(t *testing.T) {
	t.Run("too short and too long reasons", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"v": "ab"}, foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("str-length", map[string]any{"min": 3, "max": 5})},
		})
		assert.Equal(t, "too-short", result.Fields["v"].Steps["str-length"].Reason)

		result, _ = validateOne(t, foval.Values{"v": "abcdef"}, foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("str-length", map[string]any{"min": 3, "max": 5})},
		})
		assert.Equal(t, "too-long", result.Fields["v"].Steps["str-length"].Reason)
	})

	t.Run("min shorthand", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"v": "abcd"}, foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("str-length", 3)},
		})
		assert.True(t, result.Valid)
	})
}

func TestNumericValidation(t *testing.T) {
	numericField := func(value string, opts map[string]any) foval.FieldConfig {
		return foval.FieldConfig{
			Name:        "n",
			Type:        "int",
			Required:    true,
			Validations: foval.Steps{foval.Step("numeric", opts)},
		}
	}

	t.Run("zero-not-allowed wins over range checks", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"n": "0"}, numericField("0", map[string]any{
			"min": 1, "max": 50, "allowZero": false,
		}))
		assert.Equal(t, "zero-not-allowed", result.Fields["n"].Steps["numeric"].Reason)
	})

	t.Run("range reasons", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"n": "15"}, numericField("15", map[string]any{"min": 18, "max": 120}))
		assert.Equal(t, "too-small", result.Fields["n"].Steps["numeric"].Reason)

		result, _ = validateOne(t, foval.Values{"n": "150"}, numericField("150", map[string]any{"min": 18, "max": 120}))
		assert.Equal(t, "too-big", result.Fields["n"].Steps["numeric"].Reason)
	})
}

func TestRegexpValidation(t *testing.T) {
	t.Run("no-match reason", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"v": "123"}, foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("regexp", "^[a-z]+$")},
		})
		assert.Equal(t, "no-match", result.Fields["v"].Steps["regexp"].Reason)
	})

	t.Run("malformed pattern is fatal", func(t *testing.T) {
		form := foval.New(foval.Values{"v": "abc"})
		require.NoError(t, form.AddField(foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("regexp", "(")},
		}))
		_, err := form.Validate(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, foval.ErrInvalidPattern)
	})
}

func TestInListValidation(t *testing.T) {
	t.Run("membership is loose", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"n": "2"}, foval.FieldConfig{
			Name:        "n",
			Type:        "int",
			Validations: foval.Steps{foval.Step("in-list", []any{1, 2, 3})},
		})
		assert.True(t, result.Valid)
	})

	t.Run("not-in-list reason", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"v": "purple"}, foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("in-list", []string{"red", "green"})},
		})
		assert.Equal(t, "not-in-list", result.Fields["v"].Steps["in-list"].Reason)
	})

	t.Run("missing list is fatal", func(t *testing.T) {
		form := foval.New(foval.Values{"v": "x"})
		require.NoError(t, form.AddField(foval.FieldConfig{
			Name:        "v",
			Type:        "str",
			Validations: foval.Steps{foval.Step("in-list", map[string]any{})},
		}))
		_, err := form.Validate(context.Background())
		assert.ErrorIs(t, err, foval.ErrInvalidList)
	})
}

func TestEmailValidation(t *testing.T) {
	t.Run("well-formed address passes", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"email": "josh@example.com"}, foval.FieldConfig{Name: "email", Type: "email"})
		assert.True(t, result.Valid)
	})

	t.Run("malformed address fails with reason invalid", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"email": "not-an-email"}, foval.FieldConfig{Name: "email", Type: "email"})
		assert.False(t, result.Valid)
		assert.Equal(t, "invalid", result.Fields["email"].Steps["email"].Reason)
	})

	t.Run("dotless domain fails", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"email": "josh@localhost"}, foval.FieldConfig{Name: "email", Type: "email"})
		assert.False(t, result.Valid)
	})
}

func TestURLValidation(t *testing.T) {
	t.Run("no-protocol reason when a protocol is demanded", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"site": "example.com"}, foval.FieldConfig{
			Name:        "site",
			Type:        "url",
			Validations: foval.Steps{foval.Step("url", map[string]any{"requireProtocol": true})},
		})
		assert.Equal(t, "no-protocol", result.Fields["site"].Steps["url"].Reason)
	})

	t.Run("host without a dot is invalid", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"site": "nothing"}, foval.FieldConfig{Name: "site", Type: "url"})
		assert.Equal(t, "invalid", result.Fields["site"].Steps["url"].Reason)
	})
}

func TestTelephoneValidation(t *testing.T) {
	t.Run("international spelling drops country code from the digit count", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"phone": "+44.7912345678"}, foval.FieldConfig{
			Name:        "phone",
			Type:        "tel",
			Validations: foval.Steps{foval.Step("telephone", map[string]any{"minDigits": 10, "maxDigits": 10})},
		})
		assert.True(t, result.Valid)
	})

	t.Run("national spelling drops the trunk zero from the digit count", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"phone": "07912 345 678"}, foval.FieldConfig{
			Name:        "phone",
			Type:        "tel",
			Validations: foval.Steps{foval.Step("telephone", map[string]any{"minDigits": 10, "maxDigits": 10})},
		})
		assert.True(t, result.Valid)
	})

	t.Run("digit count reasons", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"phone": "12345"}, foval.FieldConfig{Name: "phone", Type: "tel"})
		assert.Equal(t, "too-few-digits", result.Fields["phone"].Steps["telephone"].Reason)
	})
}

func TestHashValidation(t *testing.T) {
	hashField := func(opts map[string]any) foval.FieldConfig {
		return foval.FieldConfig{
			Name:        "opts",
			Type:        "hash",
			Validations: foval.Steps{foval.Step("hash", opts)},
		}
	}

	t.Run("selection bounds", func(t *testing.T) {
		raw := foval.Values{"opts[a]": "true", "opts[b]": "true", "opts[c]": "false"}

		result, _ := validateOne(t, raw, hashField(map[string]any{"minSelections": 3}))
		assert.Equal(t, "too-few-selections", result.Fields["opts"].Steps["hash"].Reason)

		result, _ = validateOne(t, raw, hashField(map[string]any{"maxSelections": 1}))
		assert.Equal(t, "too-many-selections", result.Fields["opts"].Steps["hash"].Reason)

		result, _ = validateOne(t, raw, hashField(map[string]any{"minSelections": 1, "maxSelections": 2}))
		assert.True(t, result.Valid)
	})

	t.Run("unknown keys fail", func(t *testing.T) {
		raw := foval.Values{"opts[a]": "true", "opts[zz]": "true"}
		result, _ := validateOne(t, raw, hashField(map[string]any{"validKeys": []string{"a", "b"}}))
		assert.Equal(t, "invalid-key", result.Fields["opts"].Steps["hash"].Reason)
	})
}

func TestMatchFieldValidation(t *testing.T) {
	confirmForm := func(t *testing.T, raw foval.Values, strict bool, confirmType string) *foval.FormResult {
		t.Helper()
		form := foval.New(raw)
		require.NoError(t, form.AddField(foval.FieldConfig{Name: "password", Type: "str"}))
		require.NoError(t, form.AddField(foval.FieldConfig{
			Name: "confirm",
			Type: confirmType,
			Validations: foval.Steps{
				foval.Step("match-field", map[string]any{"matchField": "password", "strict": strict}),
			},
		}))
		result, err := form.Validate(context.Background())
		require.NoError(t, err)
		return result
	}

	t.Run("same type and value passes strict", func(t *testing.T) {
		result := confirmForm(t, foval.Values{"password": "abc", "confirm": "abc"}, true, "str")
		assert.True(t, result.Valid)
	})

	t.Run("differing values fail with no-match", func(t *testing.T) {
		result := confirmForm(t, foval.Values{"password": "abc", "confirm": "abd"}, false, "str")
		assert.Equal(t, "no-match", result.Fields["confirm"].Steps["match-field"].Reason)
	})

	t.Run("equal value across types passes loose but fails strict", func(t *testing.T) {
		raw := foval.Values{"password": "10", "confirm": "10"}

		result := confirmForm(t, raw, false, "int")
		assert.True(t, result.Valid)

		result = confirmForm(t, raw, true, "int")
		assert.Equal(t, "loose-match", result.Fields["confirm"].Steps["match-field"].Reason)
	})

	t.Run("unknown target is fatal", func(t *testing.T) {
		form := foval.New(foval.Values{"confirm": "abc"})
		require.NoError(t, form.AddField(foval.FieldConfig{
			Name:        "confirm",
			Type:        "str",
			Validations: foval.Steps{foval.Step("match-field", "nonexistent")},
		}))
		_, err := form.Validate(context.Background())
		assert.ErrorIs(t, err, foval.ErrInvalidMatchField)
	})
}

func TestPasswordValidation(t *testing.T) {
	passwordField := func(opts map[string]any) foval.FieldConfig {
		return foval.FieldConfig{
			Name:        "password",
			Type:        "password",
			Validations: foval.Steps{foval.Step("password", opts)},
		}
	}

	t.Run("missing requirement reason", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"password": "alllowercase1"}, passwordField(map[string]any{
			"requirements": []string{"uppercase", "lowercase", "digit"},
		}))
		assert.Equal(t, "missing-requirement", result.Fields["password"].Steps["password"].Reason)
	})

	t.Run("weak password fails the score threshold", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"password": "password"}, passwordField(map[string]any{"minScore": 3}))
		assert.Equal(t, "too-weak", result.Fields["password"].Steps["password"].Reason)
	})

	t.Run("strong password passes", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"password": "Tr1cky-Passphrase!"}, passwordField(map[string]any{
			"requirements": []string{"uppercase", "lowercase", "digit", "special", "not-common"},
			"minScore":     3,
		}))
		assert.True(t, result.Valid)
	})

	t.Run("substituted scorer is consulted", func(t *testing.T) {
		result, _ := validateOne(t, foval.Values{"password": "whatever"},
			passwordField(map[string]any{"minScore": 1}),
			foval.WithPasswordScorer(scorerFunc(func(string) int { return 0 })),
		)
		assert.Equal(t, "too-weak", result.Fields["password"].Steps["password"].Reason)
	})
}

type scorerFunc func(string) int

func (f scorerFunc) Score(password string) int { return f(password) }

func TestCustomValidation(t *testing.T) {
	t.Run("caller predicate decides the outcome", func(t *testing.T) {
		even := func(_ context.Context, value any, _ foval.DataType, _ bool) (bool, string, error) {
			if int(value.(float64))%2 != 0 {
				return false, "odd", nil
			}
			return true, "", nil
		}

		result, _ := validateOne(t, foval.Values{"n": "3"}, foval.FieldConfig{
			Name:        "n",
			Type:        "int",
			Validations: foval.Steps{foval.Step("custom", even)},
		})
		assert.Equal(t, "odd", result.Fields["n"].Steps["custom"].Reason)
	})
}
