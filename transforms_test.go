package foval_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikojosh/Foval"
)

// transformed runs a single string field through the given before-transforms
// and returns the resulting value.
func transformed(t *testing.T, input string, before foval.Steps) any {
	t.Helper()
	_, state := validateOne(t, foval.Values{"v": input}, foval.FieldConfig{
		Name:   "v",
		Type:   "str",
		Before: before,
	})
	return state.Value
}

func TestStringTransforms(t *testing.T) {
	t.Run("str-trim removes surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "hello", transformed(t, "  hello\t\n", foval.Steps{foval.Step("str-trim", true)}))
	})

	t.Run("str-trim is idempotent", func(t *testing.T) {
		once := transformed(t, "  hello ", foval.Steps{foval.Step("str-trim", true)})
		twice := transformed(t, "  hello ", foval.Steps{foval.Step("str-trim", true), foval.Step("str-trim", true)})
		assert.Equal(t, once, twice)
	})

	t.Run("str-case lowers by default", func(t *testing.T) {
		assert.Equal(t, "shout", transformed(t, "SHOUT", foval.Steps{foval.Step("str-case", true)}))
	})

	t.Run("str-case accepts a mode shorthand", func(t *testing.T) {
		assert.Equal(t, "SHOUT", transformed(t, "shout", foval.Steps{foval.Step("str-case", "upper")}))
		assert.Equal(t, "Hello World", transformed(t, "hELLO wORLD", foval.Steps{foval.Step("str-case", "capitalise")}))
	})

	t.Run("str-collapse-whitespace folds runs into single spaces", func(t *testing.T) {
		assert.Equal(t, "a b c", transformed(t, "a\t\tb \n c", foval.Steps{foval.Step("str-collapse-whitespace", true)}))
	})

	t.Run("br and line-break conversions are inverse", func(t *testing.T) {
		assert.Equal(t, "a\nb\nc", transformed(t, "a<br>b<BR />c", foval.Steps{foval.Step("str-br-to-line-break", true)}))
		assert.Equal(t, "a<br>b<br>c", transformed(t, "a\nb\r\nc", foval.Steps{foval.Step("str-line-break-to-br", true)}))
	})

	t.Run("str-replace escapes string finds", func(t *testing.T) {
		got := transformed(t, "1+1=2", foval.Steps{
			foval.Step("str-replace", map[string]any{"find": "1+1", "replace": "two"}),
		})
		assert.Equal(t, "two=2", got)
	})

	t.Run("str-replace honours the i flag", func(t *testing.T) {
		got := transformed(t, "Foo foo FOO", foval.Steps{
			foval.Step("str-replace", map[string]any{"find": "foo", "flags": "gi", "replace": "bar"}),
		})
		assert.Equal(t, "bar bar bar", got)
	})
}

func TestMD5Transform(t *testing.T) {
	t.Run("hashes the string form of the value", func(t *testing.T) {
		got := transformed(t, "hello", foval.Steps{foval.Step("md5", true)})
		assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", got)
	})

	t.Run("seed changes the digest", func(t *testing.T) {
		plain := transformed(t, "hello", foval.Steps{foval.Step("md5", true)})
		seeded := transformed(t, "hello", foval.Steps{foval.Step("md5", map[string]any{"seed": "s3cr3t"})})
		assert.NotEqual(t, plain, seeded)
	})

	t.Run("base64 encoding produces a shorter digest", func(t *testing.T) {
		got, ok := transformed(t, "hello", foval.Steps{foval.Step("md5", map[string]any{"encoding": "base64"})}).(string)
		require.True(t, ok)
		assert.Len(t, got, 24)
	})

	t.Run("random salt makes repeated runs differ", func(t *testing.T) {
		first := transformed(t, "hello", foval.Steps{foval.Step("md5", map[string]any{"random": true})})
		second := transformed(t, "hello", foval.Steps{foval.Step("md5", map[string]any{"random": true})})
		assert.NotEqual(t, first, second)
	})
}

func TestURLTransform(t *testing.T) {
	t.Run("prefixes the default protocol", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"site": "example.com"}, foval.FieldConfig{Name: "site", Type: "url"})
		assert.Equal(t, "http://example.com", state.Value)
	})

	t.Run("keeps an existing protocol", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"site": "https://example.com"}, foval.FieldConfig{Name: "site", Type: "url"})
		assert.Equal(t, "https://example.com", state.Value)
	})

	t.Run("protocol option overrides the prefix", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"site": "example.com"}, foval.FieldConfig{
			Name:  "site",
			Type:  "url",
			After: foval.Steps{foval.Step("url", "https")},
		})
		assert.Equal(t, "https://example.com", state.Value)
	})
}

func TestTelephoneTransform(t *testing.T) {
	t.Run("basic international format", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"phone": "+44.7912345678"}, foval.FieldConfig{
			Name:  "phone",
			Type:  "tel",
			After: foval.Steps{foval.Step("telephone", map[string]any{"format": "basic", "international": true})},
		})
		assert.Equal(t, "+447912345678", state.Value)
	})

	t.Run("basic national format restores the trunk zero", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"phone": "+44.7912345678"}, foval.FieldConfig{
			Name:  "phone",
			Type:  "tel",
			After: foval.Steps{foval.Step("telephone", map[string]any{"format": "basic", "international": false})},
		})
		assert.Equal(t, "07912345678", state.Value)
	})
}

func TestCustomTransform(t *testing.T) {
	t.Run("modify shorthand runs before caller transforms", func(t *testing.T) {
		_, state := validateOne(t, foval.Values{"v": "abc"}, foval.FieldConfig{
			Name: "v",
			Type: "str",
			Modify: func(_ context.Context, value any, _ foval.DataType) (any, error) {
				return strings.ToUpper(value.(string)) + "!", nil
			},
		})
		assert.Equal(t, "ABC!", state.Value)
	})

	t.Run("custom step without a function fails at definition time", func(t *testing.T) {
		form := foval.New(foval.Values{"v": "abc"})
		err := form.AddField(foval.FieldConfig{
			Name:   "v",
			Type:   "str",
			Before: foval.Steps{foval.Step("custom", map[string]any{"fn": "not a function"})},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, foval.ErrMissingFunction)
	})

	t.Run("run false skips a configured step", func(t *testing.T) {
		got := transformed(t, "  padded  ", foval.Steps{
			foval.Step("str-trim", map[string]any{"run": false}),
		})
		assert.Equal(t, "  padded  ", got)
	})
}
