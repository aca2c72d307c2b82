package foval

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stringTypes are the data types whose working value is a plain string.
var stringTypes = []DataType{TypeString, TypeEmail, TypeTelephone, TypeURL, TypePassword}

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	brTagRegex      = regexp.MustCompile(`(?i)<br\s*/?>`)
	lineBreakRegex  = regexp.MustCompile(`\r\n|\r|\n`)
	capitaliser     = cases.Title(language.English)
)

func builtinTransforms() map[string]Transform {
	transforms := []Transform{
		{
			Name:         "str-trim",
			AllowedTypes: stringTypes,
			Apply: func(_ context.Context, sc StepContext, _ Options) (any, error) {
				return strings.TrimSpace(toString(sc.Value())), nil
			},
		},
		{
			Name:          "str-case",
			AllowedTypes:  stringTypes,
			PrimaryOption: "mode",
			Defaults:      Options{"mode": "lower"},
			Apply: func(_ context.Context, sc StepContext, opts Options) (any, error) {
				s := toString(sc.Value())
				switch mode := opts.String("mode", "lower"); mode {
				case "lower":
					return strings.ToLower(s), nil
				case "upper":
					return strings.ToUpper(s), nil
				case "capitalise", "capitalize":
					return capitaliser.String(strings.ToLower(s)), nil
				default:
					return nil, fmt.Errorf("%w: str-case mode %q", ErrUnknownFormatter, mode)
				}
			},
		},
		{
			Name:         "str-collapse-whitespace",
			AllowedTypes: stringTypes,
			Apply: func(_ context.Context, sc StepContext, _ Options) (any, error) {
				return whitespaceRegex.ReplaceAllString(toString(sc.Value()), " "), nil
			},
		},
		{
			Name:         "str-br-to-line-break",
			AllowedTypes: stringTypes,
			Apply: func(_ context.Context, sc StepContext, _ Options) (any, error) {
				return brTagRegex.ReplaceAllString(toString(sc.Value()), "\n"), nil
			},
		},
		{
			Name:         "str-line-break-to-br",
			AllowedTypes: stringTypes,
			Apply: func(_ context.Context, sc StepContext, _ Options) (any, error) {
				return lineBreakRegex.ReplaceAllString(toString(sc.Value()), "<br>"), nil
			},
		},
		{
			Name:          "str-replace",
			AllowedTypes:  stringTypes,
			PrimaryOption: "find",
			Defaults:      Options{"replace": "", "flags": ""},
			Apply:         applyStrReplace,
		},
		{
			Name:          "md5",
			AllowedTypes:  stringTypes,
			PrimaryOption: "seed",
			Defaults:      Options{"encoding": "hex", "seed": "", "random": false},
			Apply:         applyMD5,
		},
		{
			Name:          "telephone",
			AllowedTypes:  []DataType{TypeTelephone, TypeString},
			PrimaryOption: "format",
			Defaults:      telephoneDefaults,
			Apply: func(_ context.Context, sc StepContext, opts Options) (any, error) {
				return formatTelephone(toString(sc.Value()), opts)
			},
		},
		{
			Name:          "url",
			AllowedTypes:  []DataType{TypeURL, TypeString},
			PrimaryOption: "protocol",
			Defaults:      urlDefaults,
			Apply: func(_ context.Context, sc StepContext, opts Options) (any, error) {
				return formatURL(toString(sc.Value()), opts), nil
			},
		},
		{
			Name:          "custom",
			PrimaryOption: "fn",
			Apply: func(ctx context.Context, sc StepContext, opts Options) (any, error) {
				switch fn := opts["fn"].(type) {
				case CustomTransformFunc:
					return fn(ctx, sc.Value(), sc.DataType())
				case func(context.Context, any, DataType) (any, error):
					return fn(ctx, sc.Value(), sc.DataType())
				default:
					return nil, fmt.Errorf("%w: custom transform", ErrMissingFunction)
				}
			},
		},
	}

	out := make(map[string]Transform, len(transforms))
	for _, t := range transforms {
		out[t.Name] = t
	}
	return out
}

// applyStrReplace performs a global find/replace. A string find is matched
// literally (auto-escaped); a *regexp.Regexp is used as given. The "i", "m"
// and "s" flags carry over from the familiar regex flag notation; "g" is
// accepted and ignored since replacement is always global.
func applyStrReplace(_ context.Context, sc StepContext, opts Options) (any, error) {
	var re *regexp.Regexp

	switch find := opts["find"].(type) {
	case *regexp.Regexp:
		re = find
	case nil:
		return sc.Value(), nil
	default:
		pattern := regexp.QuoteMeta(toString(find))
		if flags := strings.Replace(opts.String("flags", ""), "g", "", -1); flags != "" {
			pattern = "(?" + flags + ")" + pattern
		}
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}

	return re.ReplaceAllString(toString(sc.Value()), opts.String("replace", "")), nil
}

// applyMD5 hashes the string form of the value, optionally salted with a
// fixed seed and/or a random salt, and encodes the digest as hex or base64.
func applyMD5(_ context.Context, sc StepContext, opts Options) (any, error) {
	input := toString(sc.Value())

	if seed := opts.String("seed", ""); seed != "" {
		input += seed
	}
	if opts.Bool("random", false) {
		salt := make([]byte, 8)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		input += hex.EncodeToString(salt)
	}

	sum := md5.Sum([]byte(input))
	switch encoding := opts.String("encoding", "hex"); encoding {
	case "hex":
		return hex.EncodeToString(sum[:]), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(sum[:]), nil
	default:
		return nil, fmt.Errorf("%w: md5 encoding %q", ErrUnknownFormatter, encoding)
	}
}
