package foval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Formatting shared between the telephone/url after-transforms and the
// standalone Format helper. Formatting is synchronous and never touches form
// state, so it is safe to call outside a validation run.

var (
	nonDigitRegex = regexp.MustCompile(`[^0-9]`)
	schemeRegex   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	phoneToken    = regexp.MustCompile(`\{(CC|ZERO|REM|\d+)\}`)
)

// Format applies a named formatter to a value and returns the formatted
// string. Currently exposes the telephone and url formatting used by the
// after-transforms of the same names. Options follow the same shorthand
// rules as step options.
func Format(value any, formatter string, rawOpts any) (string, error) {
	switch formatter {
	case "telephone":
		opts, _ := normalizeOptions(rawOpts, "format", telephoneDefaults)
		return formatTelephone(toString(value), opts)
	case "url":
		opts, _ := normalizeOptions(rawOpts, "protocol", urlDefaults)
		return formatURL(toString(value), opts), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormatter, formatter)
	}
}

var telephoneDefaults = Options{
	"format":        "basic",
	"international": false,
	"countryCode":   "44",
}

var urlDefaults = Options{
	"protocol": "http",
}

// phoneNumber is a parsed telephone value: the country code (detected from
// the input or taken from options) and the queue of national significant
// digits, with any trunk leading zero already dropped.
type phoneNumber struct {
	countryCode string
	digits      string
}

func parsePhone(input, countryCode string) phoneNumber {
	trimmed := strings.TrimSpace(input)
	digits := nonDigitRegex.ReplaceAllString(trimmed, "")

	international := strings.HasPrefix(trimmed, "+")
	if !international && strings.HasPrefix(digits, "00") {
		international = true
		digits = digits[2:]
	}

	if international {
		if countryCode != "" && strings.HasPrefix(digits, countryCode) {
			digits = digits[len(countryCode):]
		}
	} else {
		digits = strings.TrimPrefix(digits, "0")
	}

	return phoneNumber{countryCode: countryCode, digits: digits}
}

// formatTelephone re-formats a telephone value against a token pattern.
// Tokens are processed left to right and consume a shared digit queue:
// {CC} emits the country code, {ZERO} the trunk zero, {N} (a digit count,
// e.g. {4}) a fixed-width group from the queue, and {REM} whatever remains.
func formatTelephone(input string, opts Options) (string, error) {
	pattern := opts.String("pattern", "")
	if pattern == "" {
		name := opts.String("format", "basic")
		international := opts.Bool("international", false)
		var ok bool
		pattern, ok = namedPhoneFormat(name, international)
		if !ok {
			return "", fmt.Errorf("%w: telephone format %q", ErrUnknownFormatter, name)
		}
	}

	phone := parsePhone(input, opts.String("countryCode", "44"))
	queue := phone.digits

	out := phoneToken.ReplaceAllStringFunc(pattern, func(token string) string {
		switch name := token[1 : len(token)-1]; name {
		case "CC":
			return phone.countryCode
		case "ZERO":
			return "0"
		case "REM":
			rem := queue
			queue = ""
			return rem
		default:
			width, err := strconv.Atoi(name)
			if err != nil || width <= 0 {
				return ""
			}
			if width > len(queue) {
				width = len(queue)
			}
			group := queue[:width]
			queue = queue[width:]
			return group
		}
	})

	return out, nil
}

func namedPhoneFormat(name string, international bool) (string, bool) {
	switch name {
	case "basic":
		if international {
			return "+{CC}{REM}", true
		}
		return "{ZERO}{REM}", true
	case "spaced":
		if international {
			return "+{CC} {4} {REM}", true
		}
		return "{ZERO}{4} {REM}", true
	default:
		return "", false
	}
}

// formatURL prefixes the configured protocol when the value carries no
// scheme of its own. Empty values pass through untouched.
func formatURL(input string, opts Options) string {
	s := strings.TrimSpace(input)
	if s == "" || schemeRegex.MatchString(s) {
		return s
	}
	protocol := strings.TrimSuffix(opts.String("protocol", "http"), "://")
	return protocol + "://" + s
}
