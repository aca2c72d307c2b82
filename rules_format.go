package foval

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
)

// Format validations: email, url, telephone and hash-selection checks. The
// syntax predicates here classify a string as valid or invalid; callers that
// need a different dialect can register a replacement step of the same name.

func formatValidations() []Validation {
	return []Validation{
		{
			Name:          "email",
			AllowedTypes:  []DataType{TypeEmail, TypeString},
			SkipWhenEmpty: true,
			Check: func(_ context.Context, sc StepContext, _ Options) (bool, string, error) {
				if !isValidEmail(toString(sc.Value())) {
					return false, "invalid", nil
				}
				return true, "", nil
			},
		},
		{
			Name:          "url",
			AllowedTypes:  []DataType{TypeURL, TypeString},
			PrimaryOption: "requireProtocol",
			Defaults:      Options{"requireProtocol": false},
			SkipWhenEmpty: true,
			Check:         checkURL,
		},
		{
			Name:          "telephone",
			AllowedTypes:  []DataType{TypeTelephone, TypeString},
			PrimaryOption: "minDigits",
			Defaults:      Options{"minDigits": 6, "maxDigits": 16, "countryCode": "44"},
			SkipWhenEmpty: true,
			Check:         checkTelephone,
		},
		{
			Name:          "hash",
			AllowedTypes:  []DataType{TypeHash},
			PrimaryOption: "minSelections",
			SkipWhenEmpty: true,
			Check:         checkHash,
		},
	}
}

// isValidEmail parses with the stdlib mail parser, then applies the extra
// checks typical web forms expect: a lone address with a dotted domain.
func isValidEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}

	domain := parts[1]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func checkURL(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	value := strings.TrimSpace(toString(sc.Value()))

	hasProtocol := schemeRegex.MatchString(value)
	if opts.Bool("requireProtocol", false) && !hasProtocol {
		return false, "no-protocol", nil
	}
	if !hasProtocol {
		// Parse against a nominal scheme so host rules still apply.
		value = "http://" + value
	}

	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" || !strings.Contains(parsed.Host, ".") {
		return false, "invalid", nil
	}
	return true, "", nil
}

// checkTelephone counts national significant digits: the country code and
// the trunk leading zero are excluded, so national and international spellings
// of the same number count alike.
func checkTelephone(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	phone := parsePhone(toString(sc.Value()), opts.String("countryCode", "44"))

	digits := len(phone.digits)
	if digits < opts.Int("minDigits", 6) {
		return false, "too-few-digits", nil
	}
	if digits > opts.Int("maxDigits", 16) {
		return false, "too-many-digits", nil
	}
	return true, "", nil
}

func checkHash(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	value, ok := sc.Value().(map[string]bool)
	if !ok {
		return false, "invalid", nil
	}

	if validKeys := opts.Strings("validKeys"); validKeys != nil {
		allowed := make(map[string]struct{}, len(validKeys))
		for _, k := range validKeys {
			allowed[k] = struct{}{}
		}
		for k := range value {
			if _, ok := allowed[k]; !ok {
				return false, "invalid-key", nil
			}
		}
	}

	selected := 0
	for _, set := range value {
		if set {
			selected++
		}
	}

	if min := opts.Int("minSelections", 0); selected < min {
		return false, "too-few-selections", nil
	}
	if _, hasMax := opts["maxSelections"]; hasMax && selected > opts.Int("maxSelections", selected) {
		return false, "too-many-selections", nil
	}
	return true, "", nil
}
