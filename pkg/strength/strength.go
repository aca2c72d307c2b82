// Package strength scores password strength for the password validation
// step. Scoring is intentionally coarse: length tiers, character-class
// variety and a penalty for well-known weak passwords. Integrators with a
// real policy service can satisfy the same interface and swap it in.
package strength

import (
	"regexp"
	"strings"
	"unicode"
)

// Requirement names understood by Meets.
const (
	Uppercase = "uppercase"
	Lowercase = "lowercase"
	Digit     = "digit"
	Special   = "special"
	NotCommon = "not-common"
)

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)
)

// commonPasswords holds frequently compromised passwords, compared
// case-insensitively.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password!":  {},
	"123456":     {},
	"1234567890": {},
	"12345678":   {},
	"123456789":  {},
	"123123":     {},
	"111111":     {},
	"000000":     {},
	"qwerty":     {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"asdfghjkl":  {},
	"zxcvbnm":    {},
	"abc123":     {},
	"letmein":    {},
	"welcome":    {},
	"iloveyou":   {},
	"sunshine":   {},
	"princess":   {},
	"dragon":     {},
	"monkey":     {},
	"football":   {},
	"baseball":   {},
	"superman":   {},
	"batman":     {},
	"trustno1":   {},
	"admin":      {},
	"admin123":   {},
	"root":       {},
	"guest":      {},
	"login":      {},
	"master":     {},
	"secret":     {},
	"test":       {},
}

// Scorer rates passwords on a 0..5 scale.
type Scorer struct{}

// New returns the default scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score rates a password from 0 (unusable) to 5 (strong). Common passwords
// score 0 regardless of composition.
func (s *Scorer) Score(password string) int {
	if password == "" || IsCommon(password) {
		return 0
	}

	score := 0
	switch {
	case len(password) >= 16:
		score += 2
	case len(password) >= 10:
		score++
	}
	if len(password) >= 8 {
		score++
	}

	classes := 0
	for _, re := range []*regexp.Regexp{uppercaseRegex, lowercaseRegex, digitRegex, specialRegex} {
		if re.MatchString(password) {
			classes++
		}
	}
	if classes >= 2 {
		score++
	}
	if classes >= 4 {
		score++
	}

	if score > 5 {
		score = 5
	}
	return score
}

// Meets reports whether a password satisfies one named requirement.
// Unrecognized requirement names are never satisfied, so a typo in a form
// definition fails loudly in tests rather than passing silently.
func Meets(password, requirement string) bool {
	switch requirement {
	case Uppercase:
		return uppercaseRegex.MatchString(password)
	case Lowercase:
		return lowercaseRegex.MatchString(password)
	case Digit:
		return digitRegex.MatchString(password)
	case Special:
		return specialRegex.MatchString(password)
	case NotCommon:
		return !IsCommon(password)
	default:
		return false
	}
}

// IsCommon reports whether the password is on the weak-password list.
func IsCommon(password string) bool {
	normalized := strings.ToLower(strings.TrimFunc(password, unicode.IsSpace))
	_, found := commonPasswords[normalized]
	return found
}
