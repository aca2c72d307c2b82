package foval

import (
	"context"

	"github.com/saikojosh/Foval/pkg/strength"
)

// PasswordScorer rates password strength for the password validation. The
// default implementation lives in pkg/strength; forms can substitute an
// external policy service via WithPasswordScorer.
type PasswordScorer interface {
	Score(password string) int
}

func passwordValidations() []Validation {
	return []Validation{
		{
			Name:          "password",
			AllowedTypes:  []DataType{TypePassword, TypeString},
			PrimaryOption: "minScore",
			Defaults:      Options{"minScore": 0},
			SkipWhenEmpty: true,
			Check:         checkPassword,
		},
	}
}

func checkPassword(_ context.Context, sc StepContext, opts Options) (bool, string, error) {
	password := toString(sc.Value())

	for _, requirement := range opts.Strings("requirements") {
		if !strength.Meets(password, requirement) {
			return false, "missing-requirement", nil
		}
	}

	if minScore := opts.Int("minScore", 0); minScore > 0 {
		scorer := sc.form.scorer
		if scorer == nil {
			scorer = strength.New()
		}
		if scorer.Score(password) < minScore {
			return false, "too-weak", nil
		}
	}
	return true, "", nil
}
