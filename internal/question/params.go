package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = 5
)

// Params are the generation parameters sent along with a document.
type Params struct {
	Count      int        `validate:"min=1,max=20"`
	Difficulty Difficulty `validate:"oneof=easy medium hard expert"`
	Type       Type       `validate:"oneof=comprehension analysis application evaluation"`
}

// DefaultParams returns five medium comprehension questions.
func DefaultParams() Params {
	return Params{
		Count:      DefaultCount,
		Difficulty: DifficultyMedium,
		Type:       TypeComprehension,
	}
}

var validate = validator.New()

// Validate checks the parameter ranges and enumerations.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid generation parameters: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "Count":
		return fmt.Sprintf("question count must be between %d and %d, got %v", MinCount, MaxCount, fe.Value())
	case "Difficulty":
		return fmt.Sprintf("difficulty %q is not one of %s", fe.Value(), fe.Param())
	case "Type":
		return fmt.Sprintf("question type %q is not one of %s", fe.Value(), fe.Param())
	}
	return fe.Error()
}

// ParseDifficulty maps a case-insensitive name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid difficulty %q: must be easy, medium, hard or expert", s)
}

// ParseType maps a case-insensitive name to a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid question type %q: must be comprehension, analysis, application or evaluation", s)
}
